// Package seed (re)populates the creature collection from a bundled dataset.
package seed

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"creaturedex/internal/creature"
	"creaturedex/platform/apperr"
)

// Format names a dataset encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// tomlDataset is the TOML layout: one [[creatures]] table per record.
type tomlDataset struct {
	Creatures []creature.Record `toml:"creatures"`
}

// FormatFromPath picks the encoding from the file extension. Unknown
// extensions are read as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// CheckDatasetName accepts a bare dataset file name such as "extra.yaml".
// Anything with a directory component, a drive or a leading dot is refused.
func CheckDatasetName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.ContainsAny(name, `/\:`) || strings.HasPrefix(name, ".") {
		return apperr.Validation("dataset must be a bare file name").
			WithOp("seed.CheckDatasetName").
			WithDetails(map[string]interface{}{"dataset": name})
	}
	return nil
}

// ResolveDataset returns the file name resolved next to fallback, or
// fallback itself when name is empty.
func ResolveDataset(fallback, name string) (string, error) {
	if name == "" {
		return fallback, nil
	}
	if err := CheckDatasetName(name); err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(fallback), name), nil
}

// LoadDataset reads and validates the dataset at path.
func LoadDataset(path string) ([]creature.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "read dataset", err).WithOp("seed.LoadDataset")
	}
	return ParseDataset(data, FormatFromPath(path))
}

// ParseDataset decodes an ordered list of records and normalizes their
// names. Entries with a non-positive id, an empty name or a negative measure
// are rejected. Duplicates are left for the unique indexes to report.
func ParseDataset(data []byte, format Format) ([]creature.Record, error) {
	var records []creature.Record
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &records)
	case FormatTOML:
		var doc tomlDataset
		err = toml.Unmarshal(data, &doc)
		records = doc.Creatures
	default:
		err = json.Unmarshal(data, &records)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "decode dataset", err).WithOp("seed.ParseDataset")
	}

	for i := range records {
		records[i] = records[i].Normalized()
		records[i].CreatedAt = nil
		if problem := checkRecord(records[i]); problem != "" {
			return nil, apperr.Validation(fmt.Sprintf("dataset entry %d: %s", i, problem)).
				WithOp("seed.ParseDataset").
				WithDetails(map[string]interface{}{"index": i, "id": records[i].ID})
		}
	}
	return records, nil
}

func checkRecord(r creature.Record) string {
	switch {
	case r.ID <= 0:
		return "id must be positive"
	case r.Name == "":
		return "name is required"
	case r.Height < 0, r.Weight < 0, r.BaseExperience < 0, r.Order < 0:
		return "measures must not be negative"
	}
	return ""
}
