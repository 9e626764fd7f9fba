// Package creature holds the record types shared by the storage API, the
// seed loader and the player-side clients.
package creature

import (
	"strings"
	"time"
)

// Record is one creature entry in the collection.
//
// ID and the normalized Name are both unique keys. CreatedAt is assigned by
// the store on insert and never changes afterwards.
type Record struct {
	ID             int        `json:"id" yaml:"id" toml:"id"`
	Name           string     `json:"name" yaml:"name" toml:"name"`
	Height         int        `json:"height" yaml:"height" toml:"height"`
	Weight         int        `json:"weight" yaml:"weight" toml:"weight"`
	BaseExperience int        `json:"base_experience" yaml:"base_experience" toml:"base_experience"`
	Order          int        `json:"order" yaml:"order" toml:"order"`
	CreatedAt      *time.Time `json:"created_at,omitempty" yaml:"-" toml:"-"`
}

// Candidate is one entry of the catalog listing. DetailRef is the URL that
// resolves to the full record.
type Candidate struct {
	Name      string `json:"name"`
	DetailRef string `json:"url"`
}

// Stats summarizes the collection backing the storage API.
type Stats struct {
	Total      int    `json:"total"`
	Database   string `json:"database"`
	Collection string `json:"collection"`
}

// NormalizeName returns the canonical form used for storage and for every
// ownership comparison.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Normalized returns a copy of r with its name normalized.
func (r Record) Normalized() Record {
	r.Name = NormalizeName(r.Name)
	return r
}
