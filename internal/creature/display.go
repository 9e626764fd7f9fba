package creature

import (
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DisplayName renders a stored (lower-case) name for humans. A Caser keeps
// state, so each call gets its own.
func DisplayName(name string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(name, "-", " "))
}

// WriteDetail prints a single record as a block of labelled lines.
func WriteDetail(w io.Writer, r Record) {
	rule := strings.Repeat("=", 50)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "Creature Details")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "ID: %d\n", r.ID)
	fmt.Fprintf(w, "Name: %s\n", DisplayName(r.Name))
	fmt.Fprintf(w, "Height: %d decimeters\n", r.Height)
	fmt.Fprintf(w, "Weight: %d hectograms\n", r.Weight)
	fmt.Fprintf(w, "Base Experience: %d\n", r.BaseExperience)
	fmt.Fprintf(w, "Order: %d\n", r.Order)
	if r.CreatedAt != nil {
		fmt.Fprintf(w, "Added to collection: %s\n", r.CreatedAt.Format(time.RFC3339))
	}
	fmt.Fprintln(w, rule)
}

// WriteTable prints records as a fixed-width table.
func WriteTable(w io.Writer, records []Record) {
	rule := strings.Repeat("-", 60)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-4s | %-15s | %-6s | %-6s | %-4s\n", "ID", "Name", "Height", "Weight", "XP")
	fmt.Fprintln(w, rule)
	for _, r := range records {
		fmt.Fprintf(w, "%-4d | %-15s | %-6d | %-6d | %-4d\n",
			r.ID, DisplayName(r.Name), r.Height, r.Weight, r.BaseExperience)
	}
	fmt.Fprintln(w, rule)
}
