package bibtex

import (
	"fmt"
	"sort"
	"strings"

	"github.com/matsen/citemark/internal/reference"
)

// leadingFields are written first, in this order; the rest follow sorted.
var leadingFields = []string{"author", "editor", "title", "year"}

// ToBibTeX converts a raw record back to BibTeX. Values are written as
// loaded, so LaTeX markup in the source survives a round trip.
func ToBibTeX(rec reference.RawRecord) string {
	var b strings.Builder

	entryType := string(rec.Type)
	if entryType == "" {
		entryType = string(reference.Misc)
	}
	b.WriteString(fmt.Sprintf("@%s{%s,\n", entryType, rec.Key))

	for _, name := range orderedFields(rec.Fields) {
		b.WriteString(fmt.Sprintf("  %s = {%s},\n", name, rec.Fields[name]))
	}

	b.WriteString("}\n")

	return b.String()
}

// ToBibTeXList converts multiple records to BibTeX format.
func ToBibTeXList(recs []reference.RawRecord) string {
	var entries []string
	for _, rec := range recs {
		entries = append(entries, ToBibTeX(rec))
	}
	return strings.Join(entries, "\n")
}

func orderedFields(fields map[string]string) []string {
	seen := make(map[string]bool, len(leadingFields))
	var names []string
	for _, name := range leadingFields {
		if _, ok := fields[name]; ok {
			names = append(names, name)
		}
		seen[name] = true
	}

	var rest []string
	for name := range fields {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)

	return append(names, rest...)
}
