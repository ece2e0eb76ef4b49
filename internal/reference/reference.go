// Package reference defines the core domain types for bibliographic records.
package reference

import "strings"

// EntryType is the BibTeX entry type of a record (article, book, ...).
type EntryType string

// Entry types with a reference list template.
const (
	Article       EntryType = "article"
	Book          EntryType = "book"
	Booklet       EntryType = "booklet"
	Conference    EntryType = "conference"
	InBook        EntryType = "inbook"
	InCollection  EntryType = "incollection"
	Misc          EntryType = "misc"
	InProceedings EntryType = "inproceedings"
	Manual        EntryType = "manual"
	PhDThesis     EntryType = "phdthesis"
	MasterThesis  EntryType = "masterthesis"
	TechReport    EntryType = "techreport"
)

// ParseEntryType lowercases a type tag as it appears after the @ sign.
func ParseEntryType(s string) EntryType {
	return EntryType(strings.ToLower(strings.TrimSpace(s)))
}

// RawRecord is one entry as found in the bibliography source.
// Field names are lowercase. A RawRecord is not modified after loading.
type RawRecord struct {
	Key    string            `json:"key"`
	Type   EntryType         `json:"type"`
	Fields map[string]string `json:"fields"`
}

// Get returns a field value, or "" when the field is absent.
func (r RawRecord) Get(name string) string {
	return r.Fields[name]
}

// Record is a RawRecord with the computed display fields filled in.
type Record struct {
	Key  string
	Type EntryType

	// Fields holds the source fields; "pages" uses an en-dash range.
	Fields map[string]string

	Author       string // full names joined with "and" / "et al."
	Surnames     string // surnames joined the same way
	AuthorYear   string // "<surnames> <year><suffix>", unique per session
	UniqueSuffix string // disambiguation suffix, possibly empty
}

// Value returns the text for a field selector. Computed selectors read the
// normalized values; all others read the source field.
func (r *Record) Value(f Field) string {
	switch f {
	case FieldNone:
		return ""
	case FieldAuthor:
		return r.Author
	case FieldSurnames:
		return r.Surnames
	case FieldAuthorYear:
		return r.AuthorYear
	case FieldUniqueSuffix:
		return r.UniqueSuffix
	case FieldKey:
		return r.Key
	}
	return r.Fields[string(f)]
}
