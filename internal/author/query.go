// Package author matches author queries against bibliography records.
package author

import (
	"strings"

	"github.com/matsen/citemark/internal/latex"
	"github.com/matsen/citemark/internal/reference"
)

// Query is one parsed author filter.
type Query struct {
	First string // given-name prefix, may be empty
	Last  string // surname, required
}

// ParseQuery parses an author filter.
//
//   - "Knuth"            → last="Knuth"
//   - "Donald Knuth"     → first="Donald", last="Knuth"
//   - "Knuth, Don"       → first="Don", last="Knuth"
//   - "Ludwig van Beethoven" → first="Ludwig", last="van Beethoven"
//
// Multi-word input goes through reference.ParseName, so particles fold
// into the surname the same way they do for record authors.
func ParseQuery(input string) Query {
	input = strings.TrimSpace(input)
	if input == "" {
		return Query{}
	}
	if !strings.Contains(input, ",") && len(strings.Fields(input)) == 1 {
		return Query{Last: input}
	}
	a := reference.ParseName(input)
	return Query{First: a.First, Last: a.Last}
}

// Matches reports whether a is the author q names. Surnames compare
// case-insensitively; the given name is a case-insensitive prefix, so
// "Don Knuth" matches "Donald E. Knuth" but "Knu" matches nobody.
func (q Query) Matches(a reference.Author) bool {
	if q.Last == "" || !strings.EqualFold(q.Last, a.Last) {
		return false
	}
	if q.First == "" {
		return true
	}
	return strings.HasPrefix(strings.ToLower(a.First), strings.ToLower(q.First))
}

// MatchesAny reports whether q matches any of authors.
func (q Query) MatchesAny(authors []reference.Author) bool {
	for _, a := range authors {
		if q.Matches(a) {
			return true
		}
	}
	return false
}

// AllMatch reports whether every query matches at least one author.
func AllMatch(queries []Query, authors []reference.Author) bool {
	for _, q := range queries {
		if !q.MatchesAny(authors) {
			return false
		}
	}
	return true
}

// Authors returns the parsed persons of a raw record: its authors, or its
// editors when it has none. Field values are converted from LaTeX first.
func Authors(rec reference.RawRecord) []reference.Author {
	names := rec.Get("author")
	if strings.TrimSpace(names) == "" {
		names = rec.Get("editor")
	}
	return reference.ParseAuthors(latex.ToUnicode(names))
}

// Filter keeps the records matched by every query, in order. No queries
// keeps everything.
func Filter(queries []Query, recs []reference.RawRecord) []reference.RawRecord {
	if len(queries) == 0 {
		return recs
	}
	var out []reference.RawRecord
	for _, rec := range recs {
		if AllMatch(queries, Authors(rec)) {
			out = append(out, rec)
		}
	}
	return out
}
