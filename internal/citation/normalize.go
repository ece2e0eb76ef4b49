package citation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matsen/citemark/internal/latex"
	"github.com/matsen/citemark/internal/reference"
)

// ErrMissingYear marks a record that cannot get an author-year label.
var ErrMissingYear = errors.New("record has no year")

// RecordError ties a normalization failure to its citation key.
type RecordError struct {
	Key string
	Err error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %s: %v", e.Key, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// verbatimFields keep their LaTeX-looking content untouched.
var verbatimFields = map[string]bool{
	"url": true, "doi": true, "link": true, "file": true, "eprint": true,
}

// Normalize computes the display fields of raw. The author-year label is
// made unique through a; a record without a year fails with ErrMissingYear
// and consumes no label.
func Normalize(raw reference.RawRecord, a *SuffixAssigner) (*reference.Record, error) {
	fields := make(map[string]string, len(raw.Fields))
	for name, v := range raw.Fields {
		if name == string(reference.FieldPages) {
			v = NormalizePages(v)
		}
		if !verbatimFields[name] {
			v = latex.ToUnicode(v)
		}
		fields[name] = strings.TrimSpace(v)
	}

	year := fields[string(reference.FieldYear)]
	if year == "" {
		return nil, &RecordError{Key: raw.Key, Err: ErrMissingYear}
	}

	names := fields[string(reference.FieldAuthor)]
	if names == "" {
		names = fields[string(reference.FieldEditor)]
	}
	if names == "" {
		names = reference.Anonymous
	}

	authors := reference.ParseAuthors(names)
	if len(authors) == 0 {
		authors = []reference.Author{{Last: names}}
	}
	displays := make([]string, len(authors))
	surnames := make([]string, len(authors))
	for i, au := range authors {
		displays[i] = au.Display()
		surnames[i] = au.Last
	}

	rec := &reference.Record{
		Key:      raw.Key,
		Type:     raw.Type,
		Fields:   fields,
		Author:   reference.JoinNames(displays),
		Surnames: reference.JoinNames(surnames),
	}

	base := rec.Surnames + " " + year
	rec.UniqueSuffix = a.Assign(base)
	rec.AuthorYear = base + rec.UniqueSuffix

	return rec, nil
}

// NormalizePages turns a hyphenated range into "first–last"; values
// without a hyphen are returned unchanged.
func NormalizePages(pages string) string {
	if !strings.Contains(pages, "-") {
		return pages
	}
	parts := strings.Split(pages, "-")
	first := strings.Trim(strings.TrimSpace(parts[0]), "-")
	last := strings.Trim(strings.TrimSpace(parts[len(parts)-1]), "-")
	return first + "–" + last
}
