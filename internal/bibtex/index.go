package bibtex

import (
	"os"
	"strings"

	"github.com/matsen/citemark/internal/reference"
)

// Index indexes existing BibTeX entries for deduplication.
type Index struct {
	// Keys maps citation keys to true for existence check
	Keys map[string]bool
	// DOIs maps DOI values to citation keys
	DOIs map[string]string
}

// NewIndex creates an index over the given records.
func NewIndex(recs []reference.RawRecord) *Index {
	idx := &Index{
		Keys: make(map[string]bool),
		DOIs: make(map[string]string),
	}
	for _, rec := range recs {
		idx.Add(rec)
	}
	return idx
}

// Add records a key and, if present, its DOI.
func (idx *Index) Add(rec reference.RawRecord) {
	idx.Keys[rec.Key] = true
	if doi := normalizeDOI(rec.Get("doi")); doi != "" {
		idx.DOIs[doi] = rec.Key
	}
}

// HasEntry returns true if the entry already exists (by DOI or key).
// DOI is the primary match; citation key is the fallback if no DOI.
func (idx *Index) HasEntry(key, doi string) bool {
	if doi != "" {
		if _, exists := idx.DOIs[normalizeDOI(doi)]; exists {
			return true
		}
	}
	return idx.Keys[key]
}

// IndexFile builds an index from an existing .bib file.
// Returns an empty index if the file doesn't exist.
func IndexFile(path string) (*Index, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return NewIndex(nil), nil
	}
	recs, err := ReadFile(path, "")
	if err != nil {
		return nil, err
	}
	return NewIndex(recs), nil
}

// normalizeDOI normalizes a DOI for comparison.
// Removes common prefixes like "https://doi.org/" and lowercases.
func normalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	doi = strings.TrimPrefix(doi, "https://doi.org/")
	doi = strings.TrimPrefix(doi, "http://doi.org/")
	doi = strings.TrimPrefix(doi, "doi.org/")
	doi = strings.TrimPrefix(doi, "DOI:")
	doi = strings.TrimPrefix(doi, "doi:")
	return strings.ToLower(doi)
}

// AppendToFile appends BibTeX content to a file.
func AppendToFile(path, content string) error {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	// Ensure we start on a new line
	_, err = file.WriteString("\n" + content)
	return err
}
