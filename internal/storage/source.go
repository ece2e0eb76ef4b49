package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matsen/citemark/internal/bibtex"
	"github.com/matsen/citemark/internal/reference"
)

// Source formats, chosen by file extension.
const (
	FormatBibTeX = "bibtex"
	FormatJSONL  = "jsonl"
	FormatSQLite = "sqlite"
)

// DetectFormat returns the source format for path. Unknown extensions are
// read as BibTeX.
func DetectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl":
		return FormatJSONL
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite
	}
	return FormatBibTeX
}

// LoadSource reads every record of a bibliography source in source order.
// encoding applies to BibTeX files only. For BibTeX the returned error may
// describe skipped entries while records is non-empty.
func LoadSource(path, encoding string) ([]reference.RawRecord, error) {
	switch DetectFormat(path) {
	case FormatJSONL:
		return ReadAll(path)
	case FormatSQLite:
		// OpenDB would create a missing file.
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("opening index: %w", err)
		}
		db, err := OpenDB(path)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return db.ListAll(0)
	}
	return bibtex.ReadFile(path, encoding)
}

// Loader returns a LoadSource bound to encoding, for use as a session loader.
func Loader(encoding string) func(string) ([]reference.RawRecord, error) {
	return func(path string) ([]reference.RawRecord, error) {
		return LoadSource(path, encoding)
	}
}
