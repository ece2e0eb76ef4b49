package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/matsen/citemark/internal/reference"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"refs.bib", FormatBibTeX},
		{"refs.BIB", FormatBibTeX},
		{"refs", FormatBibTeX},
		{"refs.jsonl", FormatJSONL},
		{"index.db", FormatSQLite},
		{"index.sqlite", FormatSQLite},
		{"index.sqlite3", FormatSQLite},
	}
	for _, tt := range tests {
		if got := DetectFormat(tt.path); got != tt.want {
			t.Errorf("DetectFormat(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestLoadSource(t *testing.T) {
	dir := t.TempDir()
	recs := []reference.RawRecord{
		{Key: "k1", Type: reference.Article, Fields: map[string]string{"author": "Aamport, L.", "year": "1986"}},
		{Key: "k2", Type: reference.Book, Fields: map[string]string{"author": "Knuth, D.", "year": "1984"}},
	}

	bibPath := filepath.Join(dir, "refs.bib")
	bib := "@article{k1, author = {Aamport, L.}, year = 1986}\n@book{k2, author = {Knuth, D.}, year = {1984}}\n"
	if err := os.WriteFile(bibPath, []byte(bib), 0644); err != nil {
		t.Fatal(err)
	}

	jsonlPath := filepath.Join(dir, "refs.jsonl")
	if err := WriteAll(jsonlPath, recs); err != nil {
		t.Fatal(err)
	}

	dbPath := filepath.Join(dir, "refs.db")
	db, err := OpenDB(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Rebuild(recs); err != nil {
		t.Fatal(err)
	}
	db.Close()

	for _, path := range []string{bibPath, jsonlPath, dbPath} {
		t.Run(filepath.Base(path), func(t *testing.T) {
			got, err := LoadSource(path, "")
			if err != nil {
				t.Fatalf("LoadSource() error = %v", err)
			}
			if len(got) != 2 {
				t.Fatalf("LoadSource() returned %d records, want 2", len(got))
			}
			if got[0].Key != "k1" || got[1].Key != "k2" {
				t.Errorf("keys = %s, %s, want k1, k2", got[0].Key, got[1].Key)
			}
			if got[1].Type != reference.Book {
				t.Errorf("k2 type = %q, want book", got[1].Type)
			}
			if got[0].Get("year") != "1986" {
				t.Errorf("k1 year = %q, want 1986", got[0].Get("year"))
			}
		})
	}
}

func TestLoadSource_MissingIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.db")
	if _, err := LoadSource(path, ""); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadSource() error = %v, want ErrNotExist", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("LoadSource created the missing index")
	}
}

func TestLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latin1.bib")
	// "Gödel" in ISO-8859-1.
	data := []byte("@misc{g, author = {G\xf6del, Kurt}, year = 1931}")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	got, err := Loader("ISO-8859-1")(path)
	if err != nil {
		t.Fatalf("Loader() error = %v", err)
	}
	if len(got) != 1 || got[0].Get("author") != "Gödel, Kurt" {
		t.Errorf("Loader() = %+v, want author Gödel, Kurt", got)
	}
}
