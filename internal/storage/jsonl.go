// Package storage reads and writes bibliography records in JSONL and
// SQLite form, as alternatives to a .bib source.
package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/matsen/citemark/internal/reference"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
const MaxJSONLLineCapacity = 1024 * 1024

// ReadAll reads all records from a JSONL file, one RawRecord per line.
func ReadAll(path string) ([]reference.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening records file: %w", err)
	}
	defer f.Close()

	var recs []reference.RawRecord
	scanner := bufio.NewScanner(f)

	// Increase buffer size for long lines
	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue // Skip empty lines
		}

		var rec reference.RawRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		if rec.Key == "" {
			return nil, fmt.Errorf("parsing line %d: missing key", lineNum)
		}
		if rec.Fields == nil {
			rec.Fields = make(map[string]string)
		}
		rec.Type = reference.ParseEntryType(string(rec.Type))
		recs = append(recs, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading records file: %w", err)
	}

	return recs, nil
}

// Append adds a record to the end of a JSONL file.
func Append(path string, rec reference.RawRecord) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening records file for append: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("writing record: %w", err)
	}
	if _, err := f.WriteString("\n"); err != nil {
		return fmt.Errorf("writing newline: %w", err)
	}

	return nil
}

// WriteAll writes all records to a JSONL file, replacing existing content.
func WriteAll(path string, recs []reference.RawRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating records file: %w", err)
	}
	defer f.Close()

	for i, rec := range recs {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encoding record %d: %w", i, err)
		}

		if _, err := f.Write(data); err != nil {
			return fmt.Errorf("writing record %d: %w", i, err)
		}
		if _, err := f.WriteString("\n"); err != nil {
			return fmt.Errorf("writing newline: %w", err)
		}
	}

	return nil
}

// FindByKey searches for a record by citation key.
func FindByKey(recs []reference.RawRecord, key string) (int, bool) {
	for i, rec := range recs {
		if rec.Key == key {
			return i, true
		}
	}
	return -1, false
}

// Unique keeps the first record for every key, in order.
func Unique(recs []reference.RawRecord) []reference.RawRecord {
	var out []reference.RawRecord
	for _, rec := range recs {
		if _, dup := FindByKey(out, rec.Key); dup {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// AppendNew appends the records whose keys are not yet in the JSONL file
// at path, creating it if needed. It returns the number appended.
func AppendNew(path string, recs []reference.RawRecord) (int, error) {
	var existing []reference.RawRecord
	if _, err := os.Stat(path); err == nil {
		if existing, err = ReadAll(path); err != nil {
			return 0, err
		}
	}

	n := 0
	for _, rec := range recs {
		if _, ok := FindByKey(existing, rec.Key); ok {
			continue
		}
		if err := Append(path, rec); err != nil {
			return n, err
		}
		existing = append(existing, rec)
		n++
	}
	return n, nil
}
