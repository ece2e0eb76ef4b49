package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/matsen/citemark/internal/reference"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database holding an indexed bibliography.
type DB struct {
	db *sql.DB
}

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	// Create schema if needed
	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		-- One row per bibliography entry; position keeps source order
		CREATE TABLE IF NOT EXISTS records (
			key TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			position INTEGER NOT NULL,
			fields_json TEXT NOT NULL
		);

		-- Full-text search over the fields people look keys up by
		CREATE VIRTUAL TABLE IF NOT EXISTS records_fts USING fts5(
			key,
			author,
			title,
			year
		);
	`

	_, err := db.Exec(schema)
	return err
}

// Rebuild clears the database and stores recs in order.
// Later duplicates of a key are ignored.
func (d *DB) Rebuild(recs []reference.RawRecord) (int, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM records"); err != nil {
		return 0, fmt.Errorf("clearing records table: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM records_fts"); err != nil {
		return 0, fmt.Errorf("clearing records_fts table: %w", err)
	}

	recStmt, err := tx.Prepare(`INSERT OR IGNORE INTO records (key, type, position, fields_json) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing records insert: %w", err)
	}
	defer recStmt.Close()

	ftsStmt, err := tx.Prepare(`INSERT INTO records_fts (key, author, title, year) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing fts insert: %w", err)
	}
	defer ftsStmt.Close()

	count := 0
	for i, rec := range recs {
		fieldsJSON, err := json.Marshal(rec.Fields)
		if err != nil {
			return 0, fmt.Errorf("marshaling fields for %s: %w", rec.Key, err)
		}

		res, err := recStmt.Exec(rec.Key, string(rec.Type), i, string(fieldsJSON))
		if err != nil {
			return 0, fmt.Errorf("inserting record %s: %w", rec.Key, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			continue
		}

		author := rec.Get("author")
		if author == "" {
			author = rec.Get("editor")
		}
		if _, err := ftsStmt.Exec(rec.Key, author, rec.Get("title"), rec.Get("year")); err != nil {
			return 0, fmt.Errorf("inserting fts for %s: %w", rec.Key, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing: %w", err)
	}
	return count, nil
}

// ListAll returns all records in source order, optionally limited.
func (d *DB) ListAll(limit int) ([]reference.RawRecord, error) {
	query := `SELECT key, type, fields_json FROM records ORDER BY position`
	var args []interface{}

	if limit > 0 {
		query += " LIMIT ?"
		args = []interface{}{limit}
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Search performs a full-text search over key, author, title and year.
func (d *DB) Search(query string, limit int) ([]reference.RawRecord, error) {
	rows, err := d.db.Query(`
		SELECT key, type, fields_json
		FROM records
		WHERE key IN (SELECT key FROM records_fts WHERE records_fts MATCH ?)
		ORDER BY position
		LIMIT ?`, prepareFTSQuery(query), limit)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Count returns the total number of records.
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM records").Scan(&count)
	return count, err
}

// scanner interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(s scanner) (*reference.RawRecord, error) {
	var rec reference.RawRecord
	var typ, fieldsJSON string

	if err := s.Scan(&rec.Key, &typ, &fieldsJSON); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	rec.Type = reference.EntryType(typ)
	if err := json.Unmarshal([]byte(fieldsJSON), &rec.Fields); err != nil {
		return nil, fmt.Errorf("parsing fields JSON for %s: %w", rec.Key, err)
	}
	if rec.Fields == nil {
		rec.Fields = make(map[string]string)
	}

	return &rec, nil
}

func scanRecords(rows *sql.Rows) ([]reference.RawRecord, error) {
	var recs []reference.RawRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			recs = append(recs, *rec)
		}
	}
	return recs, rows.Err()
}

// prepareFTSQuery escapes special characters for FTS5 queries.
func prepareFTSQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	// If query contains special chars, quote it
	if strings.ContainsAny(query, "\"*+-:(){}[]^~./") {
		query = strings.ReplaceAll(query, "\"", "\"\"")
		return "\"" + query + "\""
	}

	return query
}
