package citation

import (
	"errors"

	"go.uber.org/multierr"

	"github.com/matsen/citemark/internal/reference"
)

// ErrDuplicateKey marks a record whose key was already defined earlier
// in the bibliography.
var ErrDuplicateKey = errors.New("duplicate key")

// Store maps citation keys to normalized records.
type Store struct {
	records map[string]*reference.Record
	keys    []string // source order
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{records: make(map[string]*reference.Record)}
}

// BuildStore normalizes raws in order. Records that fail normalization and
// repeated keys are left out; their RecordErrors are combined into the
// returned error, and the store holds everything else.
func BuildStore(raws []reference.RawRecord, a *SuffixAssigner) (*Store, error) {
	s := NewStore()
	var errs error
	for _, raw := range raws {
		if _, dup := s.records[raw.Key]; dup {
			errs = multierr.Append(errs, &RecordError{Key: raw.Key, Err: ErrDuplicateKey})
			continue
		}
		rec, err := Normalize(raw, a)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		s.add(rec)
	}
	return s, errs
}

func (s *Store) add(rec *reference.Record) {
	s.records[rec.Key] = rec
	s.keys = append(s.keys, rec.Key)
}

// Get looks up a record by key.
func (s *Store) Get(key string) (*reference.Record, bool) {
	rec, ok := s.records[key]
	return rec, ok
}

// Keys returns all keys in source order.
func (s *Store) Keys() []string {
	return append([]string(nil), s.keys...)
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.keys)
}
