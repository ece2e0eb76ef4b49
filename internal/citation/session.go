package citation

import (
	"errors"
	"sort"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/matsen/citemark/internal/bibtex"
	"github.com/matsen/citemark/internal/reference"
)

// ErrNoBibliography is reported when no bibliography source was configured.
var ErrNoBibliography = errors.New("no bibliography given")

// DiagnosticKind classifies a non-fatal problem found during a conversion.
type DiagnosticKind string

const (
	DiagConfig    DiagnosticKind = "config"    // no bibliography source
	DiagLoad      DiagnosticKind = "load"      // source unreadable or malformed
	DiagRecord    DiagnosticKind = "record"    // record skipped during normalization
	DiagUndefined DiagnosticKind = "undefined" // citation key not in the store
	DiagExtras    DiagnosticKind = "extras"    // prefix or locator not allowed
)

// Diagnostic is one warning raised during a conversion.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Key     string         `json:"key,omitempty"`
	Message string         `json:"message"`
}

// Loader reads the raw records of a bibliography source.
type Loader func(source string) ([]reference.RawRecord, error)

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger warnings are written to.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithLoader replaces the default BibTeX file loader.
func WithLoader(load Loader) Option {
	return func(s *Session) {
		if load != nil {
			s.load = load
		}
	}
}

func loadBibTeX(source string) ([]reference.RawRecord, error) {
	return bibtex.ReadFile(source, "")
}

// Session holds the state of one document conversion: the labels handed
// out, the bibliography store and the set of keys actually cited. A
// Session is not safe for concurrent use; convert one document at a time
// and call Reset between documents.
type Session struct {
	log  *zap.Logger
	load Loader

	source   string
	loaded   bool
	store    *Store
	assigner *SuffixAssigner
	cited    map[string]bool
	resolved int
	diags    []Diagnostic
}

// NewSession returns a reset session.
func NewSession(opts ...Option) *Session {
	s := &Session{log: zap.NewNop(), load: loadBibTeX}
	for _, opt := range opts {
		opt(s)
	}
	s.Reset()
	return s
}

// Reset clears all per-document state. The configured source is kept.
func (s *Session) Reset() {
	s.loaded = false
	s.store = NewStore()
	s.assigner = NewSuffixAssigner()
	s.cited = make(map[string]bool)
	s.resolved = 0
	s.diags = nil
}

// Configure names the bibliography source. It has no effect once the
// store has been loaded for the current document.
func (s *Session) Configure(source string) {
	if s.loaded {
		s.log.Debug("Bibliography already loaded, ignoring source", zap.String("source", source))
		return
	}
	s.source = source
}

// Source returns the configured bibliography source.
func (s *Session) Source() string {
	return s.source
}

// EnsureLoaded builds the store on first use. Load failures leave the
// store empty and are reported as diagnostics.
func (s *Session) EnsureLoaded() {
	if s.loaded {
		return
	}
	s.loaded = true

	if s.source == "" {
		s.warn(DiagConfig, "", ErrNoBibliography.Error())
		return
	}

	raws, err := s.load(s.source)
	if err != nil && len(raws) == 0 {
		s.warn(DiagLoad, "", "Failed to read bibliography: "+err.Error(), zap.String("source", s.source))
		return
	}
	for _, e := range multierr.Errors(err) {
		s.warn(DiagLoad, "", "Skipped malformed entry: "+e.Error(), zap.String("source", s.source))
	}

	store, err := BuildStore(raws, s.assigner)
	for _, e := range multierr.Errors(err) {
		var re *RecordError
		key := ""
		if errors.As(e, &re) {
			key = re.Key
		}
		s.warn(DiagRecord, key, "Skipped record: "+e.Error())
	}
	s.store = store
	s.log.Debug("Loaded bibliography",
		zap.String("source", s.source),
		zap.Int("records", store.Len()))
}

// Store returns the bibliography store, loading it if needed.
func (s *Session) Store() *Store {
	s.EnsureLoaded()
	return s.store
}

// Lookup returns the value of field for key and marks key as cited.
// Undefined keys report a diagnostic and return ok=false.
func (s *Session) Lookup(key string, field reference.Field) (string, bool) {
	s.EnsureLoaded()
	rec, ok := s.store.Get(key)
	if !ok {
		s.warn(DiagUndefined, key, `Citation "`+key+`" undefined`)
		return "", false
	}
	s.cited[key] = true
	return rec.Value(field), true
}

// Cite marks key as cited without reading any field. It reports whether
// the key exists.
func (s *Session) Cite(key string) bool {
	_, ok := s.Lookup(key, reference.FieldNone)
	return ok
}

// CiteAll marks every record in the store as cited.
func (s *Session) CiteAll() {
	for _, k := range s.Store().Keys() {
		s.cited[k] = true
	}
}

// Cited returns the cited keys in sorted order.
func (s *Session) Cited() []string {
	keys := make([]string, 0, len(s.cited))
	for k := range s.cited {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CitedRecords returns the cited records ordered by author-year label.
func (s *Session) CitedRecords() []*reference.Record {
	s.EnsureLoaded()
	recs := make([]*reference.Record, 0, len(s.cited))
	for k := range s.cited {
		if rec, ok := s.store.Get(k); ok {
			recs = append(recs, rec)
		}
	}
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].AuthorYear != recs[j].AuthorYear {
			return recs[i].AuthorYear < recs[j].AuthorYear
		}
		return recs[i].Key < recs[j].Key
	})
	return recs
}

// Resolved returns the number of citation occurrences resolved since the
// last Reset.
func (s *Session) Resolved() int {
	return s.resolved
}

// Undefined returns the distinct undefined keys met since the last Reset,
// sorted.
func (s *Session) Undefined() []string {
	seen := make(map[string]bool)
	var keys []string
	for _, d := range s.diags {
		if d.Kind == DiagUndefined && !seen[d.Key] {
			seen[d.Key] = true
			keys = append(keys, d.Key)
		}
	}
	sort.Strings(keys)
	return keys
}

// Diagnostics returns the warnings raised since the last Reset.
func (s *Session) Diagnostics() []Diagnostic {
	return append([]Diagnostic(nil), s.diags...)
}

func (s *Session) warn(kind DiagnosticKind, key, msg string, fields ...zap.Field) {
	s.diags = append(s.diags, Diagnostic{Kind: kind, Key: key, Message: msg})
	fields = append(fields, zap.String("kind", string(kind)))
	if key != "" {
		fields = append(fields, zap.String("key", key))
	}
	s.log.Warn(msg, fields...)
}
