package citation

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/matsen/citemark/internal/reference"
)

func fixture() []reference.RawRecord {
	return []reference.RawRecord{
		raw("k1", reference.Article, "author", "Aamport, Leslie A.", "year", "1986",
			"title", "The Gnats and Gnus Document Preparation System",
			"journal", "G-Animal's Journal", "volume", "41", "number", "7", "pages", "73-79"),
		raw("knuth84", reference.Book, "author", "Donald E. Knuth", "year", "1984",
			"title", "The TeXbook", "publisher", "Addison-Wesley"),
		raw("knuth84b", reference.Book, "author", "Knuth, Donald E.", "year", "1984",
			"title", "Literate Programming", "publisher", "CSLI"),
	}
}

func newTestSession(t *testing.T, raws []reference.RawRecord) (*Session, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	s := NewSession(
		WithLogger(zap.New(core)),
		WithLoader(func(string) ([]reference.RawRecord, error) { return raws, nil }),
	)
	s.Configure("fixture.bib")
	return s, logs
}

func warnings(logs *observer.ObservedLogs) int {
	return logs.FilterLevelExact(zap.WarnLevel).Len()
}

func TestResolve_Modifiers(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"@(k1)", "(Aamport 1986)"},
		{"@-(k1)", "(1986)"},
		{"@+(k1)", "Aamport"},
		{"@.(k1)", "Aamport 1986"},
		{"@/(k1)", ""},
		{"@[see](k1)[p. 4]", "(see Aamport 1986, p. 4)"},
		{"@.[e.g.](k1)[ch. 2]", "e.g. Aamport 1986, ch. 2"},
		{"@(knuth84b)", "(Knuth 1984a)"},
		{"@(k1,knuth84)", "(Aamport 1986, Knuth 1984)"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			s, logs := newTestSession(t, fixture())
			m, ok := Parse(tt.in)
			if !ok {
				t.Fatalf("Parse(%q) failed", tt.in)
			}
			if got := s.Resolve(m).Text(); got != tt.want {
				t.Errorf("Resolve(%q).Text() = %q, want %q", tt.in, got, tt.want)
			}
			if n := warnings(logs); n != 0 {
				t.Errorf("got %d warnings, want 0", n)
			}
		})
	}
}

func TestResolve_Idempotent(t *testing.T) {
	s, _ := newTestSession(t, fixture())
	m, _ := Parse("@(k1)")
	first := s.Resolve(m).Text()
	second := s.Resolve(m).Text()
	if first != second {
		t.Errorf("second resolution = %q, first = %q", second, first)
	}
	if got, want := s.Cited(), []string{"k1"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Cited() = %v, want %v", got, want)
	}
}

func TestResolve_Undefined(t *testing.T) {
	for _, in := range []string{"@(nope)", "@-(nope)", "@+(nope)", "@.(nope)", "@/(nope)"} {
		t.Run(in, func(t *testing.T) {
			s, logs := newTestSession(t, fixture())
			m, _ := Parse(in)
			res := s.Resolve(m)
			if !res.Citations[0].Undefined {
				t.Error("Undefined = false, want true")
			}
			if got := res.Citations[0].Text(); !strings.Contains(got, FailureMarker) {
				t.Errorf("Text() = %q, want failure marker", got)
			}
			if len(s.Cited()) != 0 {
				t.Errorf("Cited() = %v, want empty", s.Cited())
			}
			if n := logs.FilterField(zap.String("kind", string(DiagUndefined))).Len(); n != 1 {
				t.Errorf("undefined warnings = %d, want 1", n)
			}
		})
	}
}

func TestResolve_ForbiddenLocator(t *testing.T) {
	s, logs := newTestSession(t, fixture())

	plain, _ := Parse("@+(k1)")
	withLocator, _ := Parse("@+(k1)[p. 7]")

	want := s.Resolve(plain)
	got := s.Resolve(withLocator)
	if got.HTML() != want.HTML() {
		t.Errorf("with locator = %q, want %q", got.HTML(), want.HTML())
	}
	if n := warnings(logs); n != 1 {
		t.Errorf("warnings = %d, want 1", n)
	}
	d := s.Diagnostics()
	if len(d) != 1 || d[0].Kind != DiagExtras || d[0].Key != "k1" {
		t.Errorf("Diagnostics() = %+v", d)
	}
}

func TestResolve_Compound(t *testing.T) {
	s, logs := newTestSession(t, fixture())
	m, _ := Parse("@(k1, knuth84, missing)")
	res := s.Resolve(m)
	if !res.Compound || len(res.Citations) != 3 {
		t.Fatalf("Resolve() = %+v", res)
	}
	if got, want := s.Cited(), []string{"k1", "knuth84"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Cited() = %v, want %v", got, want)
	}
	if got, want := s.Undefined(), []string{"missing"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Undefined() = %v, want %v", got, want)
	}
	if n := warnings(logs); n != 1 {
		t.Errorf("warnings = %d, want 1 (undefined key)", n)
	}
}

func TestResolve_NociteAll(t *testing.T) {
	s, _ := newTestSession(t, fixture())
	m, _ := Parse("@/(*)")
	if got := s.Resolve(m).Text(); got != "" {
		t.Errorf("Text() = %q, want empty", got)
	}
	if got, want := s.Cited(), []string{"k1", "knuth84", "knuth84b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Cited() = %v, want %v", got, want)
	}

	var labels []string
	for _, rec := range s.CitedRecords() {
		labels = append(labels, rec.AuthorYear)
	}
	if want := []string{"Aamport 1986", "Knuth 1984", "Knuth 1984a"}; !reflect.DeepEqual(labels, want) {
		t.Errorf("CitedRecords() labels = %v, want %v", labels, want)
	}
}

func TestSession_NoBibliography(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	s := NewSession(WithLogger(zap.New(core)))
	m, _ := Parse("@(k1)")

	res := s.Resolve(m)
	if !res.Citations[0].Undefined {
		t.Error("citation resolved without a bibliography")
	}
	if n := logs.FilterMessage(ErrNoBibliography.Error()).Len(); n != 1 {
		t.Errorf("config warnings = %d, want 1", n)
	}

	// Loading is attempted once per document.
	s.Resolve(m)
	if n := logs.FilterMessage(ErrNoBibliography.Error()).Len(); n != 1 {
		t.Errorf("config warnings after second citation = %d, want 1", n)
	}
}

func TestSession_LoadFailure(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	s := NewSession(
		WithLogger(zap.New(core)),
		WithLoader(func(string) ([]reference.RawRecord, error) { return nil, errors.New("boom") }),
	)
	s.Configure("broken.bib")
	s.EnsureLoaded()

	if s.Store().Len() != 0 {
		t.Errorf("store has %d records, want 0", s.Store().Len())
	}
	d := s.Diagnostics()
	if len(d) != 1 || d[0].Kind != DiagLoad {
		t.Errorf("Diagnostics() = %+v, want one load diagnostic", d)
	}
	if logs.Len() != 1 {
		t.Errorf("logged %d entries, want 1", logs.Len())
	}
}

func TestSession_RecordErrors(t *testing.T) {
	raws := append(fixture(), raw("noyear", reference.Misc, "author", "Doe, J."))
	s, _ := newTestSession(t, raws)
	s.EnsureLoaded()

	d := s.Diagnostics()
	if len(d) != 1 || d[0].Kind != DiagRecord || d[0].Key != "noyear" {
		t.Errorf("Diagnostics() = %+v, want one record diagnostic for noyear", d)
	}
	if s.Store().Len() != 3 {
		t.Errorf("store has %d records, want 3", s.Store().Len())
	}
}

func TestSession_Reset(t *testing.T) {
	s, _ := newTestSession(t, fixture())
	m, _ := Parse("@(knuth84b)")
	if got := s.Resolve(m).Text(); got != "(Knuth 1984a)" {
		t.Fatalf("Text() = %q", got)
	}

	if s.Resolved() != 1 {
		t.Errorf("Resolved() = %d, want 1", s.Resolved())
	}

	s.Reset()
	if len(s.Cited()) != 0 || len(s.Diagnostics()) != 0 || s.Resolved() != 0 {
		t.Errorf("Reset left state: cited=%v diags=%v", s.Cited(), s.Diagnostics())
	}
	if s.Source() != "fixture.bib" {
		t.Errorf("Source() = %q after Reset, want fixture.bib", s.Source())
	}
	// Labels are reassigned from scratch, so the same label comes back.
	if got := s.Resolve(m).Text(); got != "(Knuth 1984a)" {
		t.Errorf("Text() after Reset = %q, want %q", got, "(Knuth 1984a)")
	}
}

func TestSession_ConfigureAfterLoad(t *testing.T) {
	s, _ := newTestSession(t, fixture())
	s.EnsureLoaded()
	s.Configure("other.bib")
	if s.Source() != "fixture.bib" {
		t.Errorf("Source() = %q, want fixture.bib", s.Source())
	}
}

func TestSession_DefaultLoaderReadsBibTeX(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "refs.bib")
	bib := `% maintained by me@example.org
@comment generated, do not edit
@article{k1,
  author = {Aamport, Leslie A.},
  title = {The Gnats and Gnus Document Preparation System},
  year = 1986,
}`
	if err := os.WriteFile(path, []byte(bib), 0644); err != nil {
		t.Fatal(err)
	}

	s := NewSession()
	s.Configure(path)
	m, _ := Parse("@(k1)")
	if got := s.Resolve(m).Text(); got != "(Aamport 1986)" {
		t.Errorf("Text() = %q, want %q", got, "(Aamport 1986)")
	}
	// Text outside entries is not a load problem.
	if d := s.Diagnostics(); len(d) != 0 {
		t.Errorf("Diagnostics() = %+v, want none", d)
	}
}
