package citation

import (
	"strings"
	"testing"

	"github.com/beevik/etree"

	"github.com/matsen/citemark/internal/reference"
)

func TestResolutionHTML(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{
			"@(k1)",
			`<a data-key="k1" data-prefix="" data-locator="" data-modifier="" class="citation" href="#k1">(Aamport 1986)</a>`,
		},
		{
			"@[see](k1)[p. 4]",
			`<a data-key="k1" data-prefix="see" data-locator="p. 4" data-modifier="" class="citation" href="#k1">(see Aamport 1986, p. 4)</a>`,
		},
		{
			"@-(k1)",
			`<a data-key="k1" data-prefix="" data-locator="" data-modifier="year-only" class="citation" href="#k1">(1986)</a>`,
		},
		{
			"@/(k1)",
			`<a data-key="k1" data-prefix="" data-locator="" data-modifier="nocite" class="citation" href="#k1"></a>`,
		},
		{
			"@[see](nope)[p. 2]",
			`<a data-key="nope" data-prefix="see" data-locator="p. 2" data-modifier="" class="citation" href="#nope">(see <b>??</b>, p. 2)</a>`,
		},
		{
			"@+(nope)",
			`<a data-key="nope" data-prefix="" data-locator="" data-modifier="author-only" class="citation" href="#nope"><b>??</b></a>`,
		},
		{
			"@(a&b)",
			`<a data-key="a&amp;b" data-prefix="" data-locator="" data-modifier="" class="citation" href="#a&amp;b">(<b>??</b>)</a>`,
		},
		{
			"@(k1,knuth84)",
			`<span class="citation-multiple">` +
				`<span class="citation-open-par">(</span>` +
				`<a data-key="k1" data-prefix="" data-locator="" data-modifier="" class="citation" href="#k1">Aamport 1986</a>` +
				`<span class="citation-comma">, </span>` +
				`<a data-key="knuth84" data-prefix="" data-locator="" data-modifier="" class="citation" href="#knuth84">Knuth 1984</a>` +
				`<span class="citation-close-par">)</span>` +
				`</span>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			s, _ := newTestSession(t, fixture())
			m, ok := Parse(tt.in)
			if !ok {
				t.Fatalf("Parse(%q) failed", tt.in)
			}
			if got := s.Resolve(m).HTML(); got != tt.want {
				t.Errorf("HTML() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestReferences(t *testing.T) {
	s, _ := newTestSession(t, fixture())
	for _, in := range []string{"@(knuth84)", "@(k1)", "@(knuth84)"} {
		m, _ := Parse(in)
		s.Resolve(m)
	}

	want := "\n" + `<ul class="citation-references">` + "\n" +
		`<li class="citation-item" id="k1">(Aamport 1986), Aamport, Leslie A., <em>The Gnats and Gnus Document Preparation System</em>, G-Animal's Journal, <strong>41</strong>(7), 73–79.</li>` + "\n" +
		`<li class="citation-item" id="knuth84">(Knuth 1984), Knuth, Donald E., The TeXbook, Addison-Wesley.</li>` + "\n" +
		`</ul>` + "\n"
	if got := s.References(); got != want {
		t.Errorf("References() =\n%s\nwant\n%s", got, want)
	}
}

func TestReferences_Empty(t *testing.T) {
	s, _ := newTestSession(t, fixture())
	want := "\n<ul class=\"citation-references\">\n\n</ul>\n"
	if got := s.References(); got != want {
		t.Errorf("References() = %q, want %q", got, want)
	}
}

func TestFormatRecord(t *testing.T) {
	tests := []struct {
		name string
		rec  *reference.Record
		want string
	}{
		{
			name: "article link",
			rec: &reference.Record{
				Key: "a", Type: reference.Article, AuthorYear: "Doe 2000", Author: "Doe, J.",
				Fields: map[string]string{"title": "T", "link": "http://x.org/a?b&c", "doi": "10.1/x"},
			},
			want: `(Doe 2000), Doe, J., <em>T</em>, <code><a href="http://x.org/a?b&amp;c">http://x.org/a?b&amp;c</a></code>.`,
		},
		{
			name: "book volume and edition",
			rec: &reference.Record{
				Key: "b", Type: reference.Book, AuthorYear: "Doe 2000", Author: "Doe, J.",
				Fields: map[string]string{"title": "T", "volume": "2", "edition": "Third", "series": "S"},
			},
			want: `(Doe 2000), Doe, J., T, Volume 2, Third Edition, <i>S</i>.`,
		},
		{
			name: "inproceedings editor",
			rec: &reference.Record{
				Key: "c", Type: reference.InProceedings, AuthorYear: "Doe 2000", Author: "Doe, J.",
				Fields: map[string]string{"title": "T", "booktitle": "Proc", "editor": "Roe, R."},
			},
			want: `(Doe 2000), Doe, J., T, Proc, Roe, R. (Ed).`,
		},
		{
			name: "phd thesis",
			rec: &reference.Record{
				Key: "d", Type: reference.PhDThesis, AuthorYear: "Doe 2000", Author: "Doe, J.",
				Fields: map[string]string{"title": "T", "school": "MIT"},
			},
			want: `(Doe 2000), Doe, J., T Ph. D., MIT.`,
		},
		{
			name: "unknown type",
			rec: &reference.Record{
				Key: "e", Type: reference.EntryType("website"), AuthorYear: "Doe 2000", Author: "Doe, J.",
				Fields: map[string]string{"title": "T"},
			},
			want: `.`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			li := ReferenceList([]*reference.Record{tt.rec}).SelectElement("li")
			if li == nil {
				t.Fatal("no list item")
			}
			var got string
			for _, tok := range li.Child {
				got += tokenHTML(tok)
			}
			if got != tt.want {
				t.Errorf("FormatRecord() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func tokenHTML(tok etree.Token) string {
	var b strings.Builder
	tok.WriteTo(&b, &htmlSettings)
	return b.String()
}

func TestEntryHTML(t *testing.T) {
	rec := &reference.Record{
		Key: "m", Type: reference.Misc, AuthorYear: "Doe 2000", Author: "Doe, J.",
		Fields: map[string]string{"title": "Fish & Chips", "year": "2000"},
	}
	want := `<li class="citation-item" id="m">(Doe 2000), Doe, J., Fish &amp; Chips, 2000.</li>`
	if got := EntryHTML(rec); got != want {
		t.Errorf("EntryHTML() = %q, want %q", got, want)
	}
}
