package citation

import (
	"github.com/beevik/etree"

	"github.com/matsen/citemark/internal/reference"
)

// Fragment renders one field of a reference list entry. The value is
// wrapped in Tags (outermost first) and framed by Before and After. With
// Href the value also becomes the target of a link around it.
type Fragment struct {
	Field  reference.Field
	Before string
	Tags   []string
	After  string
	Href   bool
}

// Template is the ordered fragment list for one entry type.
type Template []Fragment

func plain(f reference.Field) Fragment {
	return Fragment{Field: f, Before: ", "}
}

func tagged(f reference.Field, tags ...string) Fragment {
	return Fragment{Field: f, Before: ", ", Tags: tags}
}

var (
	labelFragment   = Fragment{Field: reference.FieldAuthorYear, Before: "(", After: ")"}
	authorFragment  = plain(reference.FieldAuthor)
	editionFragment = Fragment{Field: reference.FieldEdition, Before: ", ", After: " Edition"}
	editorFragment  = Fragment{Field: reference.FieldEditor, Before: ", ", After: " (Ed.)"}
	doiFragment     = plain(reference.FieldDOI)
	urlFragment     = plain(reference.FieldURL)
)

// Templates maps each known entry type to its layout. Types missing from
// the map render an empty body.
var Templates = map[reference.EntryType]Template{
	reference.Article: {
		labelFragment, authorFragment,
		tagged(reference.FieldTitle, "em"),
		plain(reference.FieldJournal),
		tagged(reference.FieldVolume, "strong"),
		{Field: reference.FieldNumber, Before: "(", After: ")"},
		plain(reference.FieldPages),
		{Field: reference.FieldLink, Before: ", ", Tags: []string{"code"}, Href: true},
	},
	reference.Book: {
		labelFragment, authorFragment,
		plain(reference.FieldTitle),
		{Field: reference.FieldVolume, Before: ", Volume "},
		editionFragment,
		tagged(reference.FieldSeries, "i"),
		plain(reference.FieldPages),
		doiFragment, urlFragment,
		plain(reference.FieldPublisher),
	},
	reference.Booklet: {
		labelFragment, authorFragment,
		plain(reference.FieldTitle),
		plain(reference.FieldHowPublished),
		plain(reference.FieldAddress),
		plain(reference.FieldPages),
		doiFragment, urlFragment,
	},
	reference.Conference: {
		labelFragment, authorFragment,
		plain(reference.FieldTitle),
		tagged(reference.FieldBooktitle, "i"),
		editorFragment,
		plain(reference.FieldOrganization),
		plain(reference.FieldPublisher),
		plain(reference.FieldAddress),
		plain(reference.FieldPages),
		doiFragment, urlFragment,
	},
	reference.InBook: {
		labelFragment, authorFragment,
		plain(reference.FieldTitle),
		plain(reference.FieldChapter),
		editorFragment,
		plain(reference.FieldPublisher),
		plain(reference.FieldAddress),
		plain(reference.FieldPages),
		plain(reference.FieldSeries),
		tagged(reference.FieldVolume, "b"),
		editionFragment,
		doiFragment, urlFragment,
	},
	reference.InCollection: {
		labelFragment, authorFragment,
		plain(reference.FieldBooktitle),
		plain(reference.FieldTitle),
		editorFragment,
		plain(reference.FieldSeries),
		tagged(reference.FieldVolume, "b"),
		plain(reference.FieldNumber),
		editionFragment,
		plain(reference.FieldOrganization),
		plain(reference.FieldPublisher),
		plain(reference.FieldAddress),
		plain(reference.FieldPages),
		doiFragment, urlFragment,
	},
	reference.Misc: {
		labelFragment, authorFragment,
		plain(reference.FieldTitle),
		plain(reference.FieldHowPublished),
		doiFragment, urlFragment,
		plain(reference.FieldYear),
	},
	reference.InProceedings: {
		labelFragment, authorFragment,
		plain(reference.FieldTitle),
		plain(reference.FieldBooktitle),
		{Field: reference.FieldEditor, Before: ", ", After: " (Ed)"},
		plain(reference.FieldPages),
		plain(reference.FieldOrganization),
		plain(reference.FieldPublisher),
		plain(reference.FieldAddress),
		doiFragment, urlFragment,
	},
	reference.Manual: {
		labelFragment, authorFragment,
		plain(reference.FieldTitle),
		plain(reference.FieldOrganization),
		plain(reference.FieldAddress),
		editionFragment,
		doiFragment, urlFragment,
	},
	reference.PhDThesis: {
		labelFragment, authorFragment,
		{Field: reference.FieldTitle, Before: ", ", After: " Ph. D."},
		plain(reference.FieldSchool),
		plain(reference.FieldAddress),
		doiFragment, urlFragment,
	},
	reference.MasterThesis: {
		labelFragment, authorFragment,
		{Field: reference.FieldTitle, Before: ", ", After: " Ms. D."},
		plain(reference.FieldSchool),
		plain(reference.FieldAddress),
		doiFragment, urlFragment,
	},
	reference.TechReport: {
		labelFragment, authorFragment,
		plain(reference.FieldTitle),
		plain(reference.FieldNumber),
		plain(reference.FieldInstitution),
		plain(reference.FieldAddress),
		doiFragment, urlFragment,
	},
}

// appendTo writes the fragment for value into parent.
func (f Fragment) appendTo(parent *etree.Element, value string) {
	if f.Before != "" {
		parent.CreateText(f.Before)
	}
	inner := parent
	for _, tag := range f.Tags {
		inner = inner.CreateElement(tag)
	}
	if f.Href {
		inner = inner.CreateElement("a")
		inner.CreateAttr("href", value)
	}
	inner.CreateText(value)
	if f.After != "" {
		parent.CreateText(f.After)
	}
}

// FormatRecord renders the body of one reference list entry into parent:
// every fragment whose field is non-empty, in template order, then a
// closing period.
func FormatRecord(parent *etree.Element, rec *reference.Record) {
	for _, f := range Templates[rec.Type] {
		if v := rec.Value(f.Field); v != "" {
			f.appendTo(parent, v)
		}
	}
	parent.CreateText(".")
}
