package citation

import (
	"github.com/beevik/etree"

	"github.com/matsen/citemark/internal/reference"
)

// DefaultPlaceholder marks where the reference list goes in a document.
const DefaultPlaceholder = "[REFERENCES]"

// ReferenceList builds the list of cited records, sorted by author-year
// label, one item per record with the record key as its id.
func ReferenceList(recs []*reference.Record) *etree.Element {
	ul := etree.NewElement("ul")
	ul.CreateAttr("class", ClassReference)
	ul.CreateText("\n")
	for i, rec := range recs {
		if i > 0 {
			ul.CreateText("\n")
		}
		ul.AddChild(newItem(rec))
	}
	ul.CreateText("\n")
	return ul
}

// References renders the reference list for everything cited so far.
func (s *Session) References() string {
	return "\n" + WriteHTML(ReferenceList(s.CitedRecords())) + "\n"
}

// EntryHTML renders a single list item for rec.
func EntryHTML(rec *reference.Record) string {
	return WriteHTML(newItem(rec))
}

func newItem(rec *reference.Record) *etree.Element {
	li := etree.NewElement("li")
	li.CreateAttr("class", ClassItem)
	li.CreateAttr("id", rec.Key)
	FormatRecord(li, rec)
	return li
}
