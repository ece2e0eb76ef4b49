package citation

import (
	"strings"

	"github.com/beevik/etree"
)

// Class names used in the generated markup.
const (
	ClassCitation  = "citation"
	ClassMultiple  = "citation-multiple"
	ClassOpenPar   = "citation-open-par"
	ClassComma     = "citation-comma"
	ClassClosePar  = "citation-close-par"
	ClassReference = "citation-references"
	ClassItem      = "citation-item"
)

var htmlSettings = etree.WriteSettings{
	CanonicalEndTags: true,
	CanonicalText:    true,
	CanonicalAttrVal: true,
}

// WriteHTML serializes e as HTML. Empty elements get explicit end tags.
func WriteHTML(e *etree.Element) string {
	var b strings.Builder
	e.WriteTo(&b, &htmlSettings)
	return b.String()
}

// Element builds the link node for a single citation.
func (c Citation) Element() *etree.Element {
	a := etree.NewElement("a")
	a.CreateAttr("data-key", c.Key)
	a.CreateAttr("data-prefix", c.Prefix)
	a.CreateAttr("data-locator", c.Locator)
	a.CreateAttr("data-modifier", c.Modifier.String())
	a.CreateAttr("class", ClassCitation)
	a.CreateAttr("href", "#"+c.Key)

	if !c.Undefined {
		if !c.Hidden {
			a.SetText(c.Before() + c.Body + c.After())
		}
		return a
	}

	if before := c.Before(); before != "" {
		a.CreateText(before)
	}
	a.CreateElement("b").SetText(FailureMarker)
	if after := c.After(); after != "" {
		a.CreateText(after)
	}
	return a
}

// Element builds the markup for the whole resolution: a single link, or a
// grouping span for compound citations.
func (r Resolution) Element() *etree.Element {
	if !r.Compound {
		if len(r.Citations) == 0 {
			return etree.NewElement("span")
		}
		return r.Citations[0].Element()
	}

	span := etree.NewElement("span")
	span.CreateAttr("class", ClassMultiple)
	marker(span, ClassOpenPar, "(")
	for i, c := range r.Citations {
		if i > 0 {
			marker(span, ClassComma, ", ")
		}
		span.AddChild(c.Element())
	}
	marker(span, ClassClosePar, ")")
	return span
}

// HTML serializes the resolution.
func (r Resolution) HTML() string {
	return WriteHTML(r.Element())
}

func marker(parent *etree.Element, class, text string) {
	m := parent.CreateElement("span")
	m.CreateAttr("class", class)
	m.SetText(text)
}
