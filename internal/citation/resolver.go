package citation

import (
	"strings"

	"github.com/matsen/citemark/internal/reference"
)

// FailureMarker is shown in place of an undefined citation.
const FailureMarker = "??"

// rule fixes how one modifier displays a citation.
type rule struct {
	field  reference.Field
	extras bool // prefix and locator allowed
	paren  bool
}

var rules = map[Modifier]rule{
	ModDefault:    {field: reference.FieldAuthorYear, extras: true, paren: true},
	ModYearOnly:   {field: reference.FieldYear, paren: true},
	ModAuthorOnly: {field: reference.FieldSurnames},
	ModNoParen:    {field: reference.FieldAuthorYear, extras: true},
	ModNocite:     {field: reference.FieldNone},
}

// Citation is one resolved key, ready for rendering.
type Citation struct {
	Key       string
	Prefix    string
	Locator   string
	Modifier  Modifier
	Paren     bool
	Body      string // looked-up field text
	Undefined bool
	Hidden    bool // nocite: nothing visible
}

// Before returns the text placed ahead of the body.
func (c Citation) Before() string {
	if c.Hidden {
		return ""
	}
	var b strings.Builder
	if c.Paren {
		b.WriteString("(")
	}
	if c.Prefix != "" {
		b.WriteString(c.Prefix)
		b.WriteString(" ")
	}
	return b.String()
}

// After returns the text placed behind the body.
func (c Citation) After() string {
	if c.Hidden {
		return ""
	}
	var b strings.Builder
	if c.Locator != "" {
		b.WriteString(", ")
		b.WriteString(c.Locator)
	}
	if c.Paren {
		b.WriteString(")")
	}
	return b.String()
}

// Text returns the visible text as plain text.
func (c Citation) Text() string {
	body := c.Body
	if c.Undefined {
		body = FailureMarker
	}
	if c.Hidden && !c.Undefined {
		return ""
	}
	return c.Before() + body + c.After()
}

// Resolution is the outcome of resolving one Match.
type Resolution struct {
	Compound  bool
	Citations []Citation
}

// Text returns the visible text of the whole resolution.
func (r Resolution) Text() string {
	if !r.Compound {
		if len(r.Citations) == 0 {
			return ""
		}
		return r.Citations[0].Text()
	}
	parts := make([]string, len(r.Citations))
	for i, c := range r.Citations {
		parts[i] = c.Text()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Resolve looks up every key of m and updates the cited set.
func (s *Session) Resolve(m Match) Resolution {
	s.EnsureLoaded()
	s.resolved++

	if m.Compound {
		if m.Modifier != ModDefault || m.Prefix != "" || m.Locator != "" {
			s.warn(DiagExtras, "", "Modifiers, prefixes and locators are ignored in compound citations")
		}
		res := Resolution{Compound: true}
		for _, key := range m.Keys {
			c := Citation{Key: key, Modifier: ModDefault}
			c.Body, c.Undefined = s.lookupBody(key, reference.FieldAuthorYear)
			res.Citations = append(res.Citations, c)
		}
		return res
	}

	key := ""
	if len(m.Keys) > 0 {
		key = m.Keys[0]
	}
	r := rules[m.Modifier]
	c := Citation{Key: key, Modifier: m.Modifier, Paren: r.paren, Prefix: m.Prefix, Locator: m.Locator}
	if !r.extras && (c.Prefix != "" || c.Locator != "") {
		s.warn(DiagExtras, key, "You can't use prefix or locators in "+m.Raw)
		c.Prefix, c.Locator = "", ""
	}

	if m.Modifier == ModNocite {
		c.Hidden = true
		if key == WildcardKey {
			s.CiteAll()
		} else {
			c.Undefined = !s.Cite(key)
		}
		return Resolution{Citations: []Citation{c}}
	}

	c.Body, c.Undefined = s.lookupBody(key, r.field)
	return Resolution{Citations: []Citation{c}}
}

func (s *Session) lookupBody(key string, field reference.Field) (string, bool) {
	v, ok := s.Lookup(key, field)
	return strings.TrimSpace(v), !ok
}
