// Package bibtex reads and writes BibTeX bibliography files.
package bibtex

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/multierr"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/matsen/citemark/internal/reference"
)

// ErrSyntax is wrapped by every SyntaxError.
var ErrSyntax = errors.New("bibtex syntax error")

// SyntaxError locates a malformed entry.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

// monthMacros are predefined by every BibTeX style.
var monthMacros = map[string]string{
	"jan": "January", "feb": "February", "mar": "March", "apr": "April",
	"may": "May", "jun": "June", "jul": "July", "aug": "August",
	"sep": "September", "oct": "October", "nov": "November", "dec": "December",
}

// ReadFile reads and parses a .bib file. encoding names an IANA charset;
// empty means UTF-8.
func ReadFile(path, encoding string) ([]reference.RawRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bibliography: %w", err)
	}

	if encoding != "" && !strings.EqualFold(encoding, "utf-8") && !strings.EqualFold(encoding, "utf8") {
		enc, err := ianaindex.IANA.Encoding(encoding)
		if err != nil || enc == nil {
			return nil, fmt.Errorf("unknown encoding %q", encoding)
		}
		data, err = enc.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("decoding bibliography as %s: %w", encoding, err)
		}
	}

	return Parse(data)
}

// Parse reads every entry in data, in source order. Text outside entries
// is ignored, including an @ that is not followed by an entry type and
// { or (. @comment and @preamble produce no records. Malformed entries are
// skipped; their SyntaxErrors are combined into the returned error while
// the well-formed entries are still returned.
func Parse(data []byte) ([]reference.RawRecord, error) {
	p := &parser{src: data, macros: make(map[string]string)}
	for k, v := range monthMacros {
		p.macros[k] = v
	}

	var records []reference.RawRecord
	var errs error
	for p.skipToEntry() {
		rec, ok, err := p.entry()
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if ok {
			records = append(records, rec)
		}
	}
	return records, errs
}

type parser struct {
	src    []byte
	pos    int
	macros map[string]string
}

func (p *parser) errorf(format string, args ...interface{}) error {
	line := 1 + bytes.Count(p.src[:min(p.pos, len(p.src))], []byte("\n"))
	return &SyntaxError{Line: line, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) skipSpace() {
	for !p.eof() {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			p.pos++
		default:
			return
		}
	}
}

// skipToEntry moves to the next @ that opens an entry: an entry type
// followed by { or (. Any other @ is text outside entries. A brace-less
// @comment runs to the end of its line.
func (p *parser) skipToEntry() bool {
	for {
		i := bytes.IndexByte(p.src[p.pos:], '@')
		if i < 0 {
			p.pos = len(p.src)
			return false
		}
		start := p.pos + i
		p.pos = start + 1
		p.skipSpace()
		typ := strings.ToLower(p.ident())
		afterType := p.pos
		p.skipSpace()
		if typ != "" && (p.peek() == '{' || p.peek() == '(') {
			p.pos = start
			return true
		}

		if typ == "comment" {
			if j := bytes.IndexByte(p.src[afterType:], '\n'); j >= 0 {
				p.pos = afterType + j
			} else {
				p.pos = len(p.src)
			}
			continue
		}
		p.pos = start + 1
	}
}

func (p *parser) expect(c byte) error {
	p.skipSpace()
	if p.peek() != c {
		if p.eof() {
			return p.errorf("expected %q, found end of file", c)
		}
		return p.errorf("expected %q, found %q", c, p.peek())
	}
	p.pos++
	return nil
}

func isIdentChar(c byte) bool {
	return c > ' ' && c != 0x7f && !strings.ContainsRune("\"#%'(),={}@", rune(c))
}

func (p *parser) ident() string {
	start := p.pos
	for !p.eof() && isIdentChar(p.src[p.pos]) {
		p.pos++
	}
	return string(p.src[start:p.pos])
}

// entry parses one @-construct located by skipToEntry. ok is false for
// constructs that produce no record (@comment, @preamble, @string).
func (p *parser) entry() (rec reference.RawRecord, ok bool, err error) {
	p.pos++ // '@'
	p.skipSpace()
	typ := strings.ToLower(p.ident())
	p.skipSpace()
	closer := byte('}')
	if p.peek() == '(' {
		closer = ')'
	}
	p.pos++

	switch typ {
	case "comment", "preamble":
		return rec, false, p.skipGroup(closer)
	case "string":
		p.skipSpace()
		name := strings.ToLower(p.ident())
		if name == "" {
			return rec, false, p.errorf("missing @string name")
		}
		if err := p.expect('='); err != nil {
			return rec, false, err
		}
		v, err := p.value()
		if err != nil {
			return rec, false, err
		}
		if err := p.expect(closer); err != nil {
			return rec, false, err
		}
		p.macros[name] = v
		return rec, false, nil
	}

	p.skipSpace()
	key := p.key(closer)
	if key == "" {
		return rec, false, p.errorf("missing citation key in @%s", typ)
	}
	rec = reference.RawRecord{
		Key:    key,
		Type:   reference.ParseEntryType(typ),
		Fields: make(map[string]string),
	}

	p.skipSpace()
	if p.peek() == closer {
		p.pos++
		return rec, true, nil
	}
	if err := p.expect(','); err != nil {
		return rec, false, err
	}

	for {
		p.skipSpace()
		if p.peek() == closer {
			p.pos++
			return rec, true, nil
		}
		name := strings.ToLower(p.ident())
		if name == "" {
			return rec, false, p.errorf("expected field name in %s", key)
		}
		if err := p.expect('='); err != nil {
			return rec, false, err
		}
		v, err := p.value()
		if err != nil {
			return rec, false, err
		}
		rec.Fields[name] = v

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case closer:
			p.pos++
			return rec, true, nil
		default:
			if p.eof() {
				return rec, false, p.errorf("unterminated entry %s", key)
			}
			return rec, false, p.errorf("expected , or %q after field %s in %s", closer, name, key)
		}
	}
}

func (p *parser) key(closer byte) string {
	start := p.pos
	for !p.eof() {
		c := p.src[p.pos]
		if c == ',' || c == closer || c == '}' || c <= ' ' {
			break
		}
		p.pos++
	}
	return string(p.src[start:p.pos])
}

// value parses a field value: braced or quoted strings, numbers and macro
// names joined by #. Whitespace runs collapse to one space.
func (p *parser) value() (string, error) {
	var b strings.Builder
	for {
		p.skipSpace()
		switch c := p.peek(); {
		case c == '{':
			s, err := p.delimited('{', '}')
			if err != nil {
				return "", err
			}
			b.WriteString(s)
		case c == '"':
			s, err := p.delimited('"', '"')
			if err != nil {
				return "", err
			}
			b.WriteString(s)
		case isIdentChar(c):
			word := p.ident()
			if v, ok := p.macros[strings.ToLower(word)]; ok {
				b.WriteString(v)
			} else {
				b.WriteString(word)
			}
		default:
			if p.eof() {
				return "", p.errorf("unexpected end of file in value")
			}
			return "", p.errorf("unexpected %q in value", c)
		}

		p.skipSpace()
		if p.peek() != '#' {
			break
		}
		p.pos++
	}
	return strings.Join(strings.Fields(b.String()), " "), nil
}

// delimited reads from an opening delimiter to its match, keeping inner
// braces. A quote only closes at brace depth zero.
func (p *parser) delimited(open, close byte) (string, error) {
	p.pos++
	start := p.pos
	depth := 0
	for !p.eof() {
		c := p.src[p.pos]
		switch {
		case c == '\\':
			p.pos++
		case c == close && depth == 0:
			s := string(p.src[start:p.pos])
			p.pos++
			return s, nil
		case c == '{':
			depth++
		case c == '}':
			depth--
		}
		p.pos++
	}
	p.pos = start
	return "", p.errorf("unterminated %c-delimited value", open)
}

func (p *parser) skipGroup(closer byte) error {
	opener := byte('{')
	if closer == ')' {
		opener = '('
	}
	start := p.pos
	depth := 1
	for !p.eof() {
		switch p.src[p.pos] {
		case opener:
			depth++
		case closer:
			depth--
			if depth == 0 {
				p.pos++
				return nil
			}
		}
		p.pos++
	}
	p.pos = start
	return p.errorf("unterminated group")
}
