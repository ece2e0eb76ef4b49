// Package latex converts the LaTeX markup found in BibTeX field values to
// plain Unicode text.
package latex

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// accents maps accent commands to combining characters.
var accents = map[string]rune{
	"'":  '\u0301',
	"`":  '\u0300',
	"^":  '\u0302',
	"\"": '\u0308',
	"~":  '\u0303',
	"=":  '\u0304',
	".":  '\u0307',
	"u":  '\u0306',
	"v":  '\u030c',
	"H":  '\u030b',
	"c":  '\u0327',
	"d":  '\u0323',
	"b":  '\u0331',
	"r":  '\u030a',
	"k":  '\u0328',
	"t":  '\u0361',
}

// symbols maps argument-less control words to their text.
var symbols = map[string]string{
	"ss": "ß", "o": "ø", "O": "Ø", "aa": "å", "AA": "Å",
	"ae": "æ", "AE": "Æ", "oe": "œ", "OE": "Œ", "l": "ł", "L": "Ł",
	"i": "ı", "j": "ȷ", "dh": "ð", "DH": "Ð", "th": "þ", "TH": "Þ",
	"textendash": "–", "textemdash": "—", "textquoteright": "’",
	"textquoteleft": "‘", "ldots": "…", "dots": "…", "S": "§", "P": "¶",
	"copyright": "©", "pounds": "£", "TeX": "TeX", "LaTeX": "LaTeX", "BibTeX": "BibTeX",
}

// ToUnicode replaces accent commands, special letters, escaped specials,
// "--", "---" and "~" with Unicode, drops grouping braces and unknown
// control words (keeping their arguments), and returns NFC text.
func ToUnicode(s string) string {
	if !strings.ContainsAny(s, "\\{}~-") {
		return s
	}

	var b strings.Builder
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == '\\':
			i += command(s[i:], &b)
		case c == '{' || c == '}':
			i++
		case c == '~':
			b.WriteRune('\u00a0')
			i++
		case strings.HasPrefix(s[i:], "---"):
			b.WriteRune('—')
			i += 3
		case strings.HasPrefix(s[i:], "--"):
			b.WriteRune('–')
			i += 2
		default:
			b.WriteByte(c)
			i++
		}
	}
	return norm.NFC.String(b.String())
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// command converts the control sequence at the start of s and returns the
// number of bytes consumed.
func command(s string, b *strings.Builder) int {
	if len(s) < 2 {
		b.WriteByte('\\')
		return len(s)
	}

	next := s[1]
	if !isLetter(next) {
		if mark, ok := accents[string(next)]; ok {
			n, base := argument(s[2:])
			writeAccented(b, base, mark)
			return 2 + n
		}
		if next == '\\' {
			b.WriteByte(' ')
		} else {
			b.WriteByte(next)
		}
		return 2
	}

	end := 1
	for end < len(s) && isLetter(s[end]) {
		end++
	}
	name := s[1:end]

	if mark, ok := accents[name]; ok && len(name) == 1 {
		n, base := argument(s[end:])
		writeAccented(b, base, mark)
		return end + n
	}

	// spaces after a control word are not output
	for end < len(s) && s[end] == ' ' {
		end++
	}
	if sym, ok := symbols[name]; ok {
		b.WriteString(sym)
	}
	return end
}

// argument reads an accent argument: a braced group, \i or \j, or a single
// character. Leading spaces are skipped.
func argument(s string) (int, string) {
	n := 0
	for n < len(s) && s[n] == ' ' {
		n++
	}
	s = s[n:]
	if s == "" {
		return n, ""
	}

	if s[0] == '{' {
		end := strings.IndexByte(s, '}')
		if end < 0 {
			return n + len(s), dotless(s[1:])
		}
		return n + end + 1, dotless(s[1:end])
	}
	if strings.HasPrefix(s, `\i`) || strings.HasPrefix(s, `\j`) {
		if len(s) == 2 || !isLetter(s[2]) {
			m := 2
			for m < len(s) && s[m] == ' ' {
				m++
			}
			return n + m, s[1:2]
		}
	}
	_, size := utf8.DecodeRuneInString(s)
	return n + size, s[:size]
}

// dotless maps \i and \j inside an accent group to plain letters, which
// compose with the accent.
func dotless(s string) string {
	switch strings.TrimSpace(s) {
	case `\i`:
		return "i"
	case `\j`:
		return "j"
	}
	return s
}

func writeAccented(b *strings.Builder, base string, mark rune) {
	if base == "" {
		b.WriteRune(mark)
		return
	}
	for i, r := range base {
		if i == 0 {
			b.WriteRune(r)
			b.WriteRune(mark)
			continue
		}
		b.WriteString(base[i:])
		break
	}
}
