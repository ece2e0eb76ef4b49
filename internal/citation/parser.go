package citation

import (
	"regexp"
	"strings"
)

// Sigil opens every citation.
const Sigil = "@"

// Modifier selects how a citation is displayed.
type Modifier int

const (
	ModDefault    Modifier = iota // (Author Year)
	ModYearOnly                   // @-(key): (Year)
	ModAuthorOnly                 // @+(key): Author
	ModNoParen                    // @.(key): Author Year
	ModNocite                     // @/(key): listed, not shown
)

var modifierChars = map[string]Modifier{
	"":  ModDefault,
	"-": ModYearOnly,
	"+": ModAuthorOnly,
	".": ModNoParen,
	"/": ModNocite,
}

// String returns the name carried in the data-modifier attribute.
func (m Modifier) String() string {
	switch m {
	case ModYearOnly:
		return "year-only"
	case ModAuthorOnly:
		return "author-only"
	case ModNoParen:
		return "no-paren"
	case ModNocite:
		return "nocite"
	}
	return ""
}

// WildcardKey used with nocite marks every record as cited.
const WildcardKey = "*"

const keyClass = `[\p{L}\p{N}_:*;.+=/&%$·!\-]`

const (
	singlePattern = `@(?P<mod>[-/+.]?)` +
		`(?:\[\s*(?P<prefix>.*?)\s*\])?` +
		`\(\s*(?P<key>` + keyClass + `+?)\s*\)` +
		`(?:\[\s*(?P<locator>.*?)\s*\])?`
	compoundPattern = `@\((?P<multiple>\s*` + keyClass + `+?(?:\s*,\s*` + keyClass + `+?)+\s*)\)`
)

var citationRe = regexp.MustCompile(`^(?:` + singlePattern + `|` + compoundPattern + `)`)

// Match is one citation found at the start of a text.
type Match struct {
	Modifier Modifier
	Keys     []string
	Prefix   string
	Locator  string
	Compound bool

	End int // byte length of Raw
	Raw string
}

// Parse matches a citation at the very start of s.
func Parse(s string) (Match, bool) {
	loc := citationRe.FindStringSubmatchIndex(s)
	if loc == nil {
		return Match{}, false
	}
	return newMatch(s, loc), true
}

func newMatch(s string, loc []int) Match {
	group := func(name string) (string, bool) {
		i := citationRe.SubexpIndex(name)
		if loc[2*i] < 0 {
			return "", false
		}
		return s[loc[2*i]:loc[2*i+1]], true
	}

	m := Match{End: loc[1], Raw: s[:loc[1]]}

	if multiple, ok := group("multiple"); ok {
		m.Compound = true
		for _, k := range strings.Split(multiple, ",") {
			m.Keys = append(m.Keys, strings.TrimSpace(k))
		}
		return m
	}

	mod, _ := group("mod")
	m.Modifier = modifierChars[mod]
	key, _ := group("key")
	m.Keys = []string{strings.TrimSpace(key)}
	m.Prefix, _ = group("prefix")
	m.Prefix = strings.TrimSpace(m.Prefix)
	m.Locator, _ = group("locator")
	m.Locator = strings.TrimSpace(m.Locator)
	return m
}
