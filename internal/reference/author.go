package reference

import "strings"

// AuthorSeparator splits a BibTeX name list into persons.
const AuthorSeparator = " and "

// Anonymous stands in when a record has neither author nor editor.
const Anonymous = "Anon."

// Author is one person parsed from a BibTeX name list.
type Author struct {
	First string // given name(s), possibly empty
	Last  string // surname including particles and suffix-folded parts
}

// Display formats the author as "Last, First", or just "Last".
func (a Author) Display() string {
	if a.First == "" {
		return a.Last
	}
	return a.Last + ", " + a.First
}

// particles fold into the surname when they precede it.
var particles = map[string]bool{
	"ben": true, "van": true, "von": true, "der": true, "den": true,
	"de": true, "la": true, "le": true, "du": true, "da": true,
}

var juniors = map[string]bool{"jr": true, "jr.": true, "jnr": true, "junior": true}

// ParseName parses "Last, First" or "First [particles] Last".
func ParseName(s string) Author {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return Author{}
	}

	var last string
	var firsts []string
	if before, after, ok := strings.Cut(s, ","); ok {
		last = strings.TrimSpace(before)
		firsts = strings.Fields(after)
	} else {
		parts := strings.Fields(s)
		last = parts[len(parts)-1]
		for _, p := range parts[:len(parts)-1] {
			// "D.E." -> "D. E."
			firsts = append(firsts, strings.Fields(strings.ReplaceAll(p, ".", ". "))...)
		}
		if juniors[strings.ToLower(last)] && len(firsts) > 0 {
			last = firsts[len(firsts)-1]
			firsts = firsts[:len(firsts)-1]
		}
		for len(firsts) > 0 && particles[firsts[len(firsts)-1]] {
			last = firsts[len(firsts)-1] + " " + last
			firsts = firsts[:len(firsts)-1]
		}
	}

	return Author{First: strings.Join(firsts, " "), Last: last}
}

// ParseAuthors splits a name list on AuthorSeparator and parses each person.
// Empty names are dropped.
func ParseAuthors(s string) []Author {
	var authors []Author
	for _, part := range strings.Split(s, AuthorSeparator) {
		a := ParseName(part)
		if a.Last == "" {
			continue
		}
		authors = append(authors, a)
	}
	return authors
}

// JoinNames joins display strings the English way:
// "A", "A and B", "A, B and C", and "A et al." for four or more.
func JoinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	case 3:
		return names[0] + ", " + names[1] + " and " + names[2]
	default:
		return names[0] + " et al."
	}
}
