package citation

// suffixAlphabet holds the digit symbols of the disambiguation suffixes.
const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz"

// Suffix returns the disambiguation suffix for a zero-based collision
// index: "a" ... "z", "aa", "ab", ... (bijective base 26, as spreadsheet
// columns are named). Negative indexes yield "".
func Suffix(i int) string {
	if i < 0 {
		return ""
	}
	n := i + 1
	var buf []byte
	for n > 0 {
		n--
		buf = append(buf, suffixAlphabet[n%len(suffixAlphabet)])
		n /= len(suffixAlphabet)
	}
	for l, r := 0, len(buf)-1; l < r; l, r = l+1, r-1 {
		buf[l], buf[r] = buf[r], buf[l]
	}
	return string(buf)
}

// SuffixAssigner hands out suffixes that keep author-year labels unique
// within one session.
type SuffixAssigner struct {
	used map[string]bool
	next map[string]int // next collision index to try per base label
}

// NewSuffixAssigner returns an assigner with no labels in use.
func NewSuffixAssigner() *SuffixAssigner {
	return &SuffixAssigner{
		used: make(map[string]bool),
		next: make(map[string]int),
	}
}

// Assign returns "" the first time base is seen, and otherwise the first
// suffix in sequence whose label base+suffix is not yet in use. The label
// is marked used before Assign returns.
func (a *SuffixAssigner) Assign(base string) string {
	if !a.used[base] {
		a.used[base] = true
		return ""
	}

	i := a.next[base]
	for {
		s := Suffix(i)
		i++
		if !a.used[base+s] {
			a.next[base] = i
			a.used[base+s] = true
			return s
		}
	}
}
