package reference

import "testing"

func TestParseName(t *testing.T) {
	tests := []struct {
		in   string
		want Author
	}{
		{"Leslie A. Aamport", Author{First: "Leslie A.", Last: "Aamport"}},
		{"Aamport, Leslie A.", Author{First: "Leslie A.", Last: "Aamport"}},
		{"Aamport", Author{Last: "Aamport"}},
		{"Guido van Rossum", Author{First: "Guido", Last: "van Rossum"}},
		{"Donald E. Knuth", Author{First: "Donald E.", Last: "Knuth"}},
		{"D.E. Knuth", Author{First: "D. E.", Last: "Knuth"}},
		{"Martin Luther King jr", Author{First: "Martin Luther", Last: "King"}},
		{"  Smith ,   John  ", Author{First: "John", Last: "Smith"}},
		{"", Author{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseName(tt.in)
			if got != tt.want {
				t.Errorf("ParseName(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestAuthorDisplay(t *testing.T) {
	if got := (Author{First: "John", Last: "Smith"}).Display(); got != "Smith, John" {
		t.Errorf("Display() = %q, want %q", got, "Smith, John")
	}
	if got := (Author{Last: "Smith"}).Display(); got != "Smith" {
		t.Errorf("Display() = %q, want %q", got, "Smith")
	}
}

func TestParseAuthors(t *testing.T) {
	got := ParseAuthors("John Smith and Jones, Ann and  and Lee")
	if len(got) != 3 {
		t.Fatalf("ParseAuthors() returned %d authors, want 3: %+v", len(got), got)
	}
	want := []string{"Smith", "Jones", "Lee"}
	for i, a := range got {
		if a.Last != want[i] {
			t.Errorf("author %d Last = %q, want %q", i, a.Last, want[i])
		}
	}
}

func TestJoinNames(t *testing.T) {
	tests := []struct {
		names []string
		want  string
	}{
		{nil, ""},
		{[]string{"Smith"}, "Smith"},
		{[]string{"Smith", "Jones"}, "Smith and Jones"},
		{[]string{"Smith", "Jones", "Lee"}, "Smith, Jones and Lee"},
		{[]string{"Smith", "Jones", "Lee", "Park"}, "Smith et al."},
		{[]string{"Smith", "Jones", "Lee", "Park", "Kim"}, "Smith et al."},
	}

	for _, tt := range tests {
		got := JoinNames(tt.names)
		if got != tt.want {
			t.Errorf("JoinNames(%v) = %q, want %q", tt.names, got, tt.want)
		}
	}
}
