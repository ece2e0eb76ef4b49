package main

import (
	"testing"

	"github.com/matsen/citemark/internal/reference"
)

func TestSelectCited(t *testing.T) {
	recs := []reference.RawRecord{
		{Key: "a"},
		{Key: "b"},
		{Key: "c"},
		{Key: "a", Type: reference.Book}, // duplicate, ignored
	}

	got := selectCited(recs, []string{"c", "a", "missing"})
	if len(got) != 2 {
		t.Fatalf("selectCited() returned %d records, want 2", len(got))
	}
	if got[0].Key != "a" || got[1].Key != "c" {
		t.Errorf("keys = %s, %s, want a, c (source order)", got[0].Key, got[1].Key)
	}
	if got[0].Type != "" {
		t.Errorf("kept duplicate record of type %q, want the first one", got[0].Type)
	}
}

func TestSelectCited_None(t *testing.T) {
	if got := selectCited([]reference.RawRecord{{Key: "a"}}, nil); len(got) != 0 {
		t.Errorf("selectCited() = %v, want empty", got)
	}
}
