package catalogcore

import (
	"slices"
	"testing"
)

type rec struct{ id, name string }

func recID(r rec) string { return r.id }

func TestFindByID(t *testing.T) {
	records := []rec{{"1", "a"}, {"2", "b"}, {"2", "shadowed"}}

	got, ok := findByID(records, "2", recID)
	if !ok || got.name != "b" {
		t.Errorf("findByID(2) = %v, %v, want first match b", got, ok)
	}

	if _, ok := findByID(records, "3", recID); ok {
		t.Error("findByID(3) ok = true, want false")
	}
	if _, ok := findByID([]rec(nil), "1", recID); ok {
		t.Error("findByID on nil collection ok = true, want false")
	}
}

func TestFilterByIDs(t *testing.T) {
	records := []rec{{"1", "a"}, {"2", "b"}, {"3", "c"}}

	got := filterByIDs(records, []string{"3", "1", "x"}, recID)
	if !slices.Equal(got, []rec{{"1", "a"}, {"3", "c"}}) {
		t.Errorf("filterByIDs() = %v, want records 1 and 3 in source order", got)
	}
}

func TestNextID(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "1"},
		{4, "5"},
		{3, "4"},
		{99, "100"},
	}
	for _, tt := range tests {
		if got := nextID(tt.n); got != tt.want {
			t.Errorf("nextID(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
