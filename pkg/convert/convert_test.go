package convert

import (
	"testing"

	"github.com/pretagov/projectsmigrator/pkg/projects"
)

func options(names ...string) []projects.Option {
	out := make([]projects.Option, len(names))
	for i, n := range names {
		out[i] = projects.Option{ID: "opt-" + n, Name: n}
	}
	return out
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"exact", Exact},
		{"Exact", Exact},
		{"scale", Scale},
		{"closest", Closest},
		{"", Closest},
		{"bogus", Closest},
	}
	for _, tt := range tests {
		if got := ParseKind(tt.in); got != tt.want {
			t.Errorf("ParseKind(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestClosestOptionDeterminism(t *testing.T) {
	opts := options("Normal", "High Priority")
	// "high" must always select "High Priority", run after run.
	for i := 0; i < 10; i++ {
		got := ClosestOption("high", opts)
		if got == nil || got.Name != "High Priority" {
			t.Fatalf("ClosestOption(high) = %v, want High Priority", got)
		}
	}
}

func TestClosestOptionTieBreaksFirst(t *testing.T) {
	opts := options("Alpha", "Alphb")
	got := ClosestOption("Alph", opts)
	if got == nil || got.Name != "Alpha" {
		t.Errorf("tie should resolve to first option, got %v", got)
	}
}

func TestClosestOptionEmpty(t *testing.T) {
	if got := ClosestOption("x", nil); got != nil {
		t.Errorf("no options should yield nil, got %v", got)
	}
}

func TestScaleOptionBoundaries(t *testing.T) {
	domain := []float64{40, 21, 13, 8, 5, 3, 2, 1}
	dst := options("S", "M", "L")

	// rank 0 of 8 maps to the first destination option
	if got := ScaleOption(40, domain, dst); got == nil || got.Name != "S" {
		t.Errorf("ScaleOption(40) = %v, want S", got)
	}
	// rank 7 of 8 maps (after clamping) to the last destination option
	if got := ScaleOption(1, domain, dst); got == nil || got.Name != "L" {
		t.Errorf("ScaleOption(1) = %v, want L", got)
	}
	// value absent from the domain is unset
	if got := ScaleOption(99, domain, dst); got != nil {
		t.Errorf("ScaleOption(99) = %v, want nil", got)
	}
}

func TestScaleIndexClamps(t *testing.T) {
	if got := ScaleIndex(7, 8, 3); got != 2 {
		t.Errorf("ScaleIndex(7,8,3) = %d, want 2", got)
	}
	if got := ScaleIndex(0, 8, 3); got != 0 {
		t.Errorf("ScaleIndex(0,8,3) = %d, want 0", got)
	}
	if got := ScaleIndex(4, 8, 3); got != 2 {
		t.Errorf("ScaleIndex(4,8,3) = %d, want 2", got)
	}
}

func TestExactOption(t *testing.T) {
	field := &projects.Field{Options: options("Normal", "High Priority")}

	got := Option("Normal", nil, Exact, field, nil, nil)
	if got == nil || got.Name != "Normal" {
		t.Errorf("exact by name = %v", got)
	}
	got = Option("opt-Normal", nil, Exact, field, nil, nil)
	if got == nil || got.Name != "Normal" {
		t.Errorf("exact by option ID = %v", got)
	}
	if got = Option("high", nil, Exact, field, nil, nil); got != nil {
		t.Errorf("inexact value under Exact must unset, got %v", got)
	}
}

func TestSimilarityBounds(t *testing.T) {
	if s := Similarity("", ""); s != 1 {
		t.Errorf("Similarity of empty strings = %v", s)
	}
	if s := Similarity("abc", "abc"); s != 1 {
		t.Errorf("identical strings = %v, want 1", s)
	}
	if s := Similarity("abc", "xyz"); s != 0 {
		t.Errorf("disjoint strings = %v, want 0", s)
	}
	if Similarity("HIGH", "high") != 1 {
		t.Error("similarity must be case-insensitive")
	}
}
