package matcher

import (
	"reflect"
	"testing"
)

func TestParseExclusions(t *testing.T) {
	tests := []struct {
		name    string
		entries []string
		wantErr bool
	}{
		{"valid", []string{"Workspace:Private*", "Pipeline:Done"}, false},
		{"missing colon", []string{"Workspace"}, true},
		{"empty pattern", []string{"Workspace:"}, true},
		{"invalid glob", []string{"Pipeline:[unclosed"}, true},
		{"empty list", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseExclusions(tt.entries)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseExclusions() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestExcluded(t *testing.T) {
	e, err := ParseExclusions([]string{"Workspace:Private*", "Pipeline:Done", "Pipeline:Closed*"})
	if err != nil {
		t.Fatalf("ParseExclusions() error = %v", err)
	}

	tests := []struct {
		field, value string
		want         bool
	}{
		{"Workspace", "Private Ops", true},
		{"Workspace", "Support", false},
		{"Pipeline", "Done", true},
		{"Pipeline", "Closed Out", true},
		{"Pipeline", "New", false},
		{"Workspace", "Done", false}, // patterns are scoped per field
	}
	for _, tt := range tests {
		if got := e.Excluded(tt.field, tt.value); got != tt.want {
			t.Errorf("Excluded(%q, %q) = %v, want %v", tt.field, tt.value, got, tt.want)
		}
	}
}

func TestFilter(t *testing.T) {
	e, err := ParseExclusions([]string{"Workspace:Private*"})
	if err != nil {
		t.Fatalf("ParseExclusions() error = %v", err)
	}
	got := e.Filter("Workspace", []string{"Support", "Private Ops", "Platform"})
	want := []string{"Support", "Platform"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Filter() = %v, want %v", got, want)
	}
}
