// Package matcher implements the exclusion filters applied before the
// item loop: shell-style glob patterns grouped by the field they match
// against ("Workspace:Private*", "Pipeline:Done").
package matcher

import (
	"path/filepath"
	"strings"

	"github.com/pretagov/projectsmigrator/pkg/errors"
)

// Exclusions holds glob patterns grouped by field name.
type Exclusions struct {
	byField map[string][]string
}

// ParseExclusions parses "FIELD:GLOB" entries. Patterns are validated at
// parse time so a bad pattern fails the run before any remote call.
func ParseExclusions(entries []string) (*Exclusions, error) {
	e := &Exclusions{byField: make(map[string][]string)}
	for _, entry := range entries {
		field, pattern, found := strings.Cut(entry, ":")
		if !found || field == "" || pattern == "" {
			return nil, &errors.ConfigError{
				Component: "exclude",
				Message:   "expected FIELD:PATTERN, got " + entry,
			}
		}
		if _, err := filepath.Match(pattern, ""); err != nil {
			return nil, &errors.ConfigError{
				Component: "exclude",
				Message:   "invalid glob pattern " + pattern,
				Err:       err,
			}
		}
		e.byField[field] = append(e.byField[field], pattern)
	}
	return e, nil
}

// Excluded reports whether the given field value matches any pattern
// registered for that field.
func (e *Exclusions) Excluded(field, value string) bool {
	for _, pattern := range e.byField[field] {
		if matched, _ := filepath.Match(pattern, value); matched {
			return true
		}
	}
	return false
}

// Patterns returns the patterns registered for a field.
func (e *Exclusions) Patterns(field string) []string {
	return e.byField[field]
}

// Filter returns the values not excluded for the given field, preserving
// input order.
func (e *Exclusions) Filter(field string, values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !e.Excluded(field, v) {
			out = append(out, v)
		}
	}
	return out
}
