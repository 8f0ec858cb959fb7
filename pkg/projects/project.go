package projects

import (
	"strconv"
	"strings"

	"github.com/pretagov/projectsmigrator/pkg/errors"
)

// Project represents a GitHub Project v2 instance.
type Project struct {
	ID     string // project node ID
	Number int    // project number within the owner's namespace
	Title  string // project title
	Owner  string // owner login (organization)
	URL    string // project URL
}

// ParseProjectURL extracts the owner login and project number from an
// organization project URL, e.g. "https://github.com/orgs/acme/projects/7".
func ParseProjectURL(raw string) (owner string, number int, err error) {
	_, after, found := strings.Cut(raw, "orgs/")
	if !found {
		return "", 0, &errors.ConfigError{
			Component: "project-url",
			Message:   "expected an organization project URL containing /orgs/",
		}
	}
	owner, after, _ = strings.Cut(after, "/")
	_, numPart, found := strings.Cut(after, "projects/")
	if !found || owner == "" {
		return "", 0, &errors.ConfigError{
			Component: "project-url",
			Message:   "expected an organization project URL containing /projects/",
		}
	}
	numPart, _, _ = strings.Cut(numPart, "/")
	number, convErr := strconv.Atoi(numPart)
	if convErr != nil {
		return "", 0, &errors.ConfigError{
			Component: "project-url",
			Message:   "project number is not numeric",
			Err:       convErr,
		}
	}
	return owner, number, nil
}

// Field data types as reported by the GitHub API.
const (
	FieldTypeSingleSelect = "SINGLE_SELECT"
	FieldTypeText         = "TEXT"
	FieldTypeNumber       = "NUMBER"
	FieldTypeIteration    = "ITERATION"
)

// Option represents a single option value for a single-select field.
type Option struct {
	ID   string
	Name string
}

// Field represents a project field definition with its metadata.
type Field struct {
	ID       string
	Name     string
	DataType string
	Options  []Option // populated for single-select fields
}

// HasOptions reports whether the field has a bounded option set.
func (f *Field) HasOptions() bool {
	return len(f.Options) > 0
}

// Option returns the option with the given ID, or nil.
func (f *Field) Option(id string) *Option {
	for i := range f.Options {
		if f.Options[i].ID == id {
			return &f.Options[i]
		}
	}
	return nil
}

// OptionNamed returns the option with the given name, or nil.
func (f *Field) OptionNamed(name string) *Option {
	for i := range f.Options {
		if f.Options[i].Name == name {
			return &f.Options[i]
		}
	}
	return nil
}
