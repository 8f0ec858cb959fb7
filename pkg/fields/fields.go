// Package fields resolves the declarative field-mapping spec into a table
// of source field to destination descriptors. Mapping entries take the
// form "SRC:DST[:CONV]"; a later layer's entries for a source field
// replace the earlier layer's destinations for that field, and an empty
// DST explicitly suppresses transfer of the source field.
package fields

import (
	"strings"

	"github.com/pretagov/projectsmigrator/pkg/convert"
	"github.com/pretagov/projectsmigrator/pkg/errors"
	"github.com/pretagov/projectsmigrator/pkg/projects"
)

// Defaults is the mapping applied before any user-supplied entries.
var Defaults = []string{
	"Estimate:Size:Scale",
	"Priority:Priority",
	"Pipeline:Status",
	"Linked Issues:Text",
	"Epic:Text",
	"Blocked By:Text",
	"Sprint:Iteration",
	"Position:Position",
}

// Synthetic destination names.
const (
	// DestBody routes values into the item body as checklist text.
	DestBody = "Text"
	// DestPosition reorders the item instead of setting a value.
	DestPosition = "Position"
	// DestLinkedPRs is the board's linked-pull-requests field, which has
	// no settable value and is materialized through PR body text instead.
	DestLinkedPRs = "Linked pull requests"
)

// Kind tags the variant of a destination descriptor.
type Kind int

// Destination kinds.
const (
	None      Kind = iota // unknown or suppressed; the engine skips it
	FieldDest             // a real board field
	Body                  // append to the item body
	Position              // reorder within the status column
	LinkedPRs             // propagate through linked pull request bodies
)

// Destination describes where one source field's value goes and how it is
// converted on the way.
type Destination struct {
	Kind       Kind
	Name       string          // requested destination name, kept even when unresolved
	Field      *projects.Field // set for FieldDest and LinkedPRs
	Conversion convert.Kind
}

// Table maps source fields to their destinations, preserving the order in
// which source fields were first declared. Destination-field collisions
// across different source fields are not merged: mappings apply in table
// order and the last write wins.
type Table struct {
	order    []string
	bySource map[string][]Destination
}

// Resolve parses the layered mapping lists against the board's fields.
// Layers apply in order; a layer's entries for a source field replace all
// destinations an earlier layer declared for that field. Resolution is
// pure and deterministic for a fixed input ordering.
func Resolve(boardFields map[string]*projects.Field, layers ...[]string) (*Table, error) {
	t := &Table{bySource: make(map[string][]Destination)}
	for _, layer := range layers {
		perLayer := make(map[string][]Destination)
		var layerOrder []string
		for _, entry := range layer {
			src, dest, err := parseEntry(entry, boardFields)
			if err != nil {
				return nil, err
			}
			if _, seen := perLayer[src]; !seen {
				layerOrder = append(layerOrder, src)
			}
			perLayer[src] = append(perLayer[src], dest)
		}
		for _, src := range layerOrder {
			if _, seen := t.bySource[src]; !seen {
				t.order = append(t.order, src)
			}
			t.bySource[src] = perLayer[src]
		}
	}
	return t, nil
}

// parseEntry parses one "SRC:DST[:CONV]" mapping string.
func parseEntry(entry string, boardFields map[string]*projects.Field) (string, Destination, error) {
	parts := strings.Split(entry, ":")
	var src, dst, conv string
	switch len(parts) {
	case 1:
		src, dst = parts[0], parts[0]
	case 2:
		src, dst = parts[0], parts[1]
	case 3:
		src, dst, conv = parts[0], parts[1], parts[2]
	default:
		return "", Destination{}, &errors.ConfigError{
			Component: "field-mapping",
			Message:   "expected SRC:DST[:CONV], got " + entry,
		}
	}
	if src == "" {
		return "", Destination{}, &errors.ConfigError{
			Component: "field-mapping",
			Message:   "empty source field in " + entry,
		}
	}
	return src, MakeDestination(dst, convert.ParseKind(conv), boardFields), nil
}

// MakeDestination resolves a destination name against the board's fields.
// Unknown names resolve to a None destination, which the engine skips
// without error (the name is preserved for later field creation).
func MakeDestination(name string, conv convert.Kind, boardFields map[string]*projects.Field) Destination {
	switch name {
	case "":
		return Destination{Kind: None, Conversion: conv}
	case DestBody:
		return Destination{Kind: Body, Name: name, Conversion: conv}
	case DestPosition:
		return Destination{Kind: Position, Name: name, Conversion: conv}
	}
	field, ok := boardFields[name]
	if !ok {
		return Destination{Kind: None, Name: name, Conversion: conv}
	}
	if field.Name == DestLinkedPRs {
		return Destination{Kind: LinkedPRs, Name: name, Field: field, Conversion: conv}
	}
	return Destination{Kind: FieldDest, Name: name, Field: field, Conversion: conv}
}

// Sources returns the source fields in declaration order.
func (t *Table) Sources() []string {
	return t.order
}

// Destinations returns the destinations for a source field.
func (t *Table) Destinations(src string) []Destination {
	return t.bySource[src]
}

// Replace swaps the destinations recorded for a source field, e.g. after
// the workspace provenance field has been created on the board.
func (t *Table) Replace(src string, dests []Destination) {
	if _, seen := t.bySource[src]; !seen {
		t.order = append(t.order, src)
	}
	t.bySource[src] = dests
}

// StatusField returns the board field the Pipeline source maps to, which
// defines the board's status columns. Nil when Pipeline is unmapped or its
// destination is not a real field.
func (t *Table) StatusField() *projects.Field {
	for _, d := range t.bySource["Pipeline"] {
		if d.Kind == FieldDest && d.Field != nil {
			return d.Field
		}
	}
	return nil
}
