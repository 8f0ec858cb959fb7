package reconciler

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Conversion records one source value landing on one option name. An
// empty To means the source value mapped to no option and the field
// was cleared.
type Conversion struct {
	From string
	To   string
}

// Result accumulates what a run did.
type Result struct {
	// Added counts items placed on the board.
	Added int

	// Removed counts items pruned from the board.
	Removed int

	// Updated counts field and position writes.
	Updated int

	// TextUpdated counts issue and pull request bodies rewritten.
	TextUpdated int

	// SkippedArchived counts archived issues left untouched.
	SkippedArchived int

	// SkippedLinkedPRs counts pull requests folded into their issue
	// instead of joining the board.
	SkippedLinkedPRs int

	// Conversions tallies value translations per destination field.
	Conversions map[string]map[Conversion]int

	// Errors holds item-scoped failures that did not stop the run.
	Errors []error
}

func newResult() *Result {
	return &Result{Conversions: make(map[string]map[Conversion]int)}
}

// recordConversion tallies one translation for a field.
func (r *Result) recordConversion(field, from, to string) {
	m := r.Conversions[field]
	if m == nil {
		m = make(map[Conversion]int)
		r.Conversions[field] = m
	}
	m[Conversion{From: from, To: to}]++
}

// HasChanges reports whether the run performed any mutation.
func (r *Result) HasChanges() bool {
	return r.Added > 0 || r.Removed > 0 || r.Updated > 0 || r.TextUpdated > 0
}

// Summary returns a one-line account of the run.
func (r *Result) Summary() string {
	return fmt.Sprintf("added %d, removed %d, updated %d, text updated %d, errors %d",
		r.Added, r.Removed, r.Updated, r.TextUpdated, len(r.Errors))
}

// WriteReport renders the run totals and per-field conversion tallies.
func (r *Result) WriteReport(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Metric", "Count"})
	t.AppendRows([]table.Row{
		{"Items added", r.Added},
		{"Items removed", r.Removed},
		{"Fields updated", r.Updated},
		{"Bodies updated", r.TextUpdated},
		{"Archived skipped", r.SkippedArchived},
		{"Linked PRs folded", r.SkippedLinkedPRs},
		{"Errors", len(r.Errors)},
	})
	t.Render()

	fieldNames := make([]string, 0, len(r.Conversions))
	for name := range r.Conversions {
		fieldNames = append(fieldNames, name)
	}
	sort.Strings(fieldNames)

	for _, name := range fieldNames {
		tallies := r.Conversions[name]
		keys := make([]Conversion, 0, len(tallies))
		for k := range tallies {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			if keys[i].From != keys[j].From {
				return keys[i].From < keys[j].From
			}
			return keys[i].To < keys[j].To
		})

		ct := table.NewWriter()
		ct.SetOutputMirror(w)
		ct.SetStyle(table.StyleLight)
		ct.SetTitle(name)
		ct.AppendHeader(table.Row{"From", "To", "Count"})
		for _, k := range keys {
			to := k.To
			if to == "" {
				to = "(cleared)"
			}
			ct.AppendRow(table.Row{k.From, to, tallies[k]})
		}
		ct.Render()
	}

	if len(r.Errors) > 0 {
		var b strings.Builder
		for _, err := range r.Errors {
			fmt.Fprintf(&b, "  - %v\n", err)
		}
		fmt.Fprintf(w, "Errors:\n%s", b.String())
	}
}
