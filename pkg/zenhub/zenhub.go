// Package zenhub defines the normalized domain types for the source side
// of a reconciliation run: workspaces, their ordered pipelines, and the
// issues and pull requests they contain. Items are read once per run and
// never written back, except through derived checklist text on the target.
package zenhub

import (
	"sort"

	"github.com/pretagov/projectsmigrator/pkg/projects"
)

// Workspace is one source workspace with its ordered pipelines.
type Workspace struct {
	ID        string
	Name      string
	Pipelines []Pipeline
}

// Pipeline is one ordered column within a workspace.
type Pipeline struct {
	ID   string
	Name string
}

// PipelineNames returns the workspace's pipeline names in board order.
// This is the source domain for Pipeline-field conversions.
func (w *Workspace) PipelineNames() []string {
	names := make([]string, len(w.Pipelines))
	for i, p := range w.Pipelines {
		names[i] = p.Name
	}
	return names
}

// IssueRef is a lightweight reference to an issue or pull request, as it
// appears in epic memberships, dependency edges, and PR connections.
type IssueRef struct {
	ID       string // ZenHub node ID, may be empty for URL-only references
	Identity projects.Identity
	URL      string
	Title    string
}

// Issue is one issue or pull request inside a source pipeline. Immutable
// for the duration of a run.
type Issue struct {
	ID            string // ZenHub node ID
	Identity      projects.Identity
	Title         string
	IsPullRequest bool
	Pipeline      string   // name of the pipeline the item was listed under
	Estimate      *float64 // nil when unestimated
	Priority      string   // "" when no priority set
	Sprints       []string // sprint names, oldest first
	Connections   []IssueRef
}

// Epic is an epic and the issue that represents it.
type Epic struct {
	ID    string
	Issue IssueRef
}

// StoryPointScale is the ZenHub estimate scale, descending. The API does
// not expose the configured scale, so this default is assumed and any
// out-of-scale value is spliced in before rank conversion.
var StoryPointScale = []float64{40, 21, 13, 8, 5, 3, 2, 1}

// PriorityNames is the ordered domain of the ZenHub priority field.
var PriorityNames = []string{"Normal", "High Priority"}

// EstimateDomain returns the ordered estimate scale for a given value.
// A value outside the default scale is inserted into a copy, preserving
// descending order, so its fractional rank is still well defined.
func EstimateDomain(value *float64) []float64 {
	scale := make([]float64, len(StoryPointScale))
	copy(scale, StoryPointScale)
	if value == nil {
		return scale
	}
	for _, v := range scale {
		if v == *value {
			return scale
		}
	}
	scale = append(scale, *value)
	sort.Sort(sort.Reverse(sort.Float64Slice(scale)))
	return scale
}
