package reconciler

import (
	"context"
	"strconv"
	"strings"

	"github.com/pretagov/projectsmigrator/pkg/convert"
	"github.com/pretagov/projectsmigrator/pkg/errors"
	"github.com/pretagov/projectsmigrator/pkg/logging"
	"github.com/pretagov/projectsmigrator/pkg/projects"
	"github.com/pretagov/projectsmigrator/pkg/zenhub"
)

// workspaceState carries the per-workspace relationship reads through
// the pipeline walk.
type workspaceState struct {
	ws    *zenhub.Workspace
	epics map[string]zenhub.Epic
	deps  map[string][]zenhub.IssueRef
}

// syncWorkspace walks every pipeline of one workspace in board order.
func (r *Reconciler) syncWorkspace(ctx context.Context, ws zenhub.Workspace) error {
	epics, err := r.source.Epics(ctx, ws.ID)
	if err != nil {
		return errors.WrapFatal("read-epics", err)
	}
	deps, err := r.source.Dependencies(ctx, ws.ID)
	if err != nil {
		return errors.WrapFatal("read-dependencies", err)
	}
	state := &workspaceState{ws: &ws, epics: epics, deps: deps}

	for _, pipeline := range ws.Pipelines {
		if r.excl.Excluded("Pipeline", pipeline.Name) {
			logging.Info().Str("pipeline", pipeline.Name).Msg("excluding pipeline")
			continue
		}
		if err := r.syncPipeline(logging.WithPipeline(ctx, pipeline.Name), state, pipeline); err != nil {
			return err
		}
	}
	return nil
}

// syncPipeline merges one pipeline's issues and pull requests onto the
// board under the fuzzily matched status column.
func (r *Reconciler) syncPipeline(ctx context.Context, state *workspaceState, pipeline zenhub.Pipeline) error {
	issues, err := r.source.Issues(ctx, state.ws.ID, pipeline.ID)
	if err != nil {
		return errors.WrapFatal("read-issues", err)
	}
	prs, err := r.source.PullRequests(ctx, state.ws.ID, pipeline.ID)
	if err != nil {
		return errors.WrapFatal("read-pulls", err)
	}
	merged := mergePulls(issues, prs)

	var status *projects.Option
	if r.statusField != nil {
		status = convert.ClosestOption(pipeline.Name, r.statusField.Options)
	}
	statusName := ""
	if status != nil {
		statusName = status.Name
	}
	logging.Info().
		Str("workspace", state.ws.Name).
		Str("pipeline", pipeline.Name).
		Str("status", statusName).
		Int("issues", len(merged)).
		Msg("merging pipeline")

	for i := range merged {
		issue := &merged[i]
		issue.Pipeline = pipeline.Name
		r.processItem(ctx, state, issue, status)
	}
	return nil
}

// mergePulls combines the issue listing with the pull request listing.
// The issue listing is authoritative for order; pull requests absent
// from it are appended, and connection data from the PR listing is
// copied onto issues that appear in both.
func mergePulls(issues, prs []zenhub.Issue) []zenhub.Issue {
	merged := make([]zenhub.Issue, len(issues))
	copy(merged, issues)
	index := make(map[string]int, len(merged))
	for i := range merged {
		index[merged[i].ID] = i
	}
	for _, pr := range prs {
		if i, ok := index[pr.ID]; ok {
			merged[i].IsPullRequest = true
			merged[i].Connections = pr.Connections
			continue
		}
		index[pr.ID] = len(merged)
		merged = append(merged, pr)
	}
	return merged
}

// processItem converges one pipeline issue: board membership, field
// values, relationship text and position. Failures are item-scoped.
func (r *Reconciler) processItem(ctx context.Context, state *workspaceState, issue *zenhub.Issue, status *projects.Option) {
	key := issue.Identity
	ctx = logging.WithItem(ctx, key.String())

	item, err := r.itemFor(ctx, key)
	if err != nil {
		r.itemErr(err)
		return
	}
	if item.Content != nil && item.Content.Archived {
		logging.Debug().Str("item", key.String()).Msg("skipping archived issue")
		r.result.SkippedArchived++
		return
	}

	// A pull request with ZenHub connections is represented as text on
	// its issues rather than as a board item of its own.
	folded := issue.IsPullRequest && len(issue.Connections) > 0 && !r.opts.KeepOrphanPRs
	if folded {
		logging.Debug().Str("item", key.String()).Msg("folding linked pull request into its issue")
		r.result.SkippedLinkedPRs++
	}

	if r.seen[key] {
		logging.Debug().Str("item", key.String()).Msg("already merged, skipping duplicate")
		return
	}
	if !folded {
		r.seen[key] = true
	}

	var changes []string
	if !folded && !item.OnBoard() {
		added, err := r.addItem(ctx, item.Content)
		if err != nil {
			r.itemErr(errors.WrapItem(key.String(), "add-item", err))
			return
		}
		r.items[key] = added
		item = added
		r.result.Added++
		changes = append(changes, "ADD*")
	}

	for _, src := range r.table.Sources() {
		for _, dest := range r.table.Destinations(src) {
			tag, err := r.applyField(ctx, state, issue, item, src, dest, status, folded)
			if err != nil {
				r.itemErr(err)
				continue
			}
			if tag != "" {
				changes = append(changes, tag)
			}
		}
	}

	if !folded && item.OnBoard() && status != nil {
		r.last[status.ID] = item
	}

	logging.Info().
		Str("repo", key.Repo).
		Str("title", item.Title()).
		Str("changes", strings.Join(changes, ", ")).
		Msg("merged")
}

// sourceValue resolves one source field of an issue. A value is either
// scalar (text or number, with an optional source domain for scale
// conversion) or a list of issue references.
type sourceValue struct {
	text         string
	number       *float64
	refs         []zenhub.IssueRef
	nameDomain   []string
	numberDomain []float64
}

func (v sourceValue) empty() bool {
	return v.text == "" && v.number == nil && len(v.refs) == 0
}

// from returns the source value rendered for the conversion tally.
func (v sourceValue) from() string {
	if v.number != nil {
		return strconv.FormatFloat(*v.number, 'g', -1, 64)
	}
	return v.text
}

func (r *Reconciler) sourceValue(ctx context.Context, state *workspaceState, issue *zenhub.Issue, src string) (sourceValue, error) {
	switch src {
	case "Workspace":
		return sourceValue{text: state.ws.Name}, nil
	case "Pipeline":
		return sourceValue{text: issue.Pipeline, nameDomain: state.ws.PipelineNames()}, nil
	case "Estimate":
		if issue.Estimate == nil {
			return sourceValue{}, nil
		}
		return sourceValue{number: issue.Estimate, numberDomain: zenhub.EstimateDomain(issue.Estimate)}, nil
	case "Priority":
		return sourceValue{text: issue.Priority, nameDomain: zenhub.PriorityNames}, nil
	case "Sprint":
		if len(issue.Sprints) == 0 {
			return sourceValue{}, nil
		}
		return sourceValue{text: issue.Sprints[len(issue.Sprints)-1]}, nil
	case "Linked Issues":
		if !issue.IsPullRequest {
			return sourceValue{}, nil
		}
		return sourceValue{refs: issue.Connections}, nil
	case "Epic":
		epic, ok := state.epics[issue.ID]
		if !ok {
			return sourceValue{}, nil
		}
		children, err := r.source.EpicIssues(ctx, epic.ID)
		if err != nil {
			return sourceValue{}, errors.WrapItem(issue.Identity.String(), "read-epic-issues", err)
		}
		return sourceValue{refs: children}, nil
	case "Blocked By":
		return sourceValue{refs: state.deps[issue.ID]}, nil
	default:
		return sourceValue{}, nil
	}
}
