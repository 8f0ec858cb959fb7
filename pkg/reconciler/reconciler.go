package reconciler

import (
	"context"

	"github.com/pretagov/projectsmigrator/internal/matcher"
	"github.com/pretagov/projectsmigrator/pkg/bodytext"
	"github.com/pretagov/projectsmigrator/pkg/convert"
	"github.com/pretagov/projectsmigrator/pkg/errors"
	"github.com/pretagov/projectsmigrator/pkg/fields"
	"github.com/pretagov/projectsmigrator/pkg/logging"
	"github.com/pretagov/projectsmigrator/pkg/projects"
	"github.com/pretagov/projectsmigrator/pkg/zenhub"
)

// Reconciler converges one project board toward the state of the
// selected workspaces.
type Reconciler struct {
	source Source
	target Target
	opts   Options

	project     *projects.Project
	table       *fields.Table
	statusField *projects.Field
	board       *projects.Board
	excl        *matcher.Exclusions
	agg         *bodytext.Aggregator

	// items indexes every known item by content identity: board members
	// from the initial read plus content fetched during the run.
	items map[projects.Identity]*projects.Item

	// initial holds the board items from the initial read, in board
	// order. The pruner only ever considers these.
	initial []*projects.Item

	// seen marks identities mentioned by a selected workspace.
	seen map[projects.Identity]bool

	// last tracks the tail item placed in each status column, keyed by
	// status option ID. Empty key means items with no status mapping.
	last map[string]*projects.Item

	result *Result
}

// New builds a Reconciler. The options are validated on Run.
func New(source Source, target Target, opts ...Option) *Reconciler {
	r := &Reconciler{source: source, target: target}
	for _, opt := range opts {
		opt(&r.opts)
	}
	return r
}

// Run performs one full reconciliation pass. Failures during the
// initial reads abort the run; failures while processing a single item
// are recorded and skipped.
func (r *Reconciler) Run(ctx context.Context) (*Result, error) {
	r.result = newResult()
	r.items = make(map[projects.Identity]*projects.Item)
	r.seen = make(map[projects.Identity]bool)
	r.last = make(map[string]*projects.Item)
	r.board = projects.NewBoard()

	owner, number, err := projects.ParseProjectURL(r.opts.ProjectURL)
	if err != nil {
		return nil, err
	}
	r.excl, err = matcher.ParseExclusions(r.opts.Excludes)
	if err != nil {
		return nil, err
	}

	if err := r.readBoard(ctx, owner, number); err != nil {
		return nil, err
	}

	workspaces, err := r.source.Workspaces(ctx)
	if err != nil {
		return nil, errors.WrapFatal("list-workspaces", err)
	}
	selected := r.selectWorkspaces(workspaces)

	if err := r.ensureWorkspaceField(ctx, selected); err != nil {
		return nil, err
	}

	r.agg = bodytext.New(r.project.Owner, bodytext.WithDryRun(r.opts.DryRun))

	for _, ws := range selected {
		wctx := logging.WithWorkspace(ctx, ws.Name)
		if err := r.syncWorkspace(wctx, ws); err != nil {
			return r.result, err
		}
	}

	r.result.TextUpdated = r.agg.Flush(ctx, r.target)
	r.prune(ctx)

	logging.Info().Msg(r.result.Summary())
	return r.result, nil
}

// readBoard loads the project, its fields and every item, resolves the
// field mapping table and seeds the position cache.
func (r *Reconciler) readBoard(ctx context.Context, owner string, number int) error {
	project, err := r.target.Project(ctx, owner, number)
	if err != nil {
		return errors.WrapFatal("read-project", err)
	}
	r.project = project

	fieldList, err := r.target.Fields(ctx, project.ID)
	if err != nil {
		return errors.WrapFatal("read-fields", err)
	}
	byName := fieldsByName(fieldList)

	r.table, err = fields.Resolve(byName, fields.Defaults, r.opts.Mappings)
	if err != nil {
		return err
	}
	r.statusField = r.table.StatusField()

	items, err := r.target.Items(ctx, owner, number)
	if err != nil {
		return errors.WrapFatal("read-items", err)
	}
	r.initial = items
	for _, item := range items {
		if !item.IsDraft() {
			r.items[item.Key()] = item
		}
		r.board.Append(item, r.statusOf(item))
	}

	logging.Info().
		Str("project", project.Title).
		Int("items", len(items)).
		Int("fields", len(fieldList)).
		Msg("board loaded")
	return nil
}

func fieldsByName(list []*projects.Field) map[string]*projects.Field {
	m := make(map[string]*projects.Field, len(list))
	for _, f := range list {
		m[f.Name] = f
	}
	return m
}

// statusOf returns the item's current status option ID, or "" when the
// board has no status field or the item has no status.
func (r *Reconciler) statusOf(item *projects.Item) string {
	if r.statusField == nil {
		return ""
	}
	return item.Value(r.statusField.ID).OptionID
}

// selectWorkspaces resolves the requested workspace names against the
// visible ones. Requested names match fuzzily; with no request every
// visible workspace is selected. Exclusions apply to the resolved names.
func (r *Reconciler) selectWorkspaces(available []zenhub.Workspace) []zenhub.Workspace {
	byName := make(map[string]*zenhub.Workspace, len(available))
	names := make([]string, 0, len(available))
	for i := range available {
		byName[available[i].Name] = &available[i]
		names = append(names, available[i].Name)
	}

	var resolved []string
	if len(r.opts.Workspaces) == 0 {
		resolved = names
	} else {
		for _, want := range r.opts.Workspaces {
			got := convert.ClosestName(want, names)
			if got == "" {
				logging.Warn().Str("workspace", want).Msg("no matching workspace")
				continue
			}
			resolved = append(resolved, got)
		}
	}

	var selected []zenhub.Workspace
	taken := make(map[string]bool)
	for _, name := range resolved {
		if taken[name] {
			continue
		}
		if r.excl.Excluded("Workspace", name) {
			logging.Info().Str("workspace", name).Msg("excluding workspace")
			continue
		}
		taken[name] = true
		selected = append(selected, *byName[name])
	}
	return selected
}

// ensureWorkspaceField creates the workspace provenance field when the
// mapping asks for a field the board does not have, then rebinds the
// mapping to the created field. Options are the selected workspace
// names so every item can record where it came from.
func (r *Reconciler) ensureWorkspaceField(ctx context.Context, selected []zenhub.Workspace) error {
	dests := r.table.Destinations("Workspace")
	for i, d := range dests {
		if d.Kind != fields.None || d.Name == "" {
			continue
		}
		names := make([]string, 0, len(selected))
		for _, ws := range selected {
			names = append(names, ws.Name)
		}
		if len(names) == 0 {
			continue
		}
		if r.opts.DryRun {
			logging.Info().Str("field", d.Name).Msg("would create workspace field (dry run)")
			continue
		}
		field, err := r.target.CreateSingleSelectField(ctx, r.project.ID, d.Name, names)
		if err != nil {
			return errors.WrapFatal("create-field", err)
		}
		logging.Info().Str("field", field.Name).Msg("created workspace field")
		dests[i] = fields.Destination{
			Kind:       fields.FieldDest,
			Name:       field.Name,
			Field:      field,
			Conversion: d.Conversion,
		}
		r.table.Replace("Workspace", dests)
	}
	return nil
}

// itemFor finds the board item for an identity, fetching the content
// and caching a provisional item when the board has none.
func (r *Reconciler) itemFor(ctx context.Context, id projects.Identity) (*projects.Item, error) {
	if item, ok := r.items[id]; ok {
		return item, nil
	}
	content, err := r.target.IssueOrPullRequest(ctx, id)
	if err != nil {
		return nil, errors.WrapItem(id.String(), "fetch-content", err)
	}
	item := projects.NewItem("", content)
	r.items[id] = item
	return item, nil
}

// itemErr records a recoverable per-item failure.
func (r *Reconciler) itemErr(err error) {
	r.result.Errors = append(r.result.Errors, err)
	logging.Err(err).Msg("skipping")
}
