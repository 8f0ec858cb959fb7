package reconciler

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pretagov/projectsmigrator/pkg/projects"
	"github.com/pretagov/projectsmigrator/pkg/zenhub"
)

// fakeSource serves a static workspace layout.
type fakeSource struct {
	workspaces []zenhub.Workspace
	issues     map[string][]zenhub.Issue
	prs        map[string][]zenhub.Issue
	epics      map[string]zenhub.Epic
	epicIssues map[string][]zenhub.IssueRef
	deps       map[string][]zenhub.IssueRef
}

func (s *fakeSource) Workspaces(ctx context.Context) ([]zenhub.Workspace, error) {
	return s.workspaces, nil
}

func (s *fakeSource) Issues(ctx context.Context, workspaceID, pipelineID string) ([]zenhub.Issue, error) {
	return s.issues[pipelineID], nil
}

func (s *fakeSource) PullRequests(ctx context.Context, workspaceID, pipelineID string) ([]zenhub.Issue, error) {
	return s.prs[pipelineID], nil
}

func (s *fakeSource) Epics(ctx context.Context, workspaceID string) (map[string]zenhub.Epic, error) {
	return s.epics, nil
}

func (s *fakeSource) EpicIssues(ctx context.Context, epicID string) ([]zenhub.IssueRef, error) {
	return s.epicIssues[epicID], nil
}

func (s *fakeSource) Dependencies(ctx context.Context, workspaceID string) (map[string][]zenhub.IssueRef, error) {
	return s.deps, nil
}

// fakeTarget is an in-memory board that applies mutations to its own
// state, so a second run sees the outcome of the first.
type fakeTarget struct {
	project   *projects.Project
	fields    []*projects.Field
	items     []*projects.Item
	contents  map[projects.Identity]*projects.Content
	byNodeID  map[string]*projects.Content
	nextItem  int
	mutations int
	created   []string
}

func newFakeTarget() *fakeTarget {
	return &fakeTarget{
		project: &projects.Project{
			ID:    "proj-1",
			Owner: "acme",
			Title: "Roadmap",
			URL:   "https://github.com/orgs/acme/projects/7",
		},
		contents: make(map[projects.Identity]*projects.Content),
		byNodeID: make(map[string]*projects.Content),
	}
}

func (t *fakeTarget) addField(id, name string, options ...string) *projects.Field {
	f := &projects.Field{ID: id, Name: name, DataType: projects.FieldTypeText}
	if len(options) > 0 {
		f.DataType = projects.FieldTypeSingleSelect
		for i, opt := range options {
			f.Options = append(f.Options, projects.Option{ID: fmt.Sprintf("%s-o%d", id, i+1), Name: opt})
		}
	}
	t.fields = append(t.fields, f)
	return f
}

func (t *fakeTarget) addContent(id projects.Identity, title string) *projects.Content {
	kind := "issues"
	if strings.HasPrefix(title, "PR") {
		kind = "pull"
	}
	c := &projects.Content{
		ID:       "node-" + id.String(),
		Identity: id,
		Title:    title,
		URL:      fmt.Sprintf("https://github.com/%s/%s/%s/%d", id.Owner, id.Repo, kind, id.Number),
	}
	t.contents[id] = c
	t.byNodeID[c.ID] = c
	return c
}

func (t *fakeTarget) seedItem(c *projects.Content, values map[string]projects.Value) *projects.Item {
	t.nextItem++
	item := projects.NewItem(fmt.Sprintf("item-%d", t.nextItem), c)
	for k, v := range values {
		item.SetValue(k, v)
	}
	t.items = append(t.items, item)
	return item
}

func (t *fakeTarget) indexOf(itemID string) int {
	for i, it := range t.items {
		if it.ID == itemID {
			return i
		}
	}
	return -1
}

func (t *fakeTarget) order() []string {
	var titles []string
	for _, it := range t.items {
		titles = append(titles, it.Title())
	}
	return titles
}

func (t *fakeTarget) Project(ctx context.Context, owner string, number int) (*projects.Project, error) {
	return t.project, nil
}

func (t *fakeTarget) Fields(ctx context.Context, projectID string) ([]*projects.Field, error) {
	return t.fields, nil
}

func (t *fakeTarget) CreateSingleSelectField(ctx context.Context, projectID, name string, options []string) (*projects.Field, error) {
	t.mutations++
	t.created = append(t.created, name)
	return t.addField("fld-"+name, name, options...), nil
}

func (t *fakeTarget) Items(ctx context.Context, owner string, number int) ([]*projects.Item, error) {
	out := make([]*projects.Item, len(t.items))
	copy(out, t.items)
	return out, nil
}

func (t *fakeTarget) AddItem(ctx context.Context, projectID, contentID string) (*projects.Item, error) {
	t.mutations++
	c, ok := t.byNodeID[contentID]
	if !ok {
		return nil, fmt.Errorf("unknown content %q", contentID)
	}
	t.nextItem++
	item := projects.NewItem(fmt.Sprintf("item-%d", t.nextItem), c)
	t.items = append(t.items, item)
	return item, nil
}

func (t *fakeTarget) RemoveItem(ctx context.Context, projectID, itemID string) error {
	t.mutations++
	if i := t.indexOf(itemID); i >= 0 {
		t.items = append(t.items[:i], t.items[i+1:]...)
	}
	return nil
}

func (t *fakeTarget) SetFieldValue(ctx context.Context, projectID, itemID string, field *projects.Field, value projects.Value) error {
	t.mutations++
	return nil
}

func (t *fakeTarget) ClearFieldValue(ctx context.Context, projectID, itemID, fieldID string) error {
	t.mutations++
	return nil
}

func (t *fakeTarget) SetPosition(ctx context.Context, projectID, itemID, afterID string) error {
	t.mutations++
	i := t.indexOf(itemID)
	if i < 0 {
		return fmt.Errorf("unknown item %q", itemID)
	}
	item := t.items[i]
	t.items = append(t.items[:i], t.items[i+1:]...)
	at := 0
	if afterID != "" {
		at = t.indexOf(afterID) + 1
	}
	t.items = append(t.items[:at], append([]*projects.Item{item}, t.items[at:]...)...)
	return nil
}

func (t *fakeTarget) IssueOrPullRequest(ctx context.Context, id projects.Identity) (*projects.Content, error) {
	c, ok := t.contents[id]
	if !ok {
		return nil, fmt.Errorf("no content at %s", id)
	}
	return c, nil
}

func (t *fakeTarget) UpdateBody(ctx context.Context, content *projects.Content, body string) error {
	t.mutations++
	t.contents[content.Identity].Body = body
	return nil
}

func ident(repo string, n int) projects.Identity {
	return projects.Identity{Owner: "acme", Repo: repo, Number: n}
}

func srcIssue(id string, key projects.Identity, title string) zenhub.Issue {
	return zenhub.Issue{ID: id, Identity: key, Title: title}
}

func board() (*fakeTarget, *projects.Field, *projects.Field) {
	target := newFakeTarget()
	status := target.addField("fld-status", "Status", "Todo", "In Progress", "Done")
	size := target.addField("fld-size", "Size", "XS", "S", "M", "L", "XL")
	return target, status, size
}

func devWorkspace(pipelines ...zenhub.Pipeline) zenhub.Workspace {
	return zenhub.Workspace{ID: "ws-1", Name: "Dev", Pipelines: pipelines}
}

func TestRunAddsItemsAndIsIdempotent(t *testing.T) {
	target, status, _ := board()
	a := target.addContent(ident("app", 1), "Issue A")
	b := target.addContent(ident("app", 2), "Issue B")
	c := target.addContent(ident("app", 3), "Issue C")

	estimate := 40.0
	issueA := srcIssue("z1", a.Identity, "Issue A")
	issueA.Estimate = &estimate
	source := &fakeSource{
		workspaces: []zenhub.Workspace{devWorkspace(
			zenhub.Pipeline{ID: "p1", Name: "Todo"},
			zenhub.Pipeline{ID: "p2", Name: "In Progress"},
		)},
		issues: map[string][]zenhub.Issue{
			"p1": {issueA},
			"p2": {srcIssue("z2", b.Identity, "Issue B"), srcIssue("z3", c.Identity, "Issue C")},
		},
	}

	r := New(source, target, WithProjectURL(target.project.URL))
	result, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, result.Added)
	assert.Equal(t, []string{"Issue A", "Issue B", "Issue C"}, target.order())

	// Statuses follow the pipelines.
	todo := status.OptionNamed("Todo")
	require.NotNil(t, todo)
	assert.Equal(t, todo.ID, target.items[0].Value(status.ID).OptionID)

	// Estimate 40 is the top of the story point scale and lands on the
	// first Size option.
	require.Contains(t, result.Conversions, "Size")
	assert.Equal(t, 1, result.Conversions["Size"][Conversion{From: "40", To: "XS"}])

	// Second run over converged state performs no mutations.
	target.mutations = 0
	result, err = r.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, target.mutations)
	assert.False(t, result.HasChanges())
}

func TestRunReordersExistingItems(t *testing.T) {
	target, status, _ := board()
	a := target.addContent(ident("app", 1), "Issue A")
	b := target.addContent(ident("app", 2), "Issue B")
	c := target.addContent(ident("app", 3), "Issue C")
	todo := status.OptionNamed("Todo")
	require.NotNil(t, todo)
	inTodo := map[string]projects.Value{status.ID: projects.OptionValue(todo.ID)}
	target.seedItem(c, inTodo)
	target.seedItem(a, inTodo)
	target.seedItem(b, inTodo)

	source := &fakeSource{
		workspaces: []zenhub.Workspace{devWorkspace(zenhub.Pipeline{ID: "p1", Name: "Todo"})},
		issues: map[string][]zenhub.Issue{
			"p1": {
				srcIssue("z1", a.Identity, "Issue A"),
				srcIssue("z2", b.Identity, "Issue B"),
				srcIssue("z3", c.Identity, "Issue C"),
			},
		},
	}

	r := New(source, target, WithProjectURL(target.project.URL))
	result, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Issue A", "Issue B", "Issue C"}, target.order())
	assert.Zero(t, result.Added)

	target.mutations = 0
	_, err = r.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, target.mutations, "converged board must not move")
}

func TestDuplicateIdentityMergedOnce(t *testing.T) {
	target, status, _ := board()
	a := target.addContent(ident("app", 1), "Issue A")

	source := &fakeSource{
		workspaces: []zenhub.Workspace{devWorkspace(
			zenhub.Pipeline{ID: "p1", Name: "Todo"},
			zenhub.Pipeline{ID: "p2", Name: "Done"},
		)},
		issues: map[string][]zenhub.Issue{
			"p1": {srcIssue("z1", a.Identity, "Issue A")},
			"p2": {srcIssue("z1-dup", a.Identity, "Issue A")},
		},
	}

	r := New(source, target, WithProjectURL(target.project.URL))
	result, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Added)
	require.Len(t, target.items, 1)

	// First mention wins: the item keeps the Todo status.
	todo := status.OptionNamed("Todo")
	assert.Equal(t, todo.ID, target.items[0].Value(status.ID).OptionID)
}

func TestPruneRemovesUnseenItems(t *testing.T) {
	target, status, _ := board()
	a := target.addContent(ident("app", 1), "Issue A")
	gone := target.addContent(ident("app", 9), "Issue Gone")
	todo := status.OptionNamed("Todo")
	inTodo := map[string]projects.Value{status.ID: projects.OptionValue(todo.ID)}
	target.seedItem(a, inTodo)
	target.seedItem(gone, inTodo)
	draft := projects.NewItem("item-draft", nil)
	target.items = append(target.items, draft)

	source := &fakeSource{
		workspaces: []zenhub.Workspace{devWorkspace(zenhub.Pipeline{ID: "p1", Name: "Todo"})},
		issues: map[string][]zenhub.Issue{
			"p1": {srcIssue("z1", a.Identity, "Issue A")},
		},
	}

	r := New(source, target, WithProjectURL(target.project.URL))
	result, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Removed)
	assert.Equal(t, []string{"Issue A", ""}, target.order(), "draft survives the prune")

	// With removal disabled the unseen item stays.
	target2, status2, _ := board()
	a2 := target2.addContent(ident("app", 1), "Issue A")
	gone2 := target2.addContent(ident("app", 9), "Issue Gone")
	todo2 := status2.OptionNamed("Todo")
	inTodo2 := map[string]projects.Value{status2.ID: projects.OptionValue(todo2.ID)}
	target2.seedItem(a2, inTodo2)
	target2.seedItem(gone2, inTodo2)

	r2 := New(source, target2,
		WithProjectURL(target2.project.URL),
		WithDisableRemove())
	result2, err := r2.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result2.Removed)
	assert.Len(t, target2.items, 2)
}

func TestLinkedPullRequestFoldedIntoBody(t *testing.T) {
	target, _, _ := board()
	a := target.addContent(ident("app", 1), "Issue A")
	pr := target.addContent(ident("app", 5), "PR five")
	require.True(t, pr.IsPullRequest())

	linked := zenhub.Issue{
		ID:            "z5",
		Identity:      pr.Identity,
		Title:         "PR five",
		IsPullRequest: true,
		Connections: []zenhub.IssueRef{
			{ID: "z1", Identity: a.Identity, URL: a.URL, Title: "Issue A"},
		},
	}
	source := &fakeSource{
		workspaces: []zenhub.Workspace{devWorkspace(zenhub.Pipeline{ID: "p1", Name: "Todo"})},
		issues:     map[string][]zenhub.Issue{"p1": {srcIssue("z1", a.Identity, "Issue A")}},
		prs:        map[string][]zenhub.Issue{"p1": {linked}},
	}

	r := New(source, target, WithProjectURL(target.project.URL))
	result, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Added, "the pull request stays off the board")
	assert.Equal(t, 1, result.SkippedLinkedPRs)
	assert.Equal(t, 1, result.TextUpdated)
	body := target.contents[pr.Identity].Body
	assert.Contains(t, body, "fixes acme/app#1")
	assert.Contains(t, body, "# Dependencies")

	// The body line survives a rerun untouched.
	target.mutations = 0
	_, err = r.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, target.mutations)
}

func TestFoldedPullRequestNeverRepositioned(t *testing.T) {
	target, status, _ := board()
	a := target.addContent(ident("app", 1), "Issue A")
	prFive := target.addContent(ident("app", 5), "PR five")
	prSix := target.addContent(ident("app", 6), "PR six")
	todo := status.OptionNamed("Todo")
	require.NotNil(t, todo)
	inTodo := map[string]projects.Value{status.ID: projects.OptionValue(todo.ID)}
	target.seedItem(prFive, inTodo)
	target.seedItem(prSix, inTodo)

	folded := zenhub.Issue{
		ID:            "z5",
		Identity:      prFive.Identity,
		Title:         "PR five",
		IsPullRequest: true,
		Connections: []zenhub.IssueRef{
			{ID: "z1", Identity: a.Identity, URL: a.URL, Title: "Issue A"},
		},
	}
	orphan := zenhub.Issue{ID: "z6", Identity: prSix.Identity, Title: "PR six", IsPullRequest: true}
	source := &fakeSource{
		workspaces: []zenhub.Workspace{devWorkspace(zenhub.Pipeline{ID: "p1", Name: "Todo"})},
		prs:        map[string][]zenhub.Issue{"p1": {folded, orphan}},
	}

	r := New(source, target,
		WithProjectURL(target.project.URL),
		WithDisableRemove())
	result, err := r.Run(context.Background())
	require.NoError(t, err)

	// The folded pull request keeps its board slot untouched and never
	// anchors ordering: the next item goes to the top of its column
	// rather than after it.
	assert.Equal(t, 1, result.SkippedLinkedPRs)
	assert.Equal(t, []string{"PR six", "PR five"}, target.order())
	assert.Equal(t, 2, target.mutations, "one move for PR six, one body write for PR five")

	target.mutations = 0
	_, err = r.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, target.mutations)
}

func TestKeepOrphanPRsRetainsBoardMembership(t *testing.T) {
	target, _, _ := board()
	a := target.addContent(ident("app", 1), "Issue A")
	pr := target.addContent(ident("app", 5), "PR five")

	linked := zenhub.Issue{
		ID:            "z5",
		Identity:      pr.Identity,
		IsPullRequest: true,
		Connections: []zenhub.IssueRef{
			{ID: "z1", Identity: a.Identity, URL: a.URL, Title: "Issue A"},
		},
	}
	source := &fakeSource{
		workspaces: []zenhub.Workspace{devWorkspace(zenhub.Pipeline{ID: "p1", Name: "Todo"})},
		issues:     map[string][]zenhub.Issue{"p1": {srcIssue("z1", a.Identity, "Issue A")}},
		prs:        map[string][]zenhub.Issue{"p1": {linked}},
	}

	r := New(source, target,
		WithProjectURL(target.project.URL),
		WithKeepOrphanPRs())
	result, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Added)
	assert.Zero(t, result.SkippedLinkedPRs)
}

func TestArchivedIssueSkipped(t *testing.T) {
	target, _, _ := board()
	a := target.addContent(ident("app", 1), "Issue A")
	a.Archived = true

	source := &fakeSource{
		workspaces: []zenhub.Workspace{devWorkspace(zenhub.Pipeline{ID: "p1", Name: "Todo"})},
		issues:     map[string][]zenhub.Issue{"p1": {srcIssue("z1", a.Identity, "Issue A")}},
	}

	r := New(source, target, WithProjectURL(target.project.URL))
	result, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Zero(t, result.Added)
	assert.Equal(t, 1, result.SkippedArchived)
	assert.Empty(t, target.items)
}

func TestWorkspaceFieldCreated(t *testing.T) {
	target, _, _ := board()
	a := target.addContent(ident("app", 1), "Issue A")

	source := &fakeSource{
		workspaces: []zenhub.Workspace{devWorkspace(zenhub.Pipeline{ID: "p1", Name: "Todo"})},
		issues:     map[string][]zenhub.Issue{"p1": {srcIssue("z1", a.Identity, "Issue A")}},
	}

	r := New(source, target,
		WithProjectURL(target.project.URL),
		WithMappings("Workspace:Workspace"))
	_, err := r.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, []string{"Workspace"}, target.created)
	created := target.fields[len(target.fields)-1]
	dev := created.OptionNamed("Dev")
	require.NotNil(t, dev)
	require.Len(t, target.items, 1)
	assert.Equal(t, dev.ID, target.items[0].Value(created.ID).OptionID)
}

func TestEpicTitlePropagatesToChildren(t *testing.T) {
	target, _, _ := board()
	epicContent := target.addContent(ident("app", 10), "Big feature")
	child := target.addContent(ident("app", 11), "Small step")
	epicField := target.addField("fld-epic", "Epic", "Big feature")

	// The child precedes the epic so it is already on the board when the
	// epic's title propagates.
	source := &fakeSource{
		workspaces: []zenhub.Workspace{devWorkspace(zenhub.Pipeline{ID: "p1", Name: "Todo"})},
		issues: map[string][]zenhub.Issue{
			"p1": {
				srcIssue("z11", child.Identity, "Small step"),
				srcIssue("z10", epicContent.Identity, "Big feature"),
			},
		},
		epics: map[string]zenhub.Epic{
			"z10": {ID: "epic-1", Issue: zenhub.IssueRef{ID: "z10", Identity: epicContent.Identity}},
		},
		epicIssues: map[string][]zenhub.IssueRef{
			"epic-1": {{ID: "z11", Identity: child.Identity, URL: child.URL, Title: "Small step"}},
		},
	}

	r := New(source, target,
		WithProjectURL(target.project.URL),
		WithMappings("Epic:Epic"))
	_, err := r.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, target.items, 2)
	var childItem *projects.Item
	for _, it := range target.items {
		if it.Key() == child.Identity {
			childItem = it
		}
	}
	require.NotNil(t, childItem)
	assert.Equal(t, epicField.Options[0].ID, childItem.Value(epicField.ID).OptionID)
}

func TestDryRunPerformsNoMutations(t *testing.T) {
	target, _, _ := board()
	a := target.addContent(ident("app", 1), "Issue A")

	source := &fakeSource{
		workspaces: []zenhub.Workspace{devWorkspace(zenhub.Pipeline{ID: "p1", Name: "Todo"})},
		issues:     map[string][]zenhub.Issue{"p1": {srcIssue("z1", a.Identity, "Issue A")}},
	}

	r := New(source, target,
		WithProjectURL(target.project.URL),
		WithDryRun())
	result, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Zero(t, target.mutations)
	assert.Empty(t, target.items)
	assert.Equal(t, 1, result.Added, "dry run still reports the work")
}

func TestWorkspaceExclusionSkipsSync(t *testing.T) {
	target, _, _ := board()
	a := target.addContent(ident("app", 1), "Issue A")

	source := &fakeSource{
		workspaces: []zenhub.Workspace{devWorkspace(zenhub.Pipeline{ID: "p1", Name: "Todo"})},
		issues:     map[string][]zenhub.Issue{"p1": {srcIssue("z1", a.Identity, "Issue A")}},
	}

	r := New(source, target,
		WithProjectURL(target.project.URL),
		WithExcludes("Workspace:Dev"),
		WithDisableRemove())
	result, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.Added)
	assert.Empty(t, target.items)
}
