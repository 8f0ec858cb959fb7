// Package reconciler drives a one-pass reconciliation of ZenHub
// workspaces onto a GitHub Projects v2 board. It reads the full board
// and workspace state up front, then walks every pipeline issue in
// reading order, converging board membership, field values, relative
// position and relationship text toward the workspace state. A second
// run over unchanged inputs performs zero mutations.
package reconciler

import (
	"context"

	"github.com/pretagov/projectsmigrator/pkg/projects"
	"github.com/pretagov/projectsmigrator/pkg/zenhub"
)

// Source reads workspaces, pipeline contents and issue relationships
// from ZenHub.
type Source interface {
	// Workspaces lists the workspaces visible to the token, most
	// recently viewed first.
	Workspaces(ctx context.Context) ([]zenhub.Workspace, error)

	// Issues returns the issues of one pipeline in board order.
	Issues(ctx context.Context, workspaceID, pipelineID string) ([]zenhub.Issue, error)

	// PullRequests returns the pull requests of one pipeline in board
	// order, each carrying its connected issues.
	PullRequests(ctx context.Context, workspaceID, pipelineID string) ([]zenhub.Issue, error)

	// Epics maps ZenHub issue IDs to the epics those issues represent.
	Epics(ctx context.Context, workspaceID string) (map[string]zenhub.Epic, error)

	// EpicIssues lists the child issues of an epic.
	EpicIssues(ctx context.Context, epicID string) ([]zenhub.IssueRef, error)

	// Dependencies maps blocked issue IDs to their blocking issues.
	Dependencies(ctx context.Context, workspaceID string) (map[string][]zenhub.IssueRef, error)
}

// Target reads and mutates a GitHub Projects v2 board. Reads drain
// pagination fully so that the reconciler sees a stable board order.
type Target interface {
	// Project resolves an organization project by owner and number.
	Project(ctx context.Context, owner string, number int) (*projects.Project, error)

	// Fields lists the project's fields with their select options.
	Fields(ctx context.Context, projectID string) ([]*projects.Field, error)

	// CreateSingleSelectField adds a single-select field with the given
	// option names and returns the created field.
	CreateSingleSelectField(ctx context.Context, projectID, name string, options []string) (*projects.Field, error)

	// Items returns every board item in position order, fully drained.
	Items(ctx context.Context, owner string, number int) ([]*projects.Item, error)

	// AddItem places existing content on the board and returns the new
	// item with its current field values.
	AddItem(ctx context.Context, projectID, contentID string) (*projects.Item, error)

	// RemoveItem deletes an item from the board. The underlying issue
	// or pull request is untouched.
	RemoveItem(ctx context.Context, projectID, itemID string) error

	// SetFieldValue writes a text, number or single-select value.
	SetFieldValue(ctx context.Context, projectID, itemID string, field *projects.Field, value projects.Value) error

	// ClearFieldValue unsets a field on an item.
	ClearFieldValue(ctx context.Context, projectID, itemID, fieldID string) error

	// SetPosition moves an item directly after another. An empty
	// afterID moves it to the top of the board.
	SetPosition(ctx context.Context, projectID, itemID, afterID string) error

	// IssueOrPullRequest fetches content by repository coordinates.
	IssueOrPullRequest(ctx context.Context, id projects.Identity) (*projects.Content, error)

	// UpdateBody rewrites the body text of an issue or pull request.
	UpdateBody(ctx context.Context, content *projects.Content, body string) error
}
