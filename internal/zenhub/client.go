// Package zenhub implements the workspace reader against the ZenHub
// public GraphQL API.
package zenhub

import (
	"context"
	"strconv"
	"time"

	"github.com/pretagov/projectsmigrator/internal/transport"
	"github.com/pretagov/projectsmigrator/pkg/logging"
	"github.com/pretagov/projectsmigrator/pkg/projects"
	"github.com/pretagov/projectsmigrator/pkg/zenhub"
)

// DefaultEndpoint is the ZenHub public GraphQL endpoint.
const DefaultEndpoint = "https://api.zenhub.com/public/graphql"

// Client reads workspaces, pipelines and issue relationships.
type Client struct {
	gql *transport.Client
}

// New creates a ZenHub client. The token is a ZenHub personal API key.
func New(endpoint, token string, timeout time.Duration) (*Client, error) {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	gql, err := transport.New("zenhub", endpoint, token, timeout)
	if err != nil {
		return nil, err
	}
	return &Client{gql: gql}, nil
}

type pageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

type wirePipeline struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type wireWorkspace struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Pipelines []wirePipeline `json:"pipelines"`
}

type wireRepo struct {
	Name  string `json:"name"`
	Owner struct {
		Login string `json:"login"`
	} `json:"owner"`
}

type wireIssue struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Number        int    `json:"number"`
	PullRequest   bool   `json:"pullRequest"`
	PipelineIssue *struct {
		Priority *struct {
			Name string `json:"name"`
		} `json:"priority"`
	} `json:"pipelineIssue"`
	Repository wireRepo `json:"repository"`
	Estimate   *struct {
		Value float64 `json:"value"`
	} `json:"estimate"`
	Sprints struct {
		Nodes []struct {
			Name string `json:"name"`
		} `json:"nodes"`
	} `json:"sprints"`
	Connections struct {
		Nodes []wireConnection `json:"nodes"`
	} `json:"connections"`
}

type wireConnection struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Number     int      `json:"number"`
	Repository wireRepo `json:"repository"`
}

// wireRef is an issue reference carrying its GitHub URL, used for
// epics and dependencies where ZenHub reports htmlUrl directly.
type wireRef struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Number  int    `json:"number"`
	HTMLURL string `json:"htmlUrl"`
}

func (w wireRef) ref() zenhub.IssueRef {
	id, err := projects.ParseContentURL(w.HTMLURL)
	if err != nil {
		logging.Warn().Str("url", w.HTMLURL).Msg("unparseable issue url")
	}
	return zenhub.IssueRef{ID: w.ID, Identity: id, URL: w.HTMLURL, Title: w.Title}
}

func (w wireIssue) issue() zenhub.Issue {
	out := zenhub.Issue{
		ID: w.ID,
		Identity: projects.Identity{
			Owner:  w.Repository.Owner.Login,
			Repo:   w.Repository.Name,
			Number: w.Number,
		},
		Title:         w.Title,
		IsPullRequest: w.PullRequest,
	}
	if w.PipelineIssue != nil && w.PipelineIssue.Priority != nil {
		out.Priority = w.PipelineIssue.Priority.Name
	}
	if w.Estimate != nil {
		v := w.Estimate.Value
		out.Estimate = &v
	}
	for _, s := range w.Sprints.Nodes {
		out.Sprints = append(out.Sprints, s.Name)
	}
	for _, c := range w.Connections.Nodes {
		id := projects.Identity{
			Owner:  c.Repository.Owner.Login,
			Repo:   c.Repository.Name,
			Number: c.Number,
		}
		out.Connections = append(out.Connections, zenhub.IssueRef{
			ID:       c.ID,
			Identity: id,
			URL:      "https://github.com/" + id.Owner + "/" + id.Repo + "/issues/" + strconv.Itoa(id.Number),
			Title:    c.Title,
		})
	}
	return out
}

// Workspaces lists the workspaces visible to the token, draining
// pagination, most recently viewed first.
func (c *Client) Workspaces(ctx context.Context) ([]zenhub.Workspace, error) {
	var out []zenhub.Workspace
	cursor := ""
	for {
		var resp struct {
			RecentlyViewedWorkspaces struct {
				PageInfo pageInfo        `json:"pageInfo"`
				Nodes    []wireWorkspace `json:"nodes"`
			} `json:"recentlyViewedWorkspaces"`
		}
		if err := c.gql.Execute(ctx, queryWorkspaces, after(cursor), &resp); err != nil {
			return nil, err
		}
		for _, w := range resp.RecentlyViewedWorkspaces.Nodes {
			ws := zenhub.Workspace{ID: w.ID, Name: w.Name}
			for _, p := range w.Pipelines {
				ws.Pipelines = append(ws.Pipelines, zenhub.Pipeline{ID: p.ID, Name: p.Name})
			}
			out = append(out, ws)
		}
		page := resp.RecentlyViewedWorkspaces.PageInfo
		if !page.HasNextPage {
			return out, nil
		}
		cursor = page.EndCursor
	}
}

// Issues returns the issues of one pipeline in board order.
func (c *Client) Issues(ctx context.Context, workspaceID, pipelineID string) ([]zenhub.Issue, error) {
	return c.search(ctx, queryIssues, workspaceID, pipelineID)
}

// PullRequests returns the pull requests of one pipeline in board
// order, each with its connected issues.
func (c *Client) PullRequests(ctx context.Context, workspaceID, pipelineID string) ([]zenhub.Issue, error) {
	return c.search(ctx, queryPulls, workspaceID, pipelineID)
}

func (c *Client) search(ctx context.Context, query, workspaceID, pipelineID string) ([]zenhub.Issue, error) {
	var out []zenhub.Issue
	cursor := ""
	for {
		vars := after(cursor)
		vars["pipelineId"] = pipelineID
		vars["workspaceId"] = workspaceID
		var resp struct {
			SearchIssuesByPipeline struct {
				PageInfo pageInfo    `json:"pageInfo"`
				Nodes    []wireIssue `json:"nodes"`
			} `json:"searchIssuesByPipeline"`
		}
		if err := c.gql.Execute(ctx, query, vars, &resp); err != nil {
			return nil, err
		}
		for _, n := range resp.SearchIssuesByPipeline.Nodes {
			out = append(out, n.issue())
		}
		page := resp.SearchIssuesByPipeline.PageInfo
		if !page.HasNextPage {
			return out, nil
		}
		cursor = page.EndCursor
	}
}

// Epics maps ZenHub issue IDs to the epics those issues represent.
func (c *Client) Epics(ctx context.Context, workspaceID string) (map[string]zenhub.Epic, error) {
	var resp struct {
		Workspace struct {
			Epics struct {
				Nodes []struct {
					ID    string  `json:"id"`
					Issue wireRef `json:"issue"`
				} `json:"nodes"`
			} `json:"epics"`
		} `json:"workspace"`
	}
	vars := map[string]any{"workspaceId": workspaceID}
	if err := c.gql.Execute(ctx, queryEpics, vars, &resp); err != nil {
		return nil, err
	}
	out := make(map[string]zenhub.Epic)
	for _, n := range resp.Workspace.Epics.Nodes {
		out[n.Issue.ID] = zenhub.Epic{ID: n.ID, Issue: n.Issue.ref()}
	}
	return out, nil
}

// EpicIssues lists the child issues of one epic.
func (c *Client) EpicIssues(ctx context.Context, epicID string) ([]zenhub.IssueRef, error) {
	var resp struct {
		Node struct {
			ChildIssues struct {
				Nodes []wireRef `json:"nodes"`
			} `json:"childIssues"`
		} `json:"node"`
	}
	vars := map[string]any{"epicId": epicID}
	if err := c.gql.Execute(ctx, queryEpicIssues, vars, &resp); err != nil {
		return nil, err
	}
	var out []zenhub.IssueRef
	for _, n := range resp.Node.ChildIssues.Nodes {
		out = append(out, n.ref())
	}
	return out, nil
}

// Dependencies maps blocked ZenHub issue IDs to their blocking issues.
func (c *Client) Dependencies(ctx context.Context, workspaceID string) (map[string][]zenhub.IssueRef, error) {
	var resp struct {
		Workspace struct {
			IssueDependencies struct {
				Nodes []struct {
					BlockedIssue  wireRef `json:"blockedIssue"`
					BlockingIssue wireRef `json:"blockingIssue"`
				} `json:"nodes"`
			} `json:"issueDependencies"`
		} `json:"workspace"`
	}
	vars := map[string]any{"workspaceId": workspaceID}
	if err := c.gql.Execute(ctx, queryDependencies, vars, &resp); err != nil {
		return nil, err
	}
	out := make(map[string][]zenhub.IssueRef)
	seen := make(map[[2]string]bool)
	for _, n := range resp.Workspace.IssueDependencies.Nodes {
		// The API repeats an edge per dependency record; one blocking
		// reference per pair is enough.
		key := [2]string{n.BlockedIssue.ID, n.BlockingIssue.ID}
		if seen[key] {
			continue
		}
		seen[key] = true
		out[n.BlockedIssue.ID] = append(out[n.BlockedIssue.ID], n.BlockingIssue.ref())
	}
	return out, nil
}

func after(cursor string) map[string]any {
	vars := map[string]any{}
	if cursor != "" {
		vars["after"] = cursor
	}
	return vars
}
