// Package github implements the board reader and writer against the
// GitHub GraphQL API, covering organization Projects v2.
package github

import (
	"context"
	"time"

	"github.com/pretagov/projectsmigrator/internal/transport"
	"github.com/pretagov/projectsmigrator/pkg/errors"
	"github.com/pretagov/projectsmigrator/pkg/projects"
)

// DefaultEndpoint is the GitHub GraphQL endpoint.
const DefaultEndpoint = "https://api.github.com/graphql"

// Client reads and mutates one organization project board.
type Client struct {
	gql *transport.Client
}

// New creates a GitHub client. The token needs the project and repo
// scopes.
func New(endpoint, token string, timeout time.Duration) (*Client, error) {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	gql, err := transport.New("github", endpoint, token, timeout)
	if err != nil {
		return nil, err
	}
	return &Client{gql: gql}, nil
}

type pageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

type wireRepo struct {
	Name       string  `json:"name"`
	ArchivedAt *string `json:"archivedAt"`
	Owner      struct {
		Login string `json:"login"`
	} `json:"owner"`
}

type wireContent struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	URL        string   `json:"url"`
	Number     int      `json:"number"`
	Body       string   `json:"body"`
	Repository wireRepo `json:"repository"`
}

func (w *wireContent) content() *projects.Content {
	return &projects.Content{
		ID: w.ID,
		Identity: projects.Identity{
			Owner:  w.Repository.Owner.Login,
			Repo:   w.Repository.Name,
			Number: w.Number,
		},
		Title:    w.Title,
		URL:      w.URL,
		Body:     w.Body,
		Archived: w.Repository.ArchivedAt != nil,
	}
}

// wireFieldValue is the flattened union of the field value types the
// board read asks for. Pointer members distinguish absent union arms
// from zero values.
type wireFieldValue struct {
	Field *struct {
		ID string `json:"id"`
	} `json:"field"`
	OptionID     *string  `json:"optionId"`
	Text         *string  `json:"text"`
	Number       *float64 `json:"number"`
	PullRequests *struct {
		Nodes []struct {
			URL string `json:"url"`
		} `json:"nodes"`
	} `json:"pullRequests"`
}

func (w wireFieldValue) value() (string, projects.Value, bool) {
	if w.Field == nil {
		return "", projects.Value{}, false
	}
	switch {
	case w.OptionID != nil:
		return w.Field.ID, projects.OptionValue(*w.OptionID), true
	case w.Text != nil:
		return w.Field.ID, projects.TextValue(*w.Text), true
	case w.Number != nil:
		return w.Field.ID, projects.NumberValue(*w.Number), true
	case w.PullRequests != nil:
		v := projects.Value{Kind: projects.ValuePullRequests}
		for _, n := range w.PullRequests.Nodes {
			v.PullRequests = append(v.PullRequests, n.URL)
		}
		return w.Field.ID, v, true
	default:
		return "", projects.Value{}, false
	}
}

type wireItem struct {
	ID          string       `json:"id"`
	Content     *wireContent `json:"content"`
	FieldValues struct {
		Nodes []wireFieldValue `json:"nodes"`
	} `json:"fieldValues"`
}

func (w *wireItem) item() *projects.Item {
	var content *projects.Content
	// Draft items come back with an empty content object.
	if w.Content != nil && w.Content.ID != "" {
		content = w.Content.content()
	}
	item := projects.NewItem(w.ID, content)
	for _, fv := range w.FieldValues.Nodes {
		if fieldID, v, ok := fv.value(); ok {
			item.SetValue(fieldID, v)
		}
	}
	return item
}

type wireField struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	DataType string `json:"dataType"`
	Options  []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"options"`
}

func (w wireField) field() *projects.Field {
	f := &projects.Field{ID: w.ID, Name: w.Name, DataType: w.DataType}
	for _, o := range w.Options {
		f.Options = append(f.Options, projects.Option{ID: o.ID, Name: o.Name})
	}
	return f
}

// Project resolves an organization project by owner login and number.
func (c *Client) Project(ctx context.Context, owner string, number int) (*projects.Project, error) {
	var resp struct {
		Organization struct {
			ProjectV2 *struct {
				ID     string `json:"id"`
				Title  string `json:"title"`
				URL    string `json:"url"`
				Number int    `json:"number"`
				Owner  struct {
					Login string `json:"login"`
				} `json:"owner"`
			} `json:"projectV2"`
		} `json:"organization"`
	}
	vars := map[string]any{"login": owner, "number": number}
	if err := c.gql.Execute(ctx, queryProject, vars, &resp); err != nil {
		return nil, err
	}
	p := resp.Organization.ProjectV2
	if p == nil {
		return nil, errors.Errorf("project %s/%d: %w", owner, number, errors.ErrNotFound)
	}
	login := p.Owner.Login
	if login == "" {
		login = owner
	}
	return &projects.Project{
		ID:     p.ID,
		Number: p.Number,
		Title:  p.Title,
		Owner:  login,
		URL:    p.URL,
	}, nil
}

// Fields lists the project's fields with their select options.
func (c *Client) Fields(ctx context.Context, projectID string) ([]*projects.Field, error) {
	var resp struct {
		Node struct {
			Fields struct {
				Nodes []wireField `json:"nodes"`
			} `json:"fields"`
		} `json:"node"`
	}
	vars := map[string]any{"projectId": projectID}
	if err := c.gql.Execute(ctx, queryFields, vars, &resp); err != nil {
		return nil, err
	}
	out := make([]*projects.Field, 0, len(resp.Node.Fields.Nodes))
	for _, f := range resp.Node.Fields.Nodes {
		if f.ID == "" {
			continue
		}
		out = append(out, f.field())
	}
	return out, nil
}

// CreateSingleSelectField adds a single-select field with gray options
// named after the given values.
func (c *Client) CreateSingleSelectField(ctx context.Context, projectID, name string, options []string) (*projects.Field, error) {
	opts := make([]map[string]any, len(options))
	for i, o := range options {
		opts[i] = map[string]any{"name": o, "color": "GRAY", "description": ""}
	}
	var resp struct {
		CreateProjectV2Field struct {
			ProjectV2Field wireField `json:"projectV2Field"`
		} `json:"createProjectV2Field"`
	}
	vars := map[string]any{"projectId": projectID, "name": name, "options": opts}
	if err := c.gql.Execute(ctx, mutationCreateField, vars, &resp); err != nil {
		return nil, err
	}
	return resp.CreateProjectV2Field.ProjectV2Field.field(), nil
}

// Items returns every board item in position order, fully drained.
func (c *Client) Items(ctx context.Context, owner string, number int) ([]*projects.Item, error) {
	var out []*projects.Item
	cursor := ""
	for {
		vars := map[string]any{"login": owner, "number": number}
		if cursor != "" {
			vars["cursor"] = cursor
		}
		var resp struct {
			Organization struct {
				ProjectV2 struct {
					Items struct {
						PageInfo pageInfo   `json:"pageInfo"`
						Nodes    []wireItem `json:"nodes"`
					} `json:"items"`
				} `json:"projectV2"`
			} `json:"organization"`
		}
		if err := c.gql.Execute(ctx, queryItems, vars, &resp); err != nil {
			return nil, err
		}
		for i := range resp.Organization.ProjectV2.Items.Nodes {
			out = append(out, resp.Organization.ProjectV2.Items.Nodes[i].item())
		}
		page := resp.Organization.ProjectV2.Items.PageInfo
		if !page.HasNextPage {
			return out, nil
		}
		cursor = page.EndCursor
	}
}

// AddItem places existing content on the board.
func (c *Client) AddItem(ctx context.Context, projectID, contentID string) (*projects.Item, error) {
	var resp struct {
		AddProjectV2ItemByID struct {
			Item wireItem `json:"item"`
		} `json:"addProjectV2ItemById"`
	}
	vars := map[string]any{"projectId": projectID, "contentId": contentID}
	if err := c.gql.Execute(ctx, mutationAddItem, vars, &resp); err != nil {
		return nil, err
	}
	return resp.AddProjectV2ItemByID.Item.item(), nil
}

// RemoveItem deletes an item from the board.
func (c *Client) RemoveItem(ctx context.Context, projectID, itemID string) error {
	vars := map[string]any{"projectId": projectID, "itemId": itemID}
	return c.gql.Execute(ctx, mutationDeleteItem, vars, nil)
}

// SetFieldValue writes a text, number or single-select value, choosing
// the mutation by the value's kind.
func (c *Client) SetFieldValue(ctx context.Context, projectID, itemID string, field *projects.Field, value projects.Value) error {
	vars := map[string]any{"projectId": projectID, "itemId": itemID, "fieldId": field.ID}
	var doc string
	switch value.Kind {
	case projects.ValueOption:
		doc = mutationSetOption
		vars["value"] = value.OptionID
	case projects.ValueNumber:
		doc = mutationSetNumber
		vars["value"] = value.Number
	case projects.ValueText:
		doc = mutationSetText
		vars["value"] = value.Text
	default:
		return errors.Errorf("field %q: unsettable value kind: %w", field.Name, errors.ErrInvalidInput)
	}
	return c.gql.Execute(ctx, doc, vars, nil)
}

// ClearFieldValue unsets a field on an item.
func (c *Client) ClearFieldValue(ctx context.Context, projectID, itemID, fieldID string) error {
	vars := map[string]any{"projectId": projectID, "itemId": itemID, "fieldId": fieldID}
	return c.gql.Execute(ctx, mutationClearValue, vars, nil)
}

// SetPosition moves an item directly after another, or to the top of
// the board when afterID is empty.
func (c *Client) SetPosition(ctx context.Context, projectID, itemID, afterID string) error {
	vars := map[string]any{"projectId": projectID, "itemId": itemID}
	if afterID != "" {
		vars["afterId"] = afterID
	}
	return c.gql.Execute(ctx, mutationSetPosition, vars, nil)
}

// IssueOrPullRequest fetches content, including its body, by
// repository coordinates.
func (c *Client) IssueOrPullRequest(ctx context.Context, id projects.Identity) (*projects.Content, error) {
	var resp struct {
		Repository struct {
			IssueOrPullRequest *wireContent `json:"issueOrPullRequest"`
		} `json:"repository"`
	}
	vars := map[string]any{"owner": id.Owner, "repo": id.Repo, "number": id.Number}
	if err := c.gql.Execute(ctx, queryIssueOrPullRequest, vars, &resp); err != nil {
		return nil, err
	}
	if resp.Repository.IssueOrPullRequest == nil {
		return nil, errors.Errorf("%s: %w", id, errors.ErrNotFound)
	}
	return resp.Repository.IssueOrPullRequest.content(), nil
}

// UpdateBody rewrites the body of an issue or pull request, picking
// the mutation by content type.
func (c *Client) UpdateBody(ctx context.Context, content *projects.Content, body string) error {
	doc := mutationUpdateIssueBody
	if content.IsPullRequest() {
		doc = mutationUpdatePullBody
	}
	vars := map[string]any{"id": content.ID, "body": body}
	return c.gql.Execute(ctx, doc, vars, nil)
}
