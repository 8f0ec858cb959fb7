// Package transport provides the GraphQL-over-HTTP client shared by the
// ZenHub and GitHub API clients: bearer authentication, a per-call
// timeout, and decoding of the GraphQL response envelope.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pretagov/projectsmigrator/pkg/errors"
)

// DefaultTimeout bounds each external call when no timeout is configured.
const DefaultTimeout = 180 * time.Second

// Client executes GraphQL documents against one endpoint.
type Client struct {
	system   string // "zenhub" or "github", for error attribution
	endpoint string
	token    string
	auth     Authenticator
	http     *http.Client
}

// New creates a transport client for the given endpoint. A zero timeout
// falls back to DefaultTimeout.
func New(system, endpoint, token string, timeout time.Duration) (*Client, error) {
	if token == "" {
		return nil, &errors.AuthenticationError{
			System:  system,
			Message: "no API token configured",
			Err:     errors.ErrTokenRequired,
		}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		system:   system,
		endpoint: endpoint,
		token:    token,
		auth:     &BearerAuth{},
		http:     &http.Client{Timeout: timeout},
	}, nil
}

// NewUnauthenticated creates a transport client that sends no
// credentials, for endpoints that take none, such as a local replay
// server. A zero timeout falls back to DefaultTimeout.
func NewUnauthenticated(system, endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		system:   system,
		endpoint: endpoint,
		auth:     &NoAuth{},
		http:     &http.Client{Timeout: timeout},
	}
}

// request is the GraphQL request body.
type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// envelope is the GraphQL response body.
type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"errors"`
}

// Execute posts one GraphQL document and unmarshals the response data into
// out. GraphQL-level errors surface as APIError; credential rejections
// surface as AuthenticationError.
func (c *Client) Execute(ctx context.Context, query string, vars map[string]any, out any) error {
	payload, err := json.Marshal(request{Query: query, Variables: vars})
	if err != nil {
		return errors.WrapAPI(c.system, 0, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return errors.WrapAPI(c.system, 0, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	c.auth.Apply(req, c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return &errors.APIError{System: c.system, Message: "request timed out", Err: errors.ErrTimeout}
		}
		return errors.WrapAPI(c.system, 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapAPI(c.system, resp.StatusCode, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &errors.AuthenticationError{System: c.system, Message: strings.TrimSpace(string(body))}
	case resp.StatusCode != http.StatusOK:
		return &errors.APIError{System: c.system, StatusCode: resp.StatusCode, Message: string(body)}
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return errors.WrapAPI(c.system, resp.StatusCode, err)
	}
	if len(env.Errors) > 0 {
		msgs := make([]string, len(env.Errors))
		for i, e := range env.Errors {
			msgs[i] = e.Message
		}
		return &errors.APIError{System: c.system, Message: strings.Join(msgs, "; ")}
	}
	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return errors.WrapAPI(c.system, resp.StatusCode, err)
		}
	}
	return nil
}

// isTimeout reports whether err is a deadline or transport timeout.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
