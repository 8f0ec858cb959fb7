package transport

import "net/http"

// Authenticator applies authentication to HTTP requests.
type Authenticator interface {
	Apply(req *http.Request, token string)
}

// NoAuth implements no authentication.
type NoAuth struct{}

// Apply implements the Authenticator interface for NoAuth.
func (a *NoAuth) Apply(_ *http.Request, _ string) {
	// No authentication applied
}

// BearerAuth implements Bearer token authentication. Both ZenHub and
// GitHub GraphQL endpoints take a bearer token.
type BearerAuth struct{}

// Apply implements the Authenticator interface for BearerAuth.
func (a *BearerAuth) Apply(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
}
