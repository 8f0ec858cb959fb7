// Package projects defines the normalized domain types for the target
// GitHub Projects v2 board: content identities, projects, fields and their
// options, board items with field values, and the in-memory board that
// tracks per-status item ordering.
package projects

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pretagov/projectsmigrator/pkg/errors"
)

// Identity is the triple uniquely naming an issue or pull request across
// both systems.
type Identity struct {
	Owner  string
	Repo   string
	Number int
}

// String returns the identity in "owner/repo#number" form.
func (id Identity) String() string {
	return fmt.Sprintf("%s/%s#%d", id.Owner, id.Repo, id.Number)
}

// IsZero reports whether the identity is empty. Draft items have no
// linkable content and therefore a zero identity.
func (id Identity) IsZero() bool {
	return id.Owner == "" && id.Repo == "" && id.Number == 0
}

// ParseContentURL extracts an identity from an issue or pull request URL,
// e.g. "https://github.com/acme/widgets/issues/12".
func ParseContentURL(raw string) (Identity, error) {
	parts := strings.Split(raw, "/")
	// scheme, "", host, owner, repo, kind, number
	if len(parts) < 7 {
		return Identity{}, &errors.ValidationError{
			Field: "url", Value: raw, Message: "not an issue or pull request URL",
		}
	}
	kind := parts[5]
	if kind != "issues" && kind != "issue" && kind != "pull" {
		return Identity{}, &errors.ValidationError{
			Field: "url", Value: raw, Message: "not an issue or pull request URL",
		}
	}
	number, err := strconv.Atoi(parts[6])
	if err != nil {
		return Identity{}, &errors.ValidationError{
			Field: "url", Value: raw, Message: "invalid issue number",
		}
	}
	return Identity{Owner: parts[3], Repo: parts[4], Number: number}, nil
}

// ShortURL renders a GitHub content URL as "owner/repo#number", the compact
// form used in checklist lines.
func ShortURL(url string) string {
	s := strings.TrimPrefix(url, "https://github.com/")
	s = strings.Replace(s, "/issues/", "#", 1)
	s = strings.Replace(s, "/issue/", "#", 1)
	s = strings.Replace(s, "/pull/", "#", 1)
	return s
}

// SameOwner reports whether two logins name the same organization or user.
// GitHub logins are case-insensitive.
func SameOwner(a, b string) bool {
	return strings.EqualFold(a, b)
}
