// Package errors provides the error types used across projectsmigrator.
// The reconciler distinguishes fatal failures (initial board and workspace
// reads, credentials, unparsable project URLs) from item-scoped failures
// (a single mutation that can be reported and skipped), and these types
// carry that distinction.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Errorf formats an error, supporting the %w verb.
// It's an alias for the standard library fmt.Errorf for convenience.
var Errorf = fmt.Errorf

// Is reports whether any error in err's tree matches target.
var Is = errors.Is

// As finds the first error in err's tree that matches target.
var As = errors.As

// Common sentinel errors.
var (
	// ErrNotFound indicates that a requested resource was not found.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTokenRequired indicates that an API token is required but not provided.
	ErrTokenRequired = errors.New("API token required")

	// ErrRateLimited indicates that an API rate limit has been exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrTimeout indicates that an operation timed out.
	ErrTimeout = errors.New("operation timed out")

	// ErrUnavailable indicates that a remote system is temporarily unavailable.
	ErrUnavailable = errors.New("service unavailable")
)

// ValidationError represents a validation failure.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// APIError represents an error returned from one of the GraphQL APIs.
type APIError struct {
	System     string // "zenhub" or "github"
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error from %s (status %d): %s", e.System, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error from %s: %s", e.System, e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *APIError) Unwrap() error { return e.Err }

// Is implements errors.Is support.
func (e *APIError) Is(target error) bool {
	if e.StatusCode == 429 {
		return target == ErrRateLimited
	}
	if e.StatusCode >= 500 {
		return target == ErrUnavailable
	}
	return false
}

// AuthenticationError represents a credential failure against one of the
// external systems. Always fatal to the run.
type AuthenticationError struct {
	System  string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication error for %s: %s", e.System, e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *AuthenticationError) Unwrap() error { return e.Err }

// Is implements errors.Is support.
func (e *AuthenticationError) Is(target error) bool {
	return target == ErrTokenRequired
}

// ConfigError represents a configuration error such as a malformed mapping
// entry or an unparsable project URL.
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *ConfigError) Unwrap() error { return e.Err }

// ItemError represents a recoverable failure while reconciling a single
// item. The reconciler reports these and continues with the next item;
// they never abort the run.
type ItemError struct {
	Item string // "owner/repo#number"
	Step string // "add", "set-field", "reposition", "body", "remove"
	Err  error
}

// Error implements the error interface.
func (e *ItemError) Error() string {
	return fmt.Sprintf("item %s: %s failed: %v", e.Item, e.Step, e.Err)
}

// Unwrap implements errors.Unwrap.
func (e *ItemError) Unwrap() error { return e.Err }

// FatalError marks an error that must abort the run, regardless of the
// underlying type. The reconciler wraps initial-read failures with it.
type FatalError struct {
	Phase string // "read-project", "read-items", "read-workspaces", ...
	Err   error
}

// Error implements the error interface.
func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal during %s: %v", e.Phase, e.Err)
}

// Unwrap implements errors.Unwrap.
func (e *FatalError) Unwrap() error { return e.Err }

// IsFatal reports whether err carries a FatalError or an authentication
// failure anywhere in its tree.
func IsFatal(err error) bool {
	var fatal *FatalError
	if errors.As(err, &fatal) {
		return true
	}
	var auth *AuthenticationError
	return errors.As(err, &auth)
}

// WrapFatal wraps err as a FatalError for the given phase.
// Returns nil if err is nil.
func WrapFatal(phase string, err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Phase: phase, Err: err}
}

// WrapItem wraps err as an ItemError for the given item and step.
// Returns nil if err is nil.
func WrapItem(item, step string, err error) error {
	if err == nil {
		return nil
	}
	return &ItemError{Item: item, Step: step, Err: err}
}

// WrapAPI wraps err as an APIError for the given system.
func WrapAPI(system string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &APIError{System: system, StatusCode: statusCode, Message: err.Error(), Err: err}
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsRateLimited checks if an error is a rate limit error.
func IsRateLimited(err error) bool { return errors.Is(err, ErrRateLimited) }

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool { return errors.Is(err, ErrTimeout) }
