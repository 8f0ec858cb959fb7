package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestAPIErrorIs(t *testing.T) {
	tests := []struct {
		name   string
		err    *APIError
		target error
		want   bool
	}{
		{"rate limited", &APIError{System: "github", StatusCode: 429}, ErrRateLimited, true},
		{"server error", &APIError{System: "zenhub", StatusCode: 503}, ErrUnavailable, true},
		{"client error is neither", &APIError{System: "github", StatusCode: 404}, ErrRateLimited, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.want {
				t.Errorf("errors.Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsFatal(t *testing.T) {
	itemErr := WrapItem("acme/widgets#12", "set-field", errors.New("boom"))
	if IsFatal(itemErr) {
		t.Error("item-scoped error should not be fatal")
	}

	fatal := WrapFatal("read-items", errors.New("boom"))
	if !IsFatal(fatal) {
		t.Error("FatalError should be fatal")
	}

	wrapped := fmt.Errorf("run failed: %w", fatal)
	if !IsFatal(wrapped) {
		t.Error("wrapped FatalError should still be fatal")
	}

	auth := &AuthenticationError{System: "zenhub", Message: "bad token"}
	if !IsFatal(auth) {
		t.Error("authentication failure should be fatal")
	}
}

func TestWrapHelpersNilPassthrough(t *testing.T) {
	if WrapFatal("read-project", nil) != nil {
		t.Error("WrapFatal(nil) should be nil")
	}
	if WrapItem("a/b#1", "add", nil) != nil {
		t.Error("WrapItem(nil) should be nil")
	}
	if WrapAPI("github", 200, nil) != nil {
		t.Error("WrapAPI(nil) should be nil")
	}
}

func TestItemErrorUnwrap(t *testing.T) {
	cause := ErrTimeout
	err := WrapItem("acme/widgets#7", "reposition", cause)
	if !errors.Is(err, ErrTimeout) {
		t.Error("ItemError should unwrap to its cause")
	}
	var ie *ItemError
	if !errors.As(err, &ie) || ie.Step != "reposition" {
		t.Errorf("errors.As failed to recover ItemError, got %+v", ie)
	}
}
