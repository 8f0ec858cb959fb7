package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestFromContextFallsBackToDefault(t *testing.T) {
	if FromContext(context.Background()) != Default() {
		t.Error("expected default logger for empty context")
	}
	var nilCtx context.Context
	if FromContext(nilCtx) != Default() {
		t.Error("expected default logger for nil context")
	}
}

func TestWithLoggerRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf)
	ctx := WithLogger(context.Background(), &logger)

	Ctx(ctx).Info().Msg("hello")
	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("log output missing message: %q", buf.String())
	}
}

func TestWithWorkspaceAddsField(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf)
	ctx := WithLogger(context.Background(), &logger)
	ctx = WithWorkspace(ctx, "Support")

	Ctx(ctx).Info().Msg("merging")
	out := buf.String()
	if !strings.Contains(out, `"workspace":"Support"`) {
		t.Errorf("log output missing workspace field: %q", out)
	}
}
