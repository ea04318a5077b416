package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextKeys(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, Document(ctx))
	assert.Empty(t, SessionID(ctx))

	ctx = WithDocument(ctx, "wf.cwl")
	ctx = WithSessionID(ctx, "abc-123")

	assert.Equal(t, "wf.cwl", Document(ctx))
	assert.Equal(t, "abc-123", SessionID(ctx))
}

func TestCorrelationHandlerInjectsIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewCorrelationHandler(slog.NewTextHandler(&buf, nil)))

	ctx := WithSessionID(WithDocument(context.Background(), "wf.cwl"), "abc-123")
	logger.InfoContext(ctx, "rendering")

	out := buf.String()
	assert.Contains(t, out, "document=wf.cwl")
	assert.Contains(t, out, "session_id=abc-123")
}

func TestCorrelationHandlerSkipsEmpty(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewCorrelationHandler(slog.NewTextHandler(&buf, nil)))

	logger.InfoContext(context.Background(), "no correlation")

	out := buf.String()
	assert.NotContains(t, out, "document=")
	assert.NotContains(t, out, "session_id=")
}
