package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel(" WARN "))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestSetupWriter_FiltersBelowLevel(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	SetupWriter(&buf, "warn")

	slog.Info("hidden")
	slog.Warn("shown", "tool", "get_gps_position")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "get_gps_position")
}

func TestEnsureTraceID(t *testing.T) {
	ctx := EnsureTraceID(context.Background())
	id := GetTraceID(ctx)
	assert.Len(t, id, 26)

	assert.Equal(t, id, GetTraceID(EnsureTraceID(ctx)))
	assert.Equal(t, "fixed", GetTraceID(EnsureTraceID(WithTraceID(context.Background(), "fixed"))))
}
