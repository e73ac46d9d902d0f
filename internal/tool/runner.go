package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	paceErrors "github.com/harunnryd/pace/internal/errors"
	"github.com/harunnryd/pace/internal/logger"
)

// Runner resolves tools by name, checks their input and times each call.
type Runner struct {
	registry *Registry
}

func NewRunner(registry *Registry) *Runner {
	return &Runner{registry: registry}
}

func (r *Runner) GetDescriptors() []ToolDescriptor {
	if r == nil || r.registry == nil {
		return nil
	}
	return r.registry.GetDescriptors()
}

// IsDirect reports whether the named tool replies to the user directly.
func (r *Runner) IsDirect(toolName string) bool {
	if r == nil || r.registry == nil {
		return false
	}
	t, ok := r.registry.Get(toolName)
	return ok && IsDirect(t)
}

func (r *Runner) Execute(ctx context.Context, toolName string, input json.RawMessage) (json.RawMessage, error) {
	t, ok := r.registry.Get(toolName)
	if !ok {
		return nil, paceErrors.NotFound(fmt.Sprintf("tool %s not found", NormalizeToolName(toolName)))
	}
	name := NormalizeToolName(t.Name())

	if trimmed := bytes.TrimSpace(input); len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		input = json.RawMessage(`{}`)
	}
	if err := ValidateInput(t.Parameters(), input); err != nil {
		slog.Warn("Tool input validation failed", "tool", name, "error", err)
		return nil, paceErrors.Wrap(paceErrors.ErrInvalidInput, err.Error())
	}

	start := time.Now()
	traceID := logger.GetTraceID(ctx)
	slog.Debug("Executing tool", "tool", name, "trace_id", traceID)

	result, err := t.Execute(ctx, input)

	duration := time.Since(start)
	if err != nil {
		slog.Error("Tool execution failed", "tool", name, "error", err, "duration", duration, "trace_id", traceID)
		if errors.Is(err, ErrToolUnavailable) {
			return nil, err
		}
		return nil, paceErrors.Wrap(err, "tool execution")
	}

	slog.Info("Tool execution success", "tool", name, "duration", duration, "trace_id", traceID)
	return result, nil
}
