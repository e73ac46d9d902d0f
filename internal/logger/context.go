package logger

import (
	"context"

	"github.com/oklog/ulid/v2"
)

type contextKey string

const TraceIDKey contextKey = "trace_id"

func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, TraceIDKey, id)
}

// EnsureTraceID returns ctx unchanged when it already carries a trace id,
// otherwise it attaches a fresh ULID.
func EnsureTraceID(ctx context.Context) context.Context {
	if GetTraceID(ctx) != "" {
		return ctx
	}
	return WithTraceID(ctx, ulid.Make().String())
}

func GetTraceID(ctx context.Context) string {
	if id, ok := ctx.Value(TraceIDKey).(string); ok {
		return id
	}
	return ""
}
