package concurrency

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/harunnryd/pace/internal/logger"
)

// SafeGo runs fn in a goroutine tracked by wg. A panic inside fn is logged
// with its stack and handed to onPanic instead of crashing the process.
func SafeGo(ctx context.Context, wg *sync.WaitGroup, name string, fn func(), onPanic func(interface{})) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				slog.Error("Panic recovered", "routine", name, "panic", r, "stack", string(debug.Stack()), "trace_id", logger.GetTraceID(ctx))
				if onPanic != nil {
					onPanic(r)
				}
			}
		}()
		fn()
	}()
}
