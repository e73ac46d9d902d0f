package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func Setup(level string) {
	SetupWriter(os.Stderr, level)
}

func SetupWriter(w io.Writer, level string) {
	handler := tint.NewHandler(w, &tint.Options{
		Level:      ParseLevel(level),
		TimeFormat: time.TimeOnly,
	})

	slog.SetDefault(slog.New(handler))
}
