// Package logger sets up structured logging with log/slog.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const service = "stocklens"

// New creates a logger writing to stderr and installs it as the slog default.
// format is "json" or "text" (anything else means text).
func New(level, format string) *slog.Logger {
	l := NewWithWriter(os.Stderr, level, format)
	slog.SetDefault(l)
	return l
}

// NewWithWriter is New without touching the default logger.
func NewWithWriter(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler).With(slog.String("service", service))
}

// ParseLevel converts debug|info|warn|error to a slog.Level. Unknown → info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
