// Package logging builds the structured loggers used by the futility CLI.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// New creates a text logger writing to w at the given level.
// It standardizes common keys (e.g., "error" -> "err").
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}))
}

// NewNop returns a logger that drops every record at every level.
func NewNop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ParseLevel maps debug, info, warn and error (case-insensitive) to a
// slog level. An empty string means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}
