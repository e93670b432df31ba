// Package logger builds the structured logger used by the long-running
// servers. The CLI does not log; it prints results.
package logger

import (
	"io"
	"log/slog"
	"strings"
	"time"
)

// ParseLevel maps a LOG_LEVEL value to a slog level. ok is false for
// unknown values, which map to info.
func ParseLevel(s string) (level slog.Level, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// New returns a JSON logger writing to w with RFC3339 timestamps.
func New(levelStr string, w io.Writer) *slog.Logger {
	level, ok := ParseLevel(levelStr)

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				if t, isTime := a.Value.Any().(time.Time); isTime {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}

	l := slog.New(slog.NewJSONHandler(w, opts))
	if !ok {
		l.Warn("invalid LOG_LEVEL, defaulting to info", "configured_level", levelStr)
	}
	return l
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
