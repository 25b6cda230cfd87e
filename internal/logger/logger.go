// Package logger installs the process-wide slog handler.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// ParseLevel maps debug|info|warn|error to a slog level. ok is false for
// anything else, in which case the level is info.
func ParseLevel(s string) (slog.Level, bool) {
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

// New builds a logger writing to w. JSON output is used when json is set,
// text otherwise. Times are formatted as RFC3339.
func New(w io.Writer, level slog.Level, json bool) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.Format(time.RFC3339))
				}
			}
			return a
		},
	}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Init installs a stderr logger at the given level as the slog default.
func Init(level string, json bool) *slog.Logger {
	lvl, ok := ParseLevel(level)
	l := New(os.Stderr, lvl, json)
	slog.SetDefault(l)
	if !ok {
		l.Warn("invalid LOG_LEVEL, defaulting to info", "value", level)
	}
	return l
}
