package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Init installs a text slog handler on stderr as the default logger.
// Progress output goes to stdout, so diagnostics never interleave with it.
func Init(level slog.Level) {
	slog.SetDefault(New(os.Stderr, level))
}

// New returns a text logger writing to w.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// ParseLevel converts a string ("debug", "info", "warn", "error") to slog.Level.
// Unknown strings default to LevelInfo.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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
