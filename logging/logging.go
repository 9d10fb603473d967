package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pterm/pterm"
)

// New returns a structured logger printing through pterm to stdout.
func New(level string) *slog.Logger {
	return NewWithWriter(level, os.Stdout)
}

// NewWithWriter is New with output sent to w, e.g. a terminal UI view.
func NewWithWriter(level string, w io.Writer) *slog.Logger {
	logger := pterm.DefaultLogger.WithLevel(parseLevel(level)).WithWriter(w)
	return slog.New(pterm.NewSlogHandler(logger))
}

// Discard returns a logger that drops everything, for tests.
func Discard() *slog.Logger {
	return NewWithWriter("error", io.Discard)
}

func parseLevel(s string) pterm.LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return pterm.LogLevelDebug
	case "warn", "warning":
		return pterm.LogLevelWarn
	case "error":
		return pterm.LogLevelError
	default:
		return pterm.LogLevelInfo
	}
}
