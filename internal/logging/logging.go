// Package logging holds the process-wide logger. The terminal belongs to the
// UI while it runs, so the TUI logs to a file and the server logs to stderr.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Log is the global logger. It discards everything until Init or UseWriter
// is called.
var Log = log.New(io.Discard)

// Init points the global logger at the file at path, creating parent
// directories. An empty path disables logging. The returned closer must be
// closed on exit.
func Init(path, level string) (io.Closer, error) {
	if path == "" {
		Log = log.New(io.Discard)
		return io.NopCloser(nil), nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	UseWriter(f, level)
	return f, nil
}

// UseWriter sends log output to w at the given level ("debug", "info",
// "warn", "error"). Unknown levels fall back to info.
func UseWriter(w io.Writer, level string) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	Log = log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.000",
		Level:           lvl,
	})
}
