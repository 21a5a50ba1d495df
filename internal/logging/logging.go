// Package logging configures structured logging for timewatch. The terminal
// belongs to the UI, so log records go to a file or nowhere.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Options select where and how records are written.
type Options struct {
	// Debug enables logging to Path at debug level. When false every record
	// is discarded.
	Debug bool
	Path  string
	// Format is "text" (default) or "json".
	Format string
}

// Setup builds the logger, installs it as the slog default (which also routes
// the log package through it), and returns a close function for the file.
func Setup(opts Options) (*slog.Logger, func() error, error) {
	if !opts.Debug {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		slog.SetDefault(logger)
		return logger, func() error { return nil }, nil
	}

	if strings.TrimSpace(opts.Path) == "" {
		return nil, nil, fmt.Errorf("log path required when debug logging is enabled")
	}
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	handlerOpts := &slog.HandlerOptions{Level: slog.LevelDebug}
	var handler slog.Handler
	switch strings.ToLower(opts.Format) {
	case "json":
		handler = slog.NewJSONHandler(file, handlerOpts)
	default:
		handler = slog.NewTextHandler(file, handlerOpts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, file.Close, nil
}

