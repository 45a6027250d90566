// Package logger configures structured logging and crash recovery for Perspecto.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Options selects the slog handler. Logs go to W, which the CLI points at stderr so
// command output stays clean.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // text or json
	W      io.Writer
}

// ParseLevel maps a level name onto slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q (valid: debug, info, warn, error)", s)
	}
}

// New builds a logger from opts.
func New(opts Options) (*slog.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(opts.Format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(opts.W, handlerOpts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(opts.W, handlerOpts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q (valid: text, json)", opts.Format)
	}
}

// Setup builds a logger and installs it as the slog default.
func Setup(opts Options) error {
	l, err := New(opts)
	if err != nil {
		return err
	}
	slog.SetDefault(l)
	return nil
}
