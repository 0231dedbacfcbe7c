package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lmittmann/tint"

	"github.com/CheYu0410/Bailu-Cli/src/config"
)

// newLogger builds the session logger: a colorized tint handler on
// stderr (warn+ normally, debug when verbose or DEBUG is set), plus a
// JSON trace file under the config dir when DEBUG is set.
func newLogger(cfg *config.Config, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose || cfg.Debug {
		level = slog.LevelDebug
	}

	stderrHandler := tint.NewHandler(os.Stderr, &tint.Options{
		Level: level,
	})

	if !cfg.Debug {
		return slog.New(stderrHandler)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.LogPath()), 0755); err != nil {
		return slog.New(stderrHandler)
	}
	file, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return slog.New(stderrHandler)
	}

	fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(fanoutHandler{stderrHandler, fileHandler})
}

// fanoutHandler duplicates records across handlers; used only for the
// stderr+file debug pair.
type fanoutHandler []slog.Handler

func (h fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, hh := range h {
		if hh.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, hh := range h {
		if hh.Enabled(ctx, r.Level) {
			if err := hh.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (h fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanoutHandler, len(h))
	for i, hh := range h {
		out[i] = hh.WithAttrs(attrs)
	}
	return out
}

func (h fanoutHandler) WithGroup(name string) slog.Handler {
	out := make(fanoutHandler, len(h))
	for i, hh := range h {
		out[i] = hh.WithGroup(name)
	}
	return out
}
