package main

import (
	"log/slog"
	"os"
)

// newLogger writes text records to stderr: warnings and results by default,
// timing and progress too when verbose.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
