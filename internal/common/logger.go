package common

import (
	"log/slog"
	"os"
)

// NewLogger builds the JSON logger used by the binaries. It writes to stderr
// because stdout carries the extraction result.
func NewLogger(cfg LogConfig) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
}
