// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package observability sets up structured logging and Prometheus metrics.
package observability

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/impact-finder/pkg/types"
)

// NewLogger creates a zerolog logger writing to w. Format "json" emits one
// JSON object per line; anything else uses the human-readable console writer.
// An unknown level falls back to info.
func NewLogger(cfg types.LogConfig, w io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	out := w
	if !strings.EqualFold(cfg.Format, "json") {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
