// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging constructs the zerolog logger shared by all pipeline stages.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config contains logger options.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string

	// Format is the output format: "console" or "json".
	Format string
}

// New creates a zerolog logger writing to stderr so log output never mixes
// with the report path printed on stdout.
func New(cfg Config) zerolog.Logger {
	var output io.Writer = os.Stderr
	if strings.ToLower(cfg.Format) != "json" {
		output = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}
