// Package logging builds the zerolog loggers used across the module from a
// config.LogConfig. Library packages never log on their own: they accept a
// zerolog.Logger and default to zerolog.Nop().
package logging

import (
	"fmt"
	"io"
	"time"

	"github.com/katalvlaran/livetrace/config"
	"github.com/rs/zerolog"
)

// New returns a timestamped logger writing to w at the configured level, in
// human-readable console form or as JSON lines.
func New(cfg config.LogConfig, w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("logging: %w", err)
	}

	switch cfg.Format {
	case "", "console":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	case "json":
	default:
		return zerolog.Nop(), fmt.Errorf("logging: unknown format %q", cfg.Format)
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}

// Component tags every event of l with the emitting component.
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}
