// Package logging provides the shared structured logger for the project.
package logging

import (
	"os"

	"github.com/rs/zerolog"
)

// New creates a zerolog logger writing to stdout at the given level. An
// unparseable level falls back to info.
func New(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(os.Stdout).
		Level(lvl).
		With().
		Timestamp().
		Caller().
		Logger()
}
