package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New creates a service logger writing JSON lines to stderr.
// An unknown level falls back to info.
func New(service, level string) *zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano

	logger := zerolog.New(os.Stderr).
		Level(lvl).
		With().
		Timestamp().
		Str("service", service).
		Logger()

	return &logger
}
