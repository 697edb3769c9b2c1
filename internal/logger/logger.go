package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New builds the process logger. Diagnostics go to stderr so reports on
// stdout stay clean. An unknown level falls back to info.
func New(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return zerolog.New(out).
		With().
		Timestamp().
		Logger().
		Level(lvl)
}
