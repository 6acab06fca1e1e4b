package telemetry

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// NewLogger builds the service-scoped logger. Console output goes to stderr
// so the run summary on stdout stays machine-readable.
func NewLogger(service, level string) zerolog.Logger {
	return NewLoggerWithWriter(service, level, zerolog.ConsoleWriter{Out: os.Stderr})
}

// NewLoggerWithWriter is NewLogger with an explicit sink, used by tests.
func NewLoggerWithWriter(service, level string, w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Str("service", service).
		Logger()
}
