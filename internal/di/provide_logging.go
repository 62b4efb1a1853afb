package di

import (
	"os"

	"github.com/rs/zerolog"
)

// ProvideLogger creates a new zerolog.Logger configured for the runtime environment.
// In Lambda (when AWS_LAMBDA_RUNTIME_API is set), it uses JSON format.
// In terminal/CLI, it uses console format with pretty printing.
// LOG_LEVEL overrides the default info level.
func ProvideLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if v, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil && v != zerolog.NoLevel {
		level = v
	}

	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" {
		return zerolog.New(os.Stdout).
			Level(level).
			With().
			Timestamp().
			Logger()
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Logger()
}
