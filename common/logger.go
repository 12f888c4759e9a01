package common

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the module-wide root logger. Console format by default; set
// PAPERDECK_LOG_FORMAT=json for machine-readable output.
var Logger = newLogger()

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if lv, err := zerolog.ParseLevel(os.Getenv("PAPERDECK_LOG_LEVEL")); err == nil && os.Getenv("PAPERDECK_LOG_LEVEL") != "" {
		level = lv
	}

	if os.Getenv("PAPERDECK_LOG_FORMAT") == "json" {
		return zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}).Level(level).With().Timestamp().Logger()
}

// Component returns a sub-logger tagged with a component name.
func Component(name string) zerolog.Logger {
	return Logger.With().Str("component", name).Logger()
}
