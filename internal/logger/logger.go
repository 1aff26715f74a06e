// Package logger configures the application's structured logging.
//
// It uses zerolog everywhere. Outside production the logger writes through
// a console writer; in production it emits plain JSON for log shippers.
package logger

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/fitlog/exercise-tracker/internal/config"
)

// New builds the application's root logger from config.
//
// Level selection: debug in the local env, info everywhere else.
func New(cfg *config.Config) *zerolog.Logger {
	level := zerolog.InfoLevel
	if cfg.Primary.Env == "local" {
		level = zerolog.DebugLevel
	}

	var logger zerolog.Logger
	if cfg.Primary.Env == "production" {
		logger = zerolog.New(os.Stderr)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	logger = logger.Level(level).With().
		Timestamp().
		Str("service", "exercise-tracker").
		Str("env", cfg.Primary.Env).
		Logger()

	return &logger
}
