package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"project-planner/internal/config"
)

// New builds the root logger. The local env gets a human-readable console writer.
func New(cfg config.Config) zerolog.Logger {
	return newWithWriter(cfg, os.Stdout)
}

func newWithWriter(cfg config.Config, out io.Writer) zerolog.Logger {
	zerolog.TimestampFieldName = "timestamp"

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}

	w := out
	if cfg.Env == config.EnvLocal {
		console := zerolog.NewConsoleWriter()
		console.TimeFormat = time.DateTime
		console.Out = out
		w = console
	}

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Int("pid", os.Getpid()).
		Logger()
}
