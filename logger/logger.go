package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/nstehr/gambit/config"
)

// Setup configures the global slog logger based on environment
func Setup(cfg *config.Config) *slog.Logger {
	return setup(cfg, os.Stdout)
}

func setup(cfg *config.Config, w io.Writer) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	if cfg.Environment == "production" {
		// JSON format for production
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// WithParticipant tags log lines with the battle participant a connection
// serves.
func WithParticipant(logger *slog.Logger, participant string) *slog.Logger {
	return logger.With("participant", participant)
}
