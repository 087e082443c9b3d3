package app

import (
	"io"
	"log/slog"
)

// newLogger builds the app's own logger from a validated Config. It never
// touches the process-wide default logger.
func newLogger(cfg *Config, logW io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler = slog.NewTextHandler(logW, opts)
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(logW, opts)
	}
	return slog.New(handler).With("component", "nsreg")
}
