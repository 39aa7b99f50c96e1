package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New builds the process logger from LOG_FORMAT / LOG_LEVEL and installs it as the slog default.
func New(format, level, env string) *slog.Logger {
	return newWithWriter(os.Stdout, format, level, env)
}

func newWithWriter(w io.Writer, format, level, env string) *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource: env == "dev",
		Level:     parseLevel(level),
	}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler).With("service", "pcbg-api", "env", env)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(lvl string) slog.Level {
	switch strings.ToLower(lvl) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
