// Package logger wraps log/slog for cashbook. Init picks the handler
// from the runtime environment (JSON in production, text elsewhere);
// handlers pull a request-scoped logger out of the context via From.
package logger

import (
	"log/slog"
	"os"
)

const envProduction = "production"

var defaultLogger *slog.Logger

// Init builds the process-wide logger for env and installs it as the
// slog default. Production logs JSON at info level; every other env
// logs text at debug level.
func Init(env string) {
	defaultLogger = slog.New(newHandler(env))
	slog.SetDefault(defaultLogger)
}

func newHandler(env string) slog.Handler {
	if env == envProduction {
		return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
}

// LoggerWrapper returns the process-wide logger, initializing a
// development one if Init has not run yet.
func LoggerWrapper() *slog.Logger {
	if defaultLogger == nil {
		Init("development")
	}
	return defaultLogger
}
