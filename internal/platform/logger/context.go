package logger

import (
	"context"
	"log/slog"
)

// loggerContextKey is an unexported type for the context key to avoid
// collisions with keys from other packages.
type loggerContextKey struct{}

// WithLogger returns a copy of ctx carrying the given logger. Handlers and
// middleware use this to thread request-scoped loggers (e.g. with a trace
// ID attached) down into stores and services.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey{}, logger)
}

// FromContext returns the logger stored in ctx, or slog.Default() when the
// context carries none.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerContextKey{}).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// FromContextOrDefault returns the logger stored in ctx, falling back to
// the provided component logger rather than the process default. Stores use
// this so their component attribute survives when no request logger is set.
func FromContextOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(loggerContextKey{}).(*slog.Logger); ok && logger != nil {
		return logger
	}
	if fallback != nil {
		return fallback
	}
	return slog.Default()
}
