package logger

import (
	"context"
	"log/slog"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const (
	LoggerKey ContextKey = "logger"
)

// FromContext retrieves the logger from the context.
// If no logger is found, it returns the default logger.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// WithSessionID tags the context logger with the portal session.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return WithLogger(ctx, FromContext(ctx).With("session_id", sessionID))
}

// WithAttemptID tags the context logger with one submit attempt.
func WithAttemptID(ctx context.Context, attemptID string) context.Context {
	return WithLogger(ctx, FromContext(ctx).With("attempt_id", attemptID))
}
