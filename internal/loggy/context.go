package loggy

import (
	"context"

	"github.com/tildaslashalef/bugsquash/internal/ulid"
)

type contextKey string

const loggerKey contextKey = "logger"

// FromContext retrieves the logger from the context, falling back to the global logger
func FromContext(ctx context.Context) *Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey).(*Logger); ok && logger != nil {
			return logger
		}
	}
	return GetGlobalLogger()
}

// WithLogger returns a new context with the logger attached
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// WithRequestID returns a new context whose logger is tagged with the request ID
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return WithLogger(ctx, FromContext(ctx).With("request_id", requestID))
}

// NewRequestID generates a new request ID using ULID
func NewRequestID() string {
	return ulid.RequestID()
}
