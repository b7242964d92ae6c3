// Package logutil carries a request-scoped zerolog logger in a context.
package logutil

import (
	"context"

	"github.com/rs/zerolog"
)

type (
	key byte
)

var (
	loggerKey = key(1)
)

func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored in ctx, or fallback when there is none.
func FromContext(ctx context.Context, fallback zerolog.Logger) zerolog.Logger {
	if ctx == nil {
		return fallback
	}
	v, ok := ctx.Value(loggerKey).(zerolog.Logger)
	if !ok {
		return fallback
	}
	return v
}
