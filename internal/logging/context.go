package logging

import (
	"context"

	"github.com/charmbracelet/log"
)

// loggerKey keys the logger attached to a build's context.
type loggerKey struct{}

// WithLogger returns a context carrying logger. The CLI attaches its
// configured logger before invoking the pipeline so every stage logs
// through it.
func WithLogger(ctx context.Context, logger *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger carried by ctx, or the package default
// when ctx carries none.
func FromContext(ctx context.Context) *log.Logger {
	if ctx == nil {
		return Default()
	}
	if logger, ok := ctx.Value(loggerKey{}).(*log.Logger); ok && logger != nil {
		return logger
	}
	return Default()
}
