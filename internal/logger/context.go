package logger

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
)

type ctxKey struct{}

var fallback atomic.Pointer[zap.Logger]

// SetFallback sets the logger FromContext returns for contexts without one.
// Until it is called that logger is a no-op.
func SetFallback(l *zap.Logger) {
	fallback.Store(l)
}

// ContextWithLogger stores a logger in the context.
func ContextWithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the request logger, or the fallback logger.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
		return l
	}
	if l := fallback.Load(); l != nil {
		return l
	}
	return zap.NewNop()
}

// With returns a context whose logger carries the extra fields.
func With(ctx context.Context, fields ...zap.Field) context.Context {
	return ContextWithLogger(ctx, FromContext(ctx).With(fields...))
}
