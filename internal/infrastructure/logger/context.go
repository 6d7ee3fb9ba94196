package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ctxKey int

const (
	loggerKey ctxKey = iota
	requestIDKey
)

// WithContext attaches l to ctx
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the logger attached to ctx, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := lookup(ctx); ok {
		return l
	}
	return zap.NewNop()
}

func lookup(ctx context.Context) (*zap.Logger, bool) {
	if ctx == nil {
		return nil, false
	}
	l, ok := ctx.Value(loggerKey).(*zap.Logger)
	return l, ok && l != nil
}

// WithRequestID stores the request id and attaches a logger derived from base
// that carries it. The derived logger is returned as well.
func WithRequestID(ctx context.Context, base *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	reqLogger := base.With(zap.String("request_id", requestID))
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	return WithContext(ctx, reqLogger), reqLogger
}

// GetRequestID returns the request id stored in ctx, if any
func GetRequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithFields scopes fields onto the context logger, so every later L(ctx) call
// carries them. Contexts without a logger are returned unchanged.
//
//	ctx = logger.WithFields(ctx, zap.Int64("lease_id", id))
func WithFields(ctx context.Context, fields ...zap.Field) context.Context {
	l, ok := lookup(ctx)
	if !ok || len(fields) == 0 {
		return ctx
	}
	return WithContext(ctx, l.With(fields...))
}

// L returns the context logger with trace_id and span_id attached when the
// context carries a sampled span.
func L(ctx context.Context) *zap.Logger {
	l := FromContext(ctx)
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return l
	}
	return l.With(
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	)
}
