package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const (
	// LoggerKey carries a request-scoped logger through the context.
	LoggerKey contextKey = "logger"
	// RequestIDKey carries the request correlation ID.
	RequestIDKey contextKey = "request_id"
	// UserIDKey carries the authenticated user ID, when present.
	UserIDKey contextKey = "user_id"
)

// WithLogger stores a logger in the context.
func WithLogger(ctx context.Context, log *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, log)
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// WithUserID stores the user ID in the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// GetRequestID returns the request ID held by the context, if any.
func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(RequestIDKey).(string); ok {
		return v
	}
	return ""
}

// GetUserID returns the user ID held by the context, if any.
func GetUserID(ctx context.Context) string {
	if v, ok := ctx.Value(UserIDKey).(string); ok {
		return v
	}
	return ""
}

// GetTraceID returns the active trace ID from the context's span, if one
// is recording.
func GetTraceID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if sc := span.SpanContext(); sc.IsValid() {
		return sc.TraceID().String()
	}
	return ""
}

// GetSpanID returns the active span ID from the context's span, if one
// is recording.
func GetSpanID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if sc := span.SpanContext(); sc.IsValid() {
		return sc.SpanID().String()
	}
	return ""
}

// ContextLogger enriches log entries with identifiers carried by the
// request context: request ID, user ID, and the active trace/span.
type ContextLogger struct {
	base *zap.Logger
}

// NewContextLogger wraps a base logger for context-aware logging.
func NewContextLogger(base *zap.Logger) *ContextLogger {
	return &ContextLogger{base: base}
}

// FromContext returns the logger stored in the context, or the wrapped
// base logger enriched with whatever identifiers the context carries.
func (cl *ContextLogger) FromContext(ctx context.Context) *zap.Logger {
	if log, ok := ctx.Value(LoggerKey).(*zap.Logger); ok {
		return log
	}
	return cl.enrich(ctx, cl.base)
}

func (cl *ContextLogger) enrich(ctx context.Context, log *zap.Logger) *zap.Logger {
	fields := make([]zap.Field, 0, 4)
	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	if userID := GetUserID(ctx); userID != "" {
		fields = append(fields, zap.String("user_id", userID))
	}
	if traceID := GetTraceID(ctx); traceID != "" {
		fields = append(fields, zap.String("trace_id", traceID))
		fields = append(fields, zap.String("span_id", GetSpanID(ctx)))
	}
	if len(fields) == 0 {
		return log
	}
	return log.With(fields...)
}

// Debug logs at debug level with context enrichment.
func (cl *ContextLogger) Debug(ctx context.Context, msg string, fields ...zap.Field) {
	cl.FromContext(ctx).Debug(msg, fields...)
}

// Info logs at info level with context enrichment.
func (cl *ContextLogger) Info(ctx context.Context, msg string, fields ...zap.Field) {
	cl.FromContext(ctx).Info(msg, fields...)
}

// Warn logs at warn level with context enrichment.
func (cl *ContextLogger) Warn(ctx context.Context, msg string, fields ...zap.Field) {
	cl.FromContext(ctx).Warn(msg, fields...)
}

// Error logs at error level with context enrichment.
func (cl *ContextLogger) Error(ctx context.Context, msg string, fields ...zap.Field) {
	cl.FromContext(ctx).Error(msg, fields...)
}
