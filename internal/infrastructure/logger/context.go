package logger

import (
	"context"

	"go.uber.org/zap"
)

type contextKey int

const (
	loggerKey contextKey = iota
	requestIDKey
	tenantIDKey
	userIDKey
)

// correlation keys in the order Enrich emits them
var correlation = []struct {
	key   contextKey
	field string
}{
	{requestIDKey, "request_id"},
	{tenantIDKey, "tenant_id"},
	{userIDKey, "user_id"},
}

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext retrieves the logger from context, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

func tag(ctx context.Context, logger *zap.Logger, key contextKey, field, value string) (context.Context, *zap.Logger) {
	enriched := logger.With(zap.String(field, value))
	return WithContext(context.WithValue(ctx, key, value), enriched), enriched
}

// WithRequestID stores the request id and attaches it to the returned logger
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	return tag(ctx, logger, requestIDKey, "request_id", requestID)
}

// WithTenantID stores the tenant id and attaches it to the returned logger
func WithTenantID(ctx context.Context, logger *zap.Logger, tenantID string) (context.Context, *zap.Logger) {
	return tag(ctx, logger, tenantIDKey, "tenant_id", tenantID)
}

// WithUserID stores the user id and attaches it to the returned logger
func WithUserID(ctx context.Context, logger *zap.Logger, userID string) (context.Context, *zap.Logger) {
	return tag(ctx, logger, userIDKey, "user_id", userID)
}

func value(ctx context.Context, key contextKey) string {
	v, _ := ctx.Value(key).(string)
	return v
}

func GetRequestID(ctx context.Context) string { return value(ctx, requestIDKey) }
func GetTenantID(ctx context.Context) string  { return value(ctx, tenantIDKey) }
func GetUserID(ctx context.Context) string    { return value(ctx, userIDKey) }

// Enrich returns base with the request, tenant and user IDs found in ctx
func Enrich(ctx context.Context, base *zap.Logger) *zap.Logger {
	if base == nil {
		base = zap.NewNop()
	}
	var fields []zap.Field
	for _, c := range correlation {
		if v := value(ctx, c.key); v != "" {
			fields = append(fields, zap.String(c.field, v))
		}
	}
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}
