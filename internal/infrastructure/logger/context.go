package logger

import (
	"context"

	"go.uber.org/zap"
)

// ctxKey keeps this package's context values from colliding with
// other packages'.
type ctxKey int

const (
	loggerCtxKey ctxKey = iota
	requestIDCtxKey
	userIDCtxKey
)

// WithContext attaches a logger to the context so downstream code can
// log with the request's accumulated fields.
func WithContext(ctx context.Context, log *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey, log)
}

// FromContext returns the logger carried by ctx. Contexts without one
// get a no-op logger, never nil.
func FromContext(ctx context.Context) *zap.Logger {
	if log, ok := ctx.Value(loggerCtxKey).(*zap.Logger); ok {
		return log
	}
	return zap.NewNop()
}

// WithRequestID stores the request ID and returns a logger already
// tagged with it. The HTTP logging middleware calls this once per
// request.
func WithRequestID(ctx context.Context, log *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, requestIDCtxKey, requestID)
	tagged := log.With(zap.String("request_id", requestID))
	return WithContext(ctx, tagged), tagged
}

// WithUserID stores the authenticated user's ID and returns a logger
// tagged with it.
func WithUserID(ctx context.Context, log *zap.Logger, userID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, userIDCtxKey, userID)
	tagged := log.With(zap.String("user_id", userID))
	return WithContext(ctx, tagged), tagged
}

// GetRequestID reads the request ID stored by WithRequestID.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDCtxKey).(string)
	return id
}

// GetUserID reads the user ID stored by WithUserID.
func GetUserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDCtxKey).(string)
	return id
}
