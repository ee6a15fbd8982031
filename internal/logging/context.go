package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	requestIDKey  contextKey = "request_id"
	deliveryIDKey contextKey = "delivery_id"
)

// GenerateRequestID returns a fresh UUID string.
func GenerateRequestID() string {
	return uuid.New().String()
}

// ContextWithRequestID attaches an HTTP request id.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the request id, or "".
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithDeliveryID attaches the webhook delivery id so every log line
// for one delivery can be correlated with the sender's redelivery UI.
func ContextWithDeliveryID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, deliveryIDKey, id)
}

// DeliveryIDFromContext returns the delivery id, or "".
func DeliveryIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(deliveryIDKey).(string); ok {
		return id
	}
	return ""
}

// Ctx returns the global logger with request_id and delivery_id fields
// taken from ctx.
func Ctx(ctx context.Context) *zerolog.Logger {
	lc := Logger().With()
	if id := RequestIDFromContext(ctx); id != "" {
		lc = lc.Str("request_id", id)
	}
	if id := DeliveryIDFromContext(ctx); id != "" {
		lc = lc.Str("delivery_id", id)
	}
	l := lc.Logger()
	return &l
}
