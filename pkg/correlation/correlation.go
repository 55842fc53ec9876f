// Package correlation carries a per-request id from the inbound webhook
// through to the asynchronous Discord delivery that it triggers.
package correlation

import (
	"context"

	"github.com/google/uuid"
)

// HeaderName is the HTTP header for correlation ID.
const HeaderName = "X-Correlation-ID"

type contextKey struct{}

// FromContext returns the correlation ID, or "" if none was set.
func FromContext(ctx context.Context) string {
	if id, ok := ctx.Value(contextKey{}).(string); ok {
		return id
	}
	return ""
}

func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// NewID generates a new correlation ID (UUID v4).
func NewID() string {
	return uuid.New().String()
}

// FromHeader returns the caller supplied id when it is a well-formed UUID,
// otherwise a fresh one.
func FromHeader(value string) string {
	if _, err := uuid.Parse(value); err == nil {
		return value
	}
	return NewID()
}

type eventKey struct{}

// WithEventID tags ctx with the Stripe event being handled, so every record
// logged for it, including the background delivery, carries the id.
func WithEventID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, eventKey{}, id)
}

// EventIDFromContext returns the Stripe event id, or "" if none was set.
func EventIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(eventKey{}).(string); ok {
		return id
	}
	return ""
}
