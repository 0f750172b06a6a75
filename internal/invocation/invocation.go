// Package invocation carries the per-invocation marker stamped into stage
// results as extractedAt and generatedAt.
package invocation

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey struct{}

// WithID returns a context carrying id.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// ID returns the id carried by ctx, or a fresh UUID when none is set.
func ID(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

// Ensure returns ctx unchanged if it already carries an id, otherwise a
// context with a new one, so every stage of one run shares the same marker.
func Ensure(ctx context.Context) context.Context {
	if id, ok := ctx.Value(ctxKey{}).(string); ok && id != "" {
		return ctx
	}
	return WithID(ctx, uuid.NewString())
}
