package common

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const ContextKeyRunID contextKey = "run_id"

// WithRunID tags ctx with the extraction run it belongs to.
func WithRunID(ctx context.Context, runID uuid.UUID) context.Context {
	return context.WithValue(ctx, ContextKeyRunID, runID)
}

// RunIDFromContext extracts the run ID from context, or uuid.Nil.
func RunIDFromContext(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(ContextKeyRunID).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}
