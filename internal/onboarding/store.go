package onboarding

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrDraftNotFound is returned by Get when the user has no draft in flight.
var ErrDraftNotFound = errors.New("onboarding: draft not found")

// DraftStore holds in-flight drafts keyed by identity id. Implementations
// are session-scoped caches, never the relational store.
type DraftStore interface {
	Get(ctx context.Context, userID uuid.UUID) (*Draft, error)
	Put(ctx context.Context, userID uuid.UUID, d *Draft) error
	Delete(ctx context.Context, userID uuid.UUID) error
}
