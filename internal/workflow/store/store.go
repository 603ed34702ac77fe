package store

import (
	"context"

	"kycvault/internal/workflow/models"
	dErrors "kycvault/pkg/domain-errors"
)

// ErrNotFound keeps storage-specific misses consistent across the memory and
// Redis implementations.
var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "workflow session not found")

// SessionStore persists workflow instances keyed by session ID.
//
// Mutate is the only write path for state transitions: implementations run fn
// under their own concurrency control so two callers can never interleave a
// read-modify-write on the same instance. If fn returns an error the session
// is left unchanged and the error is returned verbatim.
type SessionStore interface {
	FindByID(ctx context.Context, id string) (*models.Session, error)
	Save(ctx context.Context, session *models.Session) error
	Mutate(ctx context.Context, id string, fn func(*models.Session) error) (*models.Session, error)
	Delete(ctx context.Context, id string) error
}
