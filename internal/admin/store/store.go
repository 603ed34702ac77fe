package store

import (
	"context"

	"kycvault/internal/admin/models"
	dErrors "kycvault/pkg/domain-errors"
)

// ErrNotFound covers both never-issued and revoked sessions; callers cannot
// tell them apart, which is the point.
var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "admin session not found")

// SessionStore persists issued admin sessions. Deleting a session revokes
// every token bound to it.
type SessionStore interface {
	Save(ctx context.Context, session models.AdminSession) error
	FindByID(ctx context.Context, id string) (models.AdminSession, error)
	Delete(ctx context.Context, id string) error
}
