package models

import (
	"time"

	"kycvault/internal/domain"
)

// State is the stage a verification workflow instance is in. Stages are
// strictly sequential within one instance.
type State string

const (
	// StateCollectingIdentity is the initial stage: no identity draft yet.
	StateCollectingIdentity State = "collecting_identity"
	// StateAwaitingDocument means a complete identity draft is stored and a
	// document submission may proceed.
	StateAwaitingDocument State = "awaiting_document"
	// StateSubmitting means a scoring call is in flight. At most one
	// submission is in flight per instance.
	StateSubmitting State = "submitting"
	// StateClassified is terminal for one attempt: the engine's record is
	// held on the session. A new attempt restarts at CollectingIdentity.
	StateClassified State = "classified"
)

// Session is one in-progress verification attempt. The identity draft is
// owned exclusively by this instance and discarded on reset.
type Session struct {
	ID        string                     `json:"id"`
	State     State                      `json:"state"`
	Draft     domain.IdentityDraft       `json:"draft"`
	Record    *domain.VerificationRecord `json:"record,omitempty"`
	CreatedAt time.Time                  `json:"created_at"`
	UpdatedAt time.Time                  `json:"updated_at"`
}

// NewSession starts a fresh workflow instance in the identity stage.
func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		State:     StateCollectingIdentity,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
