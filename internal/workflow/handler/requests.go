package handler

import (
	"strings"

	"kycvault/internal/domain"
)

// IdentityRequest is the declared identity for one verification attempt.
type IdentityRequest struct {
	Name        string `json:"name"`
	DateOfBirth string `json:"date_of_birth"`
	Gender      string `json:"gender"`
}

func (r *IdentityRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.DateOfBirth = strings.TrimSpace(r.DateOfBirth)
	r.Gender = strings.TrimSpace(r.Gender)
}

func (r *IdentityRequest) Validate() error {
	return r.Draft().Validate()
}

// Draft converts the wire request into the domain draft.
func (r *IdentityRequest) Draft() domain.IdentityDraft {
	return domain.IdentityDraft{
		Name:        r.Name,
		DateOfBirth: r.DateOfBirth,
		Gender:      domain.Gender(r.Gender),
	}
}
