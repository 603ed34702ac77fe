package domain

import (
	"strings"
	"time"

	dErrors "kycvault/pkg/domain-errors"
)

// Gender is the declared gender on the identity draft.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// IdentityDraft is the user's declared identity for one verification attempt.
// It lives only for the current session and is discarded when the workflow
// completes or resets.
type IdentityDraft struct {
	Name        string
	DateOfBirth string
	Gender      Gender
}

// Normalize trims whitespace from the declared fields.
func (d *IdentityDraft) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.DateOfBirth = strings.TrimSpace(d.DateOfBirth)
	d.Gender = Gender(strings.TrimSpace(string(d.Gender)))
}

// Validate enforces that all three fields are present before the workflow may
// advance. The date must be an ISO calendar date so the engine can match it
// against extracted document fields.
func (d IdentityDraft) Validate() error {
	if d.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if d.DateOfBirth == "" {
		return dErrors.New(dErrors.CodeValidation, "date of birth is required")
	}
	if _, err := time.Parse("2006-01-02", d.DateOfBirth); err != nil {
		return dErrors.New(dErrors.CodeValidation, "date of birth must be YYYY-MM-DD")
	}
	switch d.Gender {
	case GenderMale, GenderFemale:
	case "":
		return dErrors.New(dErrors.CodeValidation, "gender is required")
	default:
		return dErrors.New(dErrors.CodeValidation, "gender must be Male or Female")
	}
	return nil
}

// Complete reports whether the draft can back a document submission.
func (d IdentityDraft) Complete() bool {
	return d.Validate() == nil
}
