package domain

import (
	"testing"

	dErrors "kycvault/pkg/domain-errors"
)

func TestIdentityDraftValidate(t *testing.T) {
	valid := IdentityDraft{Name: "Asha Rao", DateOfBirth: "1995-04-12", Gender: GenderFemale}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid draft, got %v", err)
	}

	cases := []struct {
		name  string
		draft IdentityDraft
	}{
		{"empty name", IdentityDraft{Name: "", DateOfBirth: "2000-01-01", Gender: GenderMale}},
		{"empty dob", IdentityDraft{Name: "Asha Rao", DateOfBirth: "", Gender: GenderFemale}},
		{"malformed dob", IdentityDraft{Name: "Asha Rao", DateOfBirth: "12/04/1995", Gender: GenderFemale}},
		{"empty gender", IdentityDraft{Name: "Asha Rao", DateOfBirth: "1995-04-12"}},
		{"unknown gender", IdentityDraft{Name: "Asha Rao", DateOfBirth: "1995-04-12", Gender: "Other"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.draft.Validate()
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !dErrors.HasCode(err, dErrors.CodeValidation) {
				t.Fatalf("expected validation code, got %v", err)
			}
		})
	}
}

func TestIdentityDraftNormalize(t *testing.T) {
	d := IdentityDraft{Name: "  Asha Rao  ", DateOfBirth: " 1995-04-12 ", Gender: " Female "}
	d.Normalize()
	if d.Name != "Asha Rao" || d.DateOfBirth != "1995-04-12" || d.Gender != GenderFemale {
		t.Fatalf("normalize left whitespace: %+v", d)
	}
}

func TestParseExportCategory(t *testing.T) {
	for _, ok := range []string{"all", "approved", "rejected", "alerts"} {
		if _, err := ParseExportCategory(ok); err != nil {
			t.Errorf("expected %q to parse, got %v", ok, err)
		}
	}
	if _, err := ParseExportCategory("everything"); !dErrors.HasCode(err, dErrors.CodeValidation) {
		t.Fatalf("expected validation error for unknown category, got %v", err)
	}
}
