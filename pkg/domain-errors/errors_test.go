package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHasCodeWalksChain(t *testing.T) {
	base := New(CodeNotFound, "session not found")
	wrapped := Wrap(base, CodeInternal, "failed to load session")

	if !HasCode(wrapped, CodeInternal) {
		t.Fatalf("expected outer code to match")
	}
	if !HasCode(wrapped, CodeNotFound) {
		t.Fatalf("expected inner code to match")
	}
	if HasCode(wrapped, CodeValidation) {
		t.Fatalf("did not expect validation code in chain")
	}
}

func TestCodeOfDefaultsToInternal(t *testing.T) {
	if got := CodeOf(errors.New("plain")); got != CodeInternal {
		t.Fatalf("expected internal code for uncoded error, got %q", got)
	}
	if got := CodeOf(New(CodeUpstream, "engine unreachable")); got != CodeUpstream {
		t.Fatalf("expected upstream code, got %q", got)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(fmt.Errorf("dial engine: %w", cause), CodeUpstream, "scoring engine unreachable")

	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause to survive errors.Is")
	}
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeValidation:   http.StatusUnprocessableEntity,
		CodePrecondition: http.StatusConflict,
		CodeConflict:     http.StatusConflict,
		CodeUnauthorized: http.StatusUnauthorized,
		CodeForbidden:    http.StatusForbidden,
		CodeNotFound:     http.StatusNotFound,
		CodeUpstream:     http.StatusBadGateway,
		CodeBadRequest:   http.StatusBadRequest,
		CodeInternal:     http.StatusInternalServerError,
	}
	for code, want := range cases {
		if got := ToHTTPStatus(code); got != want {
			t.Errorf("ToHTTPStatus(%q) = %d, want %d", code, got, want)
		}
	}
}
