// Package domainerrors provides coded errors shared by services and the HTTP
// layer. Services attach a Code describing the failure class; transports map
// codes to wire responses without inspecting error strings.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain failure.
type Code string

const (
	// CodeValidation marks missing or malformed user input. Recovered
	// locally; the operation does not proceed.
	CodeValidation Code = "validation_error"
	// CodePrecondition marks a workflow invariant violation, e.g. a document
	// submitted before an identity draft exists.
	CodePrecondition Code = "precondition_failed"
	// CodeConflict marks an operation rejected because of concurrent state,
	// e.g. a second submission while one is in flight.
	CodeConflict Code = "conflict"
	// CodeUnauthorized marks a failed or missing credential.
	CodeUnauthorized Code = "unauthorized"
	// CodeForbidden marks an authenticated but disallowed request.
	CodeForbidden Code = "forbidden"
	// CodeNotFound marks a missing record or session.
	CodeNotFound Code = "not_found"
	// CodeUpstream marks a transport or service failure on an outbound call.
	// Safe to retry; no local state is corrupted.
	CodeUpstream Code = "upstream_error"
	// CodeBadRequest marks an unparseable request body.
	CodeBadRequest Code = "bad_request"
	// CodeInternal marks unexpected failures. Details are never surfaced to
	// clients.
	CodeInternal Code = "internal_error"
)

// Error carries a code, a human-readable message, and an optional cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds a coded error with no underlying cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error, preserving the
// chain for errors.Is/As.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// HasCode reports whether any error in the chain carries the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	for errors.As(err, &e) {
		if e.Code == code {
			return true
		}
		err = e.Err
		e = nil
	}
	return false
}

// CodeOf returns the outermost code in the chain, or CodeInternal when the
// error carries none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// MessageOf returns the outermost coded message, or empty when the error
// carries none.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}

// ToHTTPStatus maps a code to its HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeValidation:
		return http.StatusUnprocessableEntity
	case CodePrecondition, CodeConflict:
		return http.StatusConflict
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUpstream:
		return http.StatusBadGateway
	case CodeBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
