package testutil

import (
	"net/http"
	"time"

	"kycvault/pkg/requestcontext"
)

// WithSessionID stamps a workflow session ID onto the request context, the
// way the session middleware would for an identified caller.
func WithSessionID(req *http.Request, sessionID string) *http.Request {
	return req.WithContext(requestcontext.WithSessionID(req.Context(), sessionID))
}

// WithRequestID stamps a request ID onto the request context.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}

// WithClientMetadata stamps client IP and user agent onto the request context.
func WithClientMetadata(req *http.Request, clientIP, userAgent string) *http.Request {
	return req.WithContext(requestcontext.WithClientMetadata(req.Context(), clientIP, userAgent))
}

// WithTime pins the request-scoped clock for deterministic assertions.
func WithTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}
