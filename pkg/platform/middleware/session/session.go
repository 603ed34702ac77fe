// Package session identifies the caller's workflow instance. Callers present
// an opaque session ID header; first-time callers get one minted for them and
// echoed back so they can carry it forward.
package session

import (
	"net/http"

	"github.com/google/uuid"

	"kycvault/pkg/requestcontext"
)

// HeaderSessionID carries the workflow session identity.
const HeaderSessionID = "X-Session-ID"

// Identity injects the session ID into the request context and echoes it on
// the response so clients can persist it.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := r.Header.Get(HeaderSessionID)
		if sid == "" {
			sid = uuid.NewString()
		}
		w.Header().Set(HeaderSessionID, sid)
		ctx := requestcontext.WithSessionID(r.Context(), sid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
