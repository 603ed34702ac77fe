// Package middleware guards dashboard routes behind the admin gate.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"kycvault/internal/admin/models"
	dErrors "kycvault/pkg/domain-errors"
	"kycvault/pkg/platform/httputil"
	"kycvault/pkg/requestcontext"
)

// Authenticator resolves a bearer token to a live admin session.
type Authenticator interface {
	Authenticate(ctx context.Context, bearer string) (*models.AdminSession, error)
}

// RequireAdmin rejects requests without a valid admin bearer token.
func RequireAdmin(gate Authenticator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			bearer, ok := bearerToken(r)
			if !ok {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "admin token required"))
				return
			}

			if _, err := gate.Authenticate(ctx, bearer); err != nil {
				logger.WarnContext(ctx, "admin authentication failed",
					"request_id", requestcontext.RequestID(ctx),
					"error", err,
				)
				httputil.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(auth, prefix))
	return token, token != ""
}
