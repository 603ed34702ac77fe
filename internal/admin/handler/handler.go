// Package handler exposes the admin gate over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"kycvault/internal/admin/service"
	dErrors "kycvault/pkg/domain-errors"
	"kycvault/pkg/platform/httputil"
	"kycvault/pkg/requestcontext"
)

// Gate defines the admin operations the handler needs.
type Gate interface {
	Login(ctx context.Context, username, password string) (*service.LoginResult, error)
	Logout(ctx context.Context, bearer string) error
}

// Handler wires the login and logout endpoints.
type Handler struct {
	gate   Gate
	logger *slog.Logger
}

func New(gate Gate, logger *slog.Logger) *Handler {
	return &Handler{gate: gate, logger: logger}
}

// Register mounts the gate endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/login", h.HandleLogin)
	r.Post("/logout", h.HandleLogout)
}

// LoginRequest is the admin credential pair.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *LoginRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
}

func (r *LoginRequest) Validate() error {
	if r.Username == "" {
		return dErrors.New(dErrors.CodeValidation, "username is required")
	}
	if r.Password == "" {
		return dErrors.New(dErrors.CodeValidation, "password is required")
	}
	return nil
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// HandleLogin handles POST /admin/login.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[LoginRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.gate.Login(ctx, req.Username, req.Password)
	if err != nil {
		h.logger.WarnContext(ctx, "admin login rejected",
			"request_id", requestID,
			"username", req.Username,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
	})
}

// HandleLogout handles POST /admin/logout.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "admin token required"))
		return
	}

	if err := h.gate.Logout(ctx, strings.TrimSpace(strings.TrimPrefix(auth, prefix))); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
