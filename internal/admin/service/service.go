// Package service implements the admin gate: a single shared credential
// guarding the dashboard's read-only views. The gate is deliberately small;
// swapping in a real identity provider means replacing this package and
// nothing else.
package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mssola/useragent"
	"golang.org/x/crypto/bcrypt"

	"kycvault/internal/admin/models"
	"kycvault/internal/admin/store"
	"kycvault/internal/admin/token"
	"kycvault/internal/audit"
	"kycvault/internal/platform/config"
	"kycvault/internal/platform/metrics"
	dErrors "kycvault/pkg/domain-errors"
	"kycvault/pkg/requestcontext"
)

// AuditEmitter records gate activity on the audit trail.
type AuditEmitter interface {
	Emit(ctx context.Context, event audit.Event)
}

// LoginResult is what a successful login hands back to the client.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
}

// Gate authenticates the admin credential and manages admin sessions.
type Gate struct {
	cfg      config.AdminConfig
	tokens   *token.Service
	sessions store.SessionStore
	logger   *slog.Logger
	metrics  *metrics.Metrics
	auditor  AuditEmitter
}

// Option configures optional gate collaborators.
type Option func(*Gate)

func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Gate) { g.metrics = m }
}

func WithAuditEmitter(a AuditEmitter) Option {
	return func(g *Gate) { g.auditor = a }
}

func New(cfg config.AdminConfig, tokens *token.Service, sessions store.SessionStore, logger *slog.Logger, opts ...Option) *Gate {
	g := &Gate{
		cfg:      cfg,
		tokens:   tokens,
		sessions: sessions,
		logger:   logger,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Login checks the credential pair and, on success, opens an admin session
// and issues a bearer token bound to it.
func (g *Gate) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if !g.credentialsMatch(username, password) {
		g.recordLogin(ctx, "failure", username, "invalid credentials")
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}

	now := requestcontext.Now(ctx)
	sess := models.AdminSession{
		ID:        uuid.NewString(),
		Username:  username,
		ClientIP:  requestcontext.ClientIP(ctx),
		Device:    deviceOf(requestcontext.UserAgent(ctx)),
		IssuedAt:  now,
		ExpiresAt: now.Add(g.cfg.SessionTTL),
	}
	if err := g.sessions.Save(ctx, sess); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist admin session")
	}

	signed, err := g.tokens.Issue(username, sess.ID, now, g.cfg.SessionTTL)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue admin token")
	}

	g.recordLogin(ctx, "success", username, "")
	g.logger.InfoContext(ctx, "admin login",
		"username", username,
		"session_id", sess.ID,
		"device", sess.Device,
	)
	return &LoginResult{Token: signed, ExpiresAt: sess.ExpiresAt}, nil
}

// Authenticate validates a bearer token and resolves the session behind it.
// A revoked or expired session fails even when the token itself still
// verifies.
func (g *Gate) Authenticate(ctx context.Context, bearer string) (*models.AdminSession, error) {
	claims, err := g.tokens.Validate(bearer)
	if err != nil {
		return nil, err
	}
	sess, err := g.sessions.FindByID(ctx, claims.SessionID)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "session revoked or expired")
	}
	if sess.Expired(requestcontext.Now(ctx)) {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "session revoked or expired")
	}
	return &sess, nil
}

// Logout revokes the session behind the token. Idempotent; a second logout
// with the same token succeeds.
func (g *Gate) Logout(ctx context.Context, bearer string) error {
	claims, err := g.tokens.Validate(bearer)
	if err != nil {
		return err
	}
	if err := g.sessions.Delete(ctx, claims.SessionID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke admin session")
	}

	if g.auditor != nil {
		g.auditor.Emit(ctx, audit.Event{
			Action:  audit.ActionAdminLogout,
			Subject: claims.Username,
		})
	}
	g.logger.InfoContext(ctx, "admin logout",
		"username", claims.Username,
		"session_id", claims.SessionID,
	)
	return nil
}

// credentialsMatch compares in constant time. With a bcrypt hash configured
// the cleartext fallback is ignored; with neither configured the gate stays
// closed.
func (g *Gate) credentialsMatch(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(g.cfg.Username)) == 1

	if g.cfg.PasswordHash != "" {
		err := bcrypt.CompareHashAndPassword([]byte(g.cfg.PasswordHash), []byte(password))
		return userOK && err == nil
	}
	if g.cfg.Password == "" {
		return false
	}
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(g.cfg.Password)) == 1
	return userOK && passOK
}

func (g *Gate) recordLogin(ctx context.Context, result, username, reason string) {
	if g.metrics != nil {
		g.metrics.AdminLogins.WithLabelValues(result).Inc()
	}
	if g.auditor == nil {
		return
	}
	action := audit.ActionAdminLogin
	if result != "success" {
		action = audit.ActionAdminLoginFailed
	}
	g.auditor.Emit(ctx, audit.Event{
		Action:  action,
		Subject: username,
		Reason:  reason,
		Device:  deviceOf(requestcontext.UserAgent(ctx)),
	})
}

// deviceOf condenses a raw user-agent string into a short human-readable
// label for the audit trail.
func deviceOf(rawUA string) string {
	if rawUA == "" {
		return ""
	}
	ua := useragent.New(rawUA)
	browser, version := ua.Browser()
	if browser == "" {
		return rawUA
	}
	parts := []string{browser}
	if version != "" {
		parts = append(parts, version)
	}
	label := strings.Join(parts, " ")
	if os := ua.OS(); os != "" {
		label = fmt.Sprintf("%s on %s", label, os)
	}
	return label
}
