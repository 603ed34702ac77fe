// Package handler exposes the admin dashboard views: risk summary, record
// listings, fraud alerts, and CSV export. Every view is computed from a fresh
// engine snapshot on each request; nothing is cached between refreshes.
package handler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"kycvault/internal/audit"
	"kycvault/internal/domain"
	"kycvault/internal/export"
	"kycvault/internal/records"
	"kycvault/internal/triage"
	dErrors "kycvault/pkg/domain-errors"
	"kycvault/pkg/platform/httputil"
	"kycvault/pkg/requestcontext"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 200
)

// Snapshotter fetches a fresh record snapshot from the engine.
type Snapshotter interface {
	FetchAll(ctx context.Context) records.Snapshot
}

// Dispatcher relays CSV extracts from the engine.
type Dispatcher interface {
	Dispatch(ctx context.Context, rawCategory string) (io.ReadCloser, domain.ExportCategory, error)
}

// AuditLog reads back the persisted audit trail, newest first.
type AuditLog interface {
	ListRecent(ctx context.Context, limit int) ([]audit.Event, error)
}

// Handler wires dashboard endpoints to the record repository, the export
// dispatcher, and the audit trail.
type Handler struct {
	repo       Snapshotter
	dispatcher Dispatcher
	auditLog   AuditLog
	logger     *slog.Logger
}

func New(repo Snapshotter, dispatcher Dispatcher, auditLog AuditLog, logger *slog.Logger) *Handler {
	return &Handler{repo: repo, dispatcher: dispatcher, auditLog: auditLog, logger: logger}
}

// Register mounts dashboard endpoints on the router. The router is expected
// to guard these routes with the admin gate.
func (h *Handler) Register(r chi.Router) {
	r.Route("/dashboard", func(r chi.Router) {
		r.Get("/summary", h.HandleSummary)
		r.Get("/records", h.HandleRecords)
		r.Get("/alerts", h.HandleAlerts)
		r.Get("/audit", h.HandleAudit)
	})
	r.Get("/export", h.HandleExport)
}

// HandleSummary handles GET /dashboard/summary. Counts come from the
// per-user view so one user with several documents is counted once.
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	snap := h.repo.FetchAll(ctx)

	httputil.WriteJSON(w, http.StatusOK, SummaryResponse{
		Summary: triage.Aggregate(snap.Users),
		Total:   len(snap.Users),
		Recent:  recordViews(triage.Recent(snap.Users, triage.DefaultRecentSize)),
	})
}

// HandleRecords handles GET /dashboard/records.
func (h *Handler) HandleRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	snap := h.repo.FetchAll(ctx)

	httputil.WriteJSON(w, http.StatusOK, RecordsResponse{
		Users:     recordViews(snap.Users),
		Documents: recordViews(snap.Documents),
	})
}

// HandleAlerts handles GET /dashboard/alerts. Alerts come from the
// per-document view so every suspicious document shows up individually.
func (h *Handler) HandleAlerts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	snap := h.repo.FetchAll(ctx)

	alerts := triage.Alerts(snap.Documents)
	httputil.WriteJSON(w, http.StatusOK, AlertsResponse{
		Alerts: recordViews(alerts),
		Count:  len(alerts),
	})
}

// HandleAudit handles GET /dashboard/audit?limit=. Events come back newest
// first from whichever store backs the audit trail.
func (h *Handler) HandleAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := defaultAuditLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "limit must be a positive integer"))
			return
		}
		limit = n
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}

	events, err := h.auditLog.ListRecent(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to read audit trail", "error", err)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read audit trail"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, AuditResponse{
		Events: events,
		Count:  len(events),
	})
}

// HandleExport handles GET /export?type=. The engine's CSV stream is copied
// straight through; an absent type requests the full extract.
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	raw := r.URL.Query().Get("type")
	if raw == "" {
		raw = string(domain.ExportAll)
	}

	stream, category, err := h.dispatcher.Dispatch(ctx, raw)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	defer stream.Close()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", export.FileName(category, requestcontext.Now(ctx))))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, stream); err != nil {
		h.logger.WarnContext(ctx, "export stream interrupted",
			"category", category,
			"error", err,
		)
	}
}
