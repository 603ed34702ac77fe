// Package handler exposes the verification workflow over HTTP. The caller's
// session identity comes from the session middleware; handlers never touch
// the header directly.
package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"kycvault/internal/domain"
	"kycvault/internal/workflow/models"
	dErrors "kycvault/pkg/domain-errors"
	"kycvault/pkg/platform/httputil"
	"kycvault/pkg/requestcontext"
)

// maxUploadBytes bounds the in-memory part of multipart parsing. Matches the
// engine's own upload limit.
const maxUploadBytes = 10 << 20

// Service defines the workflow operations the handler needs.
type Service interface {
	Get(ctx context.Context, sessionID string) (*models.Session, error)
	SubmitIdentity(ctx context.Context, sessionID string, draft domain.IdentityDraft) (*models.Session, error)
	SubmitDocument(ctx context.Context, sessionID, fileName string, file io.Reader) (*models.Session, error)
	Reset(ctx context.Context, sessionID string) (*models.Session, error)
}

// Handler wires verification endpoints to the workflow service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts verification endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/verification", func(r chi.Router) {
		r.Get("/", h.HandleGet)
		r.Post("/identity", h.HandleSubmitIdentity)
		r.Post("/document", h.HandleSubmitDocument)
		r.Post("/reset", h.HandleReset)
	})
}

// HandleGet handles GET /verification.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid, ok := h.sessionID(w, ctx)
	if !ok {
		return
	}

	sess, err := h.service.Get(ctx, sid)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromSession(sess))
}

// HandleSubmitIdentity handles POST /verification/identity.
func (h *Handler) HandleSubmitIdentity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	sid, ok := h.sessionID(w, ctx)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[IdentityRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	sess, err := h.service.SubmitIdentity(ctx, sid, req.Draft())
	if err != nil {
		h.logger.WarnContext(ctx, "identity submission rejected",
			"request_id", requestID,
			"session_id", sid,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromSession(sess))
}

// HandleSubmitDocument handles POST /verification/document. The body is
// multipart; the image travels under the "file" part.
func (h *Handler) HandleSubmitDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	sid, ok := h.sessionID(w, ctx)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid multipart body"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "a document image is required"))
		return
	}
	defer file.Close()

	sess, err := h.service.SubmitDocument(ctx, sid, header.Filename, file)
	if err != nil {
		h.logger.WarnContext(ctx, "document submission rejected",
			"request_id", requestID,
			"session_id", sid,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromSession(sess))
}

// HandleReset handles POST /verification/reset.
func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid, ok := h.sessionID(w, ctx)
	if !ok {
		return
	}

	sess, err := h.service.Reset(ctx, sid)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromSession(sess))
}

func (h *Handler) sessionID(w http.ResponseWriter, ctx context.Context) (string, bool) {
	sid := requestcontext.SessionID(ctx)
	if sid == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "missing session identity"))
		return "", false
	}
	return sid, true
}
