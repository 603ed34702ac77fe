// Package service drives the verification workflow state machine. One
// instance of the workflow exists per caller session; every transition is
// applied through the session store so replicas agree on the current stage.
package service

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"kycvault/internal/audit"
	"kycvault/internal/domain"
	"kycvault/internal/platform/metrics"
	"kycvault/internal/scoring"
	"kycvault/internal/workflow/models"
	"kycvault/internal/workflow/store"
	dErrors "kycvault/pkg/domain-errors"
	"kycvault/pkg/requestcontext"
)

// Classifier is the slice of the scoring engine client the workflow needs.
type Classifier interface {
	Classify(ctx context.Context, up scoring.Upload) (domain.VerificationRecord, error)
}

// AuditEmitter records workflow milestones on the audit trail.
type AuditEmitter interface {
	Emit(ctx context.Context, event audit.Event)
}

// Service owns workflow transitions. The document stream itself is never
// retained; it flows straight through to the engine.
type Service struct {
	sessions store.SessionStore
	engine   Classifier
	logger   *slog.Logger
	metrics  *metrics.Metrics
	auditor  AuditEmitter
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithMetrics attaches workflow counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithAuditEmitter attaches the audit trail.
func WithAuditEmitter(a AuditEmitter) Option {
	return func(s *Service) { s.auditor = a }
}

func New(sessions store.SessionStore, engine Classifier, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		sessions: sessions,
		engine:   engine,
		logger:   logger,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Get reports the current workflow stage. An unknown session is simply a
// workflow that has not started yet.
func (s *Service) Get(ctx context.Context, sessionID string) (*models.Session, error) {
	sess, err := s.sessions.FindByID(ctx, sessionID)
	if errors.Is(err, store.ErrNotFound) {
		return models.NewSession(sessionID, requestcontext.Now(ctx)), nil
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load workflow session")
	}
	return sess, nil
}

// SubmitIdentity validates the declared identity and advances the workflow to
// the document stage. A validation failure leaves the stage untouched.
// Re-submitting identity details starts a fresh attempt and discards any
// previous classification, but is rejected while a submission is in flight.
func (s *Service) SubmitIdentity(ctx context.Context, sessionID string, draft domain.IdentityDraft) (*models.Session, error) {
	draft.Normalize()
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	sess, err := s.sessions.Mutate(ctx, sessionID, func(m *models.Session) error {
		if m.State == models.StateSubmitting {
			return dErrors.New(dErrors.CodeConflict, "a document submission is in flight")
		}
		m.Draft = draft
		m.Record = nil
		m.State = models.StateAwaitingDocument
		m.UpdatedAt = now
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		sess = models.NewSession(sessionID, now)
		sess.Draft = draft
		sess.State = models.StateAwaitingDocument
		if saveErr := s.sessions.Save(ctx, sess); saveErr != nil {
			return nil, dErrors.Wrap(saveErr, dErrors.CodeInternal, "failed to persist workflow session")
		}
	} else if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.VerificationsStarted.Inc()
	}
	s.logger.InfoContext(ctx, "identity submitted",
		"session_id", sessionID,
		"state", sess.State,
	)
	return sess, nil
}

// SubmitDocument sends the document image plus the stored identity draft to
// the scoring engine and applies the classification. At most one submission
// is in flight per workflow instance; the result is applied only if the
// workflow is still in the submitting stage when the response lands.
func (s *Service) SubmitDocument(ctx context.Context, sessionID, fileName string, file io.Reader) (*models.Session, error) {
	if file == nil || fileName == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "a document image is required")
	}

	now := requestcontext.Now(ctx)

	// Claim the submitting slot before any I/O happens.
	var draft domain.IdentityDraft
	_, err := s.sessions.Mutate(ctx, sessionID, func(m *models.Session) error {
		switch m.State {
		case models.StateSubmitting:
			return dErrors.New(dErrors.CodeConflict, "a document submission is already in flight")
		case models.StateAwaitingDocument:
			if !m.Draft.Complete() {
				return dErrors.New(dErrors.CodePrecondition, "identity details must be submitted first")
			}
			draft = m.Draft
			m.State = models.StateSubmitting
			m.UpdatedAt = now
			return nil
		default:
			return dErrors.New(dErrors.CodePrecondition, "identity details must be submitted first")
		}
	})
	if errors.Is(err, store.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodePrecondition, "identity details must be submitted first")
	}
	if err != nil {
		return nil, err
	}

	record, classifyErr := s.engine.Classify(ctx, scoring.Upload{
		FileName: fileName,
		File:     file,
		Identity: draft,
	})
	if classifyErr != nil {
		return nil, s.releaseFailedSubmission(ctx, sessionID, draft, classifyErr)
	}
	return s.applyClassification(ctx, sessionID, record)
}

// releaseFailedSubmission returns the workflow to the document stage so the
// caller can retry with the same identity draft.
func (s *Service) releaseFailedSubmission(ctx context.Context, sessionID string, draft domain.IdentityDraft, cause error) error {
	_, err := s.sessions.Mutate(ctx, sessionID, func(m *models.Session) error {
		if m.State == models.StateSubmitting {
			m.State = models.StateAwaitingDocument
			m.UpdatedAt = requestcontext.Now(ctx)
		}
		return nil
	})
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		s.logger.ErrorContext(ctx, "failed to release submission slot",
			"session_id", sessionID,
			"error", err,
		)
	}

	if s.metrics != nil {
		s.metrics.UploadsFailed.Inc()
	}
	if s.auditor != nil {
		s.auditor.Emit(ctx, audit.Event{
			Action:    audit.ActionUploadFailed,
			SessionID: sessionID,
			Subject:   draft.Name,
			Reason:    dErrors.MessageOf(cause),
		})
	}
	s.logger.WarnContext(ctx, "document submission failed",
		"session_id", sessionID,
		"error", cause,
	)
	return cause
}

// applyClassification commits the engine's verdict, unless the workflow moved
// on while the call was in flight, in which case the result is discarded.
func (s *Service) applyClassification(ctx context.Context, sessionID string, record domain.VerificationRecord) (*models.Session, error) {
	stale := false
	sess, err := s.sessions.Mutate(ctx, sessionID, func(m *models.Session) error {
		if m.State != models.StateSubmitting {
			stale = true
			return nil
		}
		m.Record = &record
		m.State = models.StateClassified
		m.UpdatedAt = requestcontext.Now(ctx)
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		stale = true
	} else if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist classification")
	}

	if stale {
		s.logger.InfoContext(ctx, "classification result discarded, workflow moved on",
			"session_id", sessionID,
		)
		return nil, dErrors.New(dErrors.CodeConflict, "workflow was reset during classification; result discarded")
	}

	if s.metrics != nil {
		s.metrics.VerificationsClassified.WithLabelValues(string(record.RiskLevel)).Inc()
	}
	if s.auditor != nil {
		s.auditor.Emit(ctx, audit.Event{
			Action:       audit.ActionVerificationClassified,
			SessionID:    sessionID,
			Subject:      record.UserName,
			DocumentType: string(record.DocumentType()),
			RiskLevel:    string(record.RiskLevel),
		})
	}
	s.logger.InfoContext(ctx, "verification classified",
		"session_id", sessionID,
		"document_type", record.DocumentType(),
		"risk_level", record.RiskLevel,
	)
	return sess, nil
}

// Reset abandons the current attempt and returns the workflow to the identity
// stage. The identity draft and any classification are discarded. Resetting
// while a submission is in flight is allowed; the late response is then
// discarded by the staleness check.
func (s *Service) Reset(ctx context.Context, sessionID string) (*models.Session, error) {
	fresh := models.NewSession(sessionID, requestcontext.Now(ctx))
	if err := s.sessions.Save(ctx, fresh); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to reset workflow session")
	}

	if s.auditor != nil {
		s.auditor.Emit(ctx, audit.Event{
			Action:    audit.ActionWorkflowReset,
			SessionID: sessionID,
		})
	}
	s.logger.InfoContext(ctx, "workflow reset", "session_id", sessionID)
	return fresh, nil
}
