// Package scoring is the outbound client for the external extraction and
// fraud-scoring engine. The engine owns OCR, scoring, risk classification,
// and CSV generation; this package only moves bytes and normalizes shapes.
package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"kycvault/internal/domain"
	"kycvault/internal/platform/config"
	dErrors "kycvault/pkg/domain-errors"
)

// Upload carries one document submission to the engine.
type Upload struct {
	FileName string
	File     io.Reader
	Identity domain.IdentityDraft
}

// Engine talks to the scoring service over HTTP. All failures surface as
// upstream-coded errors so callers can treat them as transient.
type Engine struct {
	baseURL *url.URL
	client  *http.Client
	logger  *slog.Logger
	tracer  trace.Tracer
}

// New builds an engine client from config.
func New(cfg config.EngineConfig, logger *slog.Logger) (*Engine, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse engine base URL: %w", err)
	}
	return &Engine{
		baseURL: base,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
		tracer:  otel.Tracer("kycvault/scoring"),
	}, nil
}

// Classify submits a document image plus the declared identity to the engine
// and returns the classified record. POST /upload, multipart.
func (e *Engine) Classify(ctx context.Context, up Upload) (domain.VerificationRecord, error) {
	ctx, span := e.tracer.Start(ctx, "engine.classify")
	defer span.End()

	body, contentType, err := encodeUpload(up)
	if err != nil {
		return domain.VerificationRecord{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode upload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint("/upload"), body)
	if err != nil {
		return domain.VerificationRecord{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to build upload request")
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := e.client.Do(req)
	if err != nil {
		return domain.VerificationRecord{}, dErrors.Wrap(err, dErrors.CodeUpstream, "scoring engine unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		e.logger.ErrorContext(ctx, "unexpected response from scoring engine",
			"status_code", resp.StatusCode,
			"url", req.URL.String(),
		)
		return domain.VerificationRecord{}, dErrors.New(dErrors.CodeUpstream,
			fmt.Sprintf("scoring engine returned status %d", resp.StatusCode))
	}

	var wire wireRecord
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return domain.VerificationRecord{}, dErrors.Wrap(err, dErrors.CodeUpstream, "failed to decode classification response")
	}

	rec := wire.toDomain()
	if rec.UserName == "" {
		rec.UserName = up.Identity.Name
	}
	span.SetAttributes(
		attribute.String("document_type", string(rec.DocumentType())),
		attribute.String("risk_level", string(rec.RiskLevel)),
	)
	return rec, nil
}

// Records fetches the narrow per-document record collection. GET /records.
func (e *Engine) Records(ctx context.Context) ([]domain.VerificationRecord, error) {
	ctx, span := e.tracer.Start(ctx, "engine.records")
	defer span.End()

	var wires []wireRecord
	if err := e.getJSON(ctx, "/records", &wires); err != nil {
		return nil, err
	}

	records := make([]domain.VerificationRecord, 0, len(wires))
	for _, w := range wires {
		records = append(records, w.toDomain())
	}
	return records, nil
}

// AllRecords fetches the rich per-user record collection. GET /all-records.
func (e *Engine) AllRecords(ctx context.Context) ([]domain.VerificationRecord, error) {
	ctx, span := e.tracer.Start(ctx, "engine.all_records")
	defer span.End()

	var wires []wireOverallRecord
	if err := e.getJSON(ctx, "/all-records", &wires); err != nil {
		return nil, err
	}

	records := make([]domain.VerificationRecord, 0, len(wires))
	for _, w := range wires {
		records = append(records, w.toDomain())
	}
	return records, nil
}

// ExportCSV requests a filtered extract keyed by category and returns the
// opaque file stream. The caller owns closing the reader. The category token
// passes through unmodified; the engine owns the category-to-record mapping.
func (e *Engine) ExportCSV(ctx context.Context, category domain.ExportCategory) (io.ReadCloser, error) {
	ctx, span := e.tracer.Start(ctx, "engine.export_csv")
	span.SetAttributes(attribute.String("category", string(category)))
	defer span.End()

	u := e.endpoint("/export_csv")
	q := url.Values{}
	q.Set("type", string(category))
	u += "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to build export request")
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUpstream, "scoring engine unreachable")
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, dErrors.New(dErrors.CodeUpstream,
			fmt.Sprintf("scoring engine returned status %d", resp.StatusCode))
	}
	return resp.Body, nil
}

func (e *Engine) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.endpoint(path), nil)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to build request")
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUpstream, "scoring engine unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		e.logger.ErrorContext(ctx, "unexpected response from scoring engine",
			"status_code", resp.StatusCode,
			"url", req.URL.String(),
		)
		return dErrors.New(dErrors.CodeUpstream,
			fmt.Sprintf("scoring engine returned status %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUpstream, "failed to decode engine response")
	}
	return nil
}

func (e *Engine) endpoint(path string) string {
	return e.baseURL.JoinPath(path).String()
}

// encodeUpload builds the multipart body the engine expects: the file part
// plus the userName/userDob/userGender fields used for cross-matching.
func encodeUpload(up Upload) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", up.FileName)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, up.File); err != nil {
		return nil, "", err
	}

	fields := map[string]string{
		"userName":   up.Identity.Name,
		"userDob":    up.Identity.DateOfBirth,
		"userGender": string(up.Identity.Gender),
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
