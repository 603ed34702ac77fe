// Package export relays CSV extracts from the scoring engine to the admin.
// The dispatcher never materializes the file: the engine's stream is handed
// straight to the response writer. Export is read-only and changes no
// workflow or record state.
package export

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"kycvault/internal/audit"
	"kycvault/internal/domain"
	"kycvault/internal/platform/metrics"
)

// Exporter is the slice of the scoring engine client the dispatcher needs.
type Exporter interface {
	ExportCSV(ctx context.Context, category domain.ExportCategory) (io.ReadCloser, error)
}

// AuditEmitter records export requests on the audit trail.
type AuditEmitter interface {
	Emit(ctx context.Context, event audit.Event)
}

// Dispatcher validates the category token and relays the engine's stream.
type Dispatcher struct {
	engine  Exporter
	logger  *slog.Logger
	metrics *metrics.Metrics
	auditor AuditEmitter
}

// Option configures optional dispatcher collaborators.
type Option func(*Dispatcher)

func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

func WithAuditEmitter(a AuditEmitter) Option {
	return func(d *Dispatcher) { d.auditor = a }
}

func New(engine Exporter, logger *slog.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{engine: engine, logger: logger}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Dispatch requests the extract for a raw category token and returns the
// engine's stream. The caller owns closing the reader. Dispatching the same
// category twice yields equivalent requests; nothing is consumed.
func (d *Dispatcher) Dispatch(ctx context.Context, rawCategory string) (io.ReadCloser, domain.ExportCategory, error) {
	category, err := domain.ParseExportCategory(rawCategory)
	if err != nil {
		return nil, "", err
	}

	stream, err := d.engine.ExportCSV(ctx, category)
	if err != nil {
		d.logger.ErrorContext(ctx, "export request failed",
			"category", category,
			"error", err,
		)
		return nil, "", err
	}

	if d.metrics != nil {
		d.metrics.ExportsRequested.WithLabelValues(string(category)).Inc()
	}
	if d.auditor != nil {
		d.auditor.Emit(ctx, audit.Event{
			Action: audit.ActionExportRequested,
			Reason: string(category),
		})
	}
	d.logger.InfoContext(ctx, "export dispatched", "category", category)
	return stream, category, nil
}

// FileName names the downloaded extract after its category and request date.
func FileName(category domain.ExportCategory, now time.Time) string {
	return fmt.Sprintf("kyc_%s_records_%s.csv", category, now.Format("2006-01-02"))
}
