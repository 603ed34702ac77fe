// Package records is the client-side view of the engine's record collection.
// The collection is append-only and read-mostly; nothing is cached across
// calls, and every dashboard refresh re-fetches a fresh snapshot.
package records

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"kycvault/internal/domain"
	"kycvault/internal/platform/metrics"
)

// Source is the subset of the scoring engine client the repository needs.
type Source interface {
	Records(ctx context.Context) ([]domain.VerificationRecord, error)
	AllRecords(ctx context.Context) ([]domain.VerificationRecord, error)
}

// Snapshot is one consistent read of the engine's two record views, both
// normalized to the internal record shape so a single aggregator serves both.
// Immutable for the duration of one aggregation pass; concurrent fetches
// produce independent snapshots and the last completed fetch wins.
type Snapshot struct {
	// Users holds the per-user records (overall score, final status).
	Users []domain.VerificationRecord
	// Documents holds the narrow per-document records.
	Documents []domain.VerificationRecord
}

// Repository fetches record snapshots from the engine.
type Repository struct {
	source  Source
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New constructs a Repository.
func New(source Source, logger *slog.Logger, m *metrics.Metrics) *Repository {
	return &Repository{source: source, logger: logger, metrics: m}
}

// FetchAll fetches both record views concurrently. A failed fetch degrades to
// an empty view rather than blocking the dashboard: the aggregator reports
// all-zero counts and the failure is logged, not surfaced.
func (r *Repository) FetchAll(ctx context.Context) Snapshot {
	var snap Snapshot

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		users, err := r.source.AllRecords(ctx)
		if err != nil {
			r.degrade(ctx, "all-records", err)
			return nil
		}
		snap.Users = users
		return nil
	})
	g.Go(func() error {
		docs, err := r.source.Records(ctx)
		if err != nil {
			r.degrade(ctx, "records", err)
			return nil
		}
		snap.Documents = docs
		return nil
	})
	_ = g.Wait()

	return snap
}

func (r *Repository) degrade(ctx context.Context, view string, err error) {
	r.logger.WarnContext(ctx, "record fetch degraded to empty snapshot",
		"view", view,
		"error", err,
	)
	if r.metrics != nil {
		r.metrics.RecordFetchFailures.Inc()
	}
}
