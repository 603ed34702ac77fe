package audit

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const auditSchema = `
CREATE TABLE IF NOT EXISTS audit_events (
	id            BIGSERIAL PRIMARY KEY,
	timestamp     TIMESTAMPTZ NOT NULL,
	action        TEXT NOT NULL,
	session_id    TEXT NOT NULL DEFAULT '',
	subject       TEXT NOT NULL DEFAULT '',
	document_type TEXT NOT NULL DEFAULT '',
	risk_level    TEXT NOT NULL DEFAULT '',
	reason        TEXT NOT NULL DEFAULT '',
	client_ip     TEXT NOT NULL DEFAULT '',
	user_agent    TEXT NOT NULL DEFAULT '',
	device        TEXT NOT NULL DEFAULT '',
	request_id    TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS audit_events_timestamp_idx ON audit_events (timestamp DESC);
`

// PostgresStore persists the audit trail in Postgres. The trail is append-only
// and queried only for recency, so a single flat table is enough.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore bootstraps the schema and returns the store.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	if _, err := pool.Exec(ctx, auditSchema); err != nil {
		return nil, fmt.Errorf("bootstrap audit schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	query := `
		INSERT INTO audit_events (
			timestamp, action, session_id, subject, document_type,
			risk_level, reason, client_ip, user_agent, device, request_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.pool.Exec(ctx, query,
		event.Timestamp,
		event.Action,
		event.SessionID,
		event.Subject,
		event.DocumentType,
		event.RiskLevel,
		event.Reason,
		event.ClientIP,
		event.UserAgent,
		event.Device,
		event.RequestID,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListRecent returns the last limit events, newest first.
func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]Event, error) {
	query := `
		SELECT timestamp, action, session_id, subject, document_type,
			   risk_level, reason, client_ip, user_agent, device, request_id
		FROM audit_events
		ORDER BY timestamp DESC
		LIMIT $1
	`
	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		err := rows.Scan(
			&e.Timestamp,
			&e.Action,
			&e.SessionID,
			&e.Subject,
			&e.DocumentType,
			&e.RiskLevel,
			&e.Reason,
			&e.ClientIP,
			&e.UserAgent,
			&e.Device,
			&e.RequestID,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
