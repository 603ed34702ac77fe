package audit

import (
	"context"
	"log/slog"
	"time"

	"kycvault/pkg/requestcontext"
)

// Store is the append-only persistence behind the audit trail.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}

// Publisher hands events to the background worker over a bounded channel.
// Emit never blocks the request path: when the inbox is full the event is
// dropped and counted against the log instead.
type Publisher struct {
	inbox  chan Event
	logger *slog.Logger
}

func NewPublisher(logger *slog.Logger, buffer int) *Publisher {
	if buffer <= 0 {
		buffer = 256
	}
	return &Publisher{
		inbox:  make(chan Event, buffer),
		logger: logger,
	}
}

// Inbox is the worker's read side.
func (p *Publisher) Inbox() <-chan Event {
	return p.inbox
}

// Emit stamps the event with request-scoped metadata and enqueues it.
func (p *Publisher) Emit(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.ClientIP == "" {
		event.ClientIP = requestcontext.ClientIP(ctx)
	}
	if event.UserAgent == "" {
		event.UserAgent = requestcontext.UserAgent(ctx)
	}

	select {
	case p.inbox <- event:
	default:
		p.logger.WarnContext(ctx, "audit inbox full, dropping event",
			"action", event.Action,
			"subject", event.Subject,
		)
	}
}
