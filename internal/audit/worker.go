package audit

import (
	"context"
	"log/slog"
)

// Sink receives a copy of every event after it is persisted. Used for the
// optional Kafka fan-out; nil means store-only.
type Sink interface {
	Send(ctx context.Context, event Event) error
}

// Worker consumes audit events from the publisher's inbox and persists them.
// Persistence failures are logged and skipped; the audit trail is best-effort
// and must never wedge the pipeline behind one bad event.
type Worker struct {
	store  Store
	sink   Sink
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(store Store, sink Sink, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{store: store, sink: sink, inbox: inbox, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.store.Append(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "failed to persist audit event",
					"action", event.Action,
					"error", err,
				)
				continue
			}
			if w.sink != nil {
				if err := w.sink.Send(ctx, event); err != nil {
					w.logger.WarnContext(ctx, "failed to forward audit event to sink",
						"action", event.Action,
						"error", err,
					)
				}
			}
		}
	}
}
