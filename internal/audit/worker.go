package audit

import (
	"context"
	"log/slog"
	"time"
)

// Sink publishes a serialized audit event downstream. Implemented by the
// kafka producer.
type Sink interface {
	Publish(ctx context.Context, key, payload []byte) error
}

const workerBatchSize = 100

// Worker drains the postgres outbox into the sink. Entries are marked
// published only after the sink acknowledges, so a crash between publish
// and mark yields at-least-once delivery (consumers deduplicate on event id).
type Worker struct {
	store    *PostgresStore
	sink     Sink
	logger   *slog.Logger
	interval time.Duration
}

func NewWorker(store *PostgresStore, sink Sink, logger *slog.Logger, interval time.Duration) *Worker {
	return &Worker{store: store, sink: sink, logger: logger, interval: interval}
}

// Run polls the outbox until the context is canceled.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.drain(ctx); err != nil {
				w.logger.ErrorContext(ctx, "outbox drain failed", "error", err.Error())
			}
		}
	}
}

func (w *Worker) drain(ctx context.Context) error {
	entries, err := w.store.FetchUnpublished(ctx, workerBatchSize)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := w.sink.Publish(ctx, []byte(entry.Subject), entry.Payload); err != nil {
			// Leave the entry unpublished; the next tick retries from here.
			return err
		}
		if err := w.store.MarkPublished(ctx, entry.ID, time.Now()); err != nil {
			return err
		}
	}
	return nil
}
