package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PostgresStore implements Store using the transactional outbox pattern.
// Events are written to the outbox table and published to Kafka by the
// outbox worker; Kafka is the downstream source of truth for the trail.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Schema for reference (managed by migrations):
//
//	CREATE TABLE audit_outbox (
//	    id           UUID PRIMARY KEY,
//	    subject      TEXT NOT NULL,
//	    action       TEXT NOT NULL,
//	    payload      JSONB NOT NULL,
//	    created_at   TIMESTAMPTZ NOT NULL,
//	    published_at TIMESTAMPTZ
//	);
//	CREATE INDEX audit_outbox_unpublished ON audit_outbox (created_at) WHERE published_at IS NULL;
//	CREATE INDEX audit_outbox_subject ON audit_outbox (subject, created_at);

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}
	const query = `
		INSERT INTO audit_outbox (id, subject, action, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := s.db.ExecContext(ctx, query,
		event.ID, event.Subject, string(event.Action), payload, event.Timestamp,
	); err != nil {
		return fmt.Errorf("insert outbox entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListBySubject(ctx context.Context, subject string) ([]Event, error) {
	const query = `
		SELECT payload FROM audit_outbox
		WHERE subject = $1
		ORDER BY created_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, subject)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		var event Event
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, fmt.Errorf("unmarshal audit event: %w", err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// outboxEntry is one unpublished row claimed by the worker.
type outboxEntry struct {
	ID      uuid.UUID
	Subject string
	Payload []byte
}

// FetchUnpublished returns up to limit unpublished entries, oldest first.
func (s *PostgresStore) FetchUnpublished(ctx context.Context, limit int) ([]outboxEntry, error) {
	const query = `
		SELECT id, subject, payload FROM audit_outbox
		WHERE published_at IS NULL
		ORDER BY created_at ASC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch unpublished entries: %w", err)
	}
	defer rows.Close()

	var entries []outboxEntry
	for rows.Next() {
		var e outboxEntry
		if err := rows.Scan(&e.ID, &e.Subject, &e.Payload); err != nil {
			return nil, fmt.Errorf("scan outbox entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// MarkPublished stamps an entry after the broker acknowledged it.
func (s *PostgresStore) MarkPublished(ctx context.Context, id uuid.UUID, at time.Time) error {
	const query = `UPDATE audit_outbox SET published_at = $2 WHERE id = $1`
	if _, err := s.db.ExecContext(ctx, query, id, at); err != nil {
		return fmt.Errorf("mark outbox entry published: %w", err)
	}
	return nil
}
