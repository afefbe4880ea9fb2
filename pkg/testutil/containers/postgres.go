//go:build integration

package containers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

// schema mirrors the production migrations so store integration tests run
// against the real table shapes.
const schema = `
CREATE TABLE IF NOT EXISTS asset_classes (
    id                 BIGINT PRIMARY KEY,
    name               TEXT NOT NULL,
    allocation_percent BIGINT NOT NULL CHECK (allocation_percent BETWEEN 0 AND 100),
    current_value      NUMERIC(20,0) NOT NULL DEFAULT 0,
    created_at         TIMESTAMPTZ NOT NULL,
    updated_at         TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS allocation_counter (
    singleton BOOLEAN PRIMARY KEY DEFAULT TRUE CHECK (singleton),
    next_id   BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS fund_total (
    singleton   BOOLEAN PRIMARY KEY DEFAULT TRUE CHECK (singleton),
    total_value NUMERIC(20,0) NOT NULL
);

CREATE TABLE IF NOT EXISTS retiree_benefits (
    retiree_id           UUID PRIMARY KEY,
    years_of_service     BIGINT NOT NULL CHECK (years_of_service > 0),
    final_average_salary NUMERIC(20,0) NOT NULL CHECK (final_average_salary > 0),
    benefit_factor       BIGINT NOT NULL CHECK (benefit_factor > 0),
    monthly_benefit      NUMERIC(20,0) NOT NULL,
    retirement_date      TIMESTAMPTZ NOT NULL,
    active               BOOLEAN NOT NULL,
    next_sequence        BIGINT NOT NULL DEFAULT 0,
    updated_at           TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS benefit_payments (
    retiree_id UUID NOT NULL REFERENCES retiree_benefits (retiree_id),
    sequence   BIGINT NOT NULL,
    amount     NUMERIC(20,0) NOT NULL,
    paid_at    TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (retiree_id, sequence)
);

CREATE TABLE IF NOT EXISTS audit_outbox (
    id           UUID PRIMARY KEY,
    subject      TEXT NOT NULL,
    action       TEXT NOT NULL,
    payload      JSONB NOT NULL,
    created_at   TIMESTAMPTZ NOT NULL,
    published_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS audit_outbox_unpublished ON audit_outbox (created_at) WHERE published_at IS NULL;
CREATE INDEX IF NOT EXISTS audit_outbox_subject ON audit_outbox (subject, created_at);
`

// PostgresContainer wraps a testcontainers PostgreSQL instance with the
// ledger schema applied.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

// NewPostgresContainer starts a postgres container and applies the schema.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("pensionledger_test"),
		tcpostgres.WithUsername("pensionledger"),
		tcpostgres.WithPassword("pensionledger"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to open postgres connection: %v", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to ping postgres: %v", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to apply schema: %v", err)
	}

	// The container is shared across suites; Ryuk reaps it after the run.
	return &PostgresContainer{
		Container: container,
		DSN:       dsn,
		DB:        db,
	}
}

// TruncateTables empties the given tables. Use in SetupTest to isolate
// suites that share the container.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}
	query := fmt.Sprintf("TRUNCATE TABLE %s CASCADE", strings.Join(tables, ", "))
	if _, err := p.DB.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("truncate tables: %w", err)
	}
	return nil
}
