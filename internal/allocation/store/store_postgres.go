package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pensionledger/internal/allocation/models"
	id "pensionledger/pkg/domain"
	"pensionledger/pkg/platform/sentinel"
)

// Postgres persists asset classes in PostgreSQL.
//
// Schema for reference (managed by migrations):
//
//	CREATE TABLE asset_classes (
//	    id                 BIGINT PRIMARY KEY,
//	    name               TEXT NOT NULL,
//	    allocation_percent BIGINT NOT NULL CHECK (allocation_percent BETWEEN 0 AND 100),
//	    current_value      NUMERIC(20,0) NOT NULL DEFAULT 0,
//	    created_at         TIMESTAMPTZ NOT NULL,
//	    updated_at         TIMESTAMPTZ NOT NULL
//	);
//	CREATE TABLE allocation_counter (
//	    singleton BOOLEAN PRIMARY KEY DEFAULT TRUE CHECK (singleton),
//	    next_id   BIGINT NOT NULL
//	);
//	CREATE TABLE fund_total (
//	    singleton   BOOLEAN PRIMARY KEY DEFAULT TRUE CHECK (singleton),
//	    total_value NUMERIC(20,0) NOT NULL
//	);
//
// The counter row is locked FOR UPDATE while assigning an ID so IDs stay
// dense and monotonic under concurrent writers; Execute locks the target
// row the same way so validate-then-mutate is atomic.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Append(ctx context.Context, assetClass *models.AssetClass) (id.AssetClassID, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin append tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var nextID uint64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO allocation_counter (singleton, next_id) VALUES (TRUE, 0)
		ON CONFLICT (singleton) DO UPDATE SET next_id = allocation_counter.next_id
		RETURNING next_id
	`).Scan(&nextID)
	if err != nil {
		return 0, fmt.Errorf("lock allocation counter: %w", err)
	}

	assigned := id.AssetClassID(nextID)
	_, err = tx.ExecContext(ctx, `
		INSERT INTO asset_classes (id, name, allocation_percent, current_value, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, nextID, assetClass.Name, assetClass.AllocationPercent, assetClass.CurrentValue,
		assetClass.CreatedAt, assetClass.UpdatedAt)
	if err != nil {
		return 0, fmt.Errorf("insert asset class: %w", err)
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE allocation_counter SET next_id = $1 WHERE singleton`, nextID+1); err != nil {
		return 0, fmt.Errorf("advance allocation counter: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit append tx: %w", err)
	}
	assetClass.ID = assigned
	return assigned, nil
}

func (s *Postgres) Execute(ctx context.Context, assetClassID id.AssetClassID,
	validate func(*models.AssetClass) error,
	mutate func(*models.AssetClass)) (*models.AssetClass, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin execute tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	assetClass, err := scanAssetClass(tx.QueryRowContext(ctx, `
		SELECT id, name, allocation_percent, current_value, created_at, updated_at
		FROM asset_classes WHERE id = $1
		FOR UPDATE
	`, uint64(assetClassID)))
	if err != nil {
		return nil, err
	}

	if err := validate(assetClass); err != nil {
		return nil, err
	}
	mutate(assetClass)

	_, err = tx.ExecContext(ctx, `
		UPDATE asset_classes
		SET name = $2, allocation_percent = $3, current_value = $4, updated_at = $5
		WHERE id = $1
	`, uint64(assetClass.ID), assetClass.Name, assetClass.AllocationPercent,
		assetClass.CurrentValue, assetClass.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("update asset class: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit execute tx: %w", err)
	}
	return assetClass, nil
}

func (s *Postgres) FindByID(ctx context.Context, assetClassID id.AssetClassID) (*models.AssetClass, error) {
	return scanAssetClass(s.db.QueryRowContext(ctx, `
		SELECT id, name, allocation_percent, current_value, created_at, updated_at
		FROM asset_classes WHERE id = $1
	`, uint64(assetClassID)))
}

func (s *Postgres) Count(ctx context.Context) (uint64, error) {
	var count uint64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(next_id, 0) FROM allocation_counter WHERE singleton`).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read allocation counter: %w", err)
	}
	return count, nil
}

func (s *Postgres) TotalFundValue(ctx context.Context) (uint64, error) {
	var total uint64
	err := s.db.QueryRowContext(ctx,
		`SELECT total_value FROM fund_total WHERE singleton`).Scan(&total)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read fund total: %w", err)
	}
	return total, nil
}

func (s *Postgres) SetTotalFundValue(ctx context.Context, value uint64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO fund_total (singleton, total_value) VALUES (TRUE, $1)
		ON CONFLICT (singleton) DO UPDATE SET total_value = EXCLUDED.total_value
	`, value)
	if err != nil {
		return fmt.Errorf("set fund total: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAssetClass(row rowScanner) (*models.AssetClass, error) {
	var assetClass models.AssetClass
	var rawID uint64
	err := row.Scan(&rawID, &assetClass.Name, &assetClass.AllocationPercent,
		&assetClass.CurrentValue, &assetClass.CreatedAt, &assetClass.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan asset class: %w", err)
	}
	assetClass.ID = id.AssetClassID(rawID)
	return &assetClass, nil
}
