package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"pensionledger/internal/benefit/models"
	id "pensionledger/pkg/domain"
	"pensionledger/pkg/platform/sentinel"
)

// Postgres persists benefit records and payments in PostgreSQL.
//
// Schema for reference (managed by migrations):
//
//	CREATE TABLE retiree_benefits (
//	    retiree_id           UUID PRIMARY KEY,
//	    years_of_service     BIGINT NOT NULL CHECK (years_of_service > 0),
//	    final_average_salary NUMERIC(20,0) NOT NULL CHECK (final_average_salary > 0),
//	    benefit_factor       BIGINT NOT NULL CHECK (benefit_factor > 0),
//	    monthly_benefit      NUMERIC(20,0) NOT NULL,
//	    retirement_date      TIMESTAMPTZ NOT NULL,
//	    active               BOOLEAN NOT NULL,
//	    next_sequence        BIGINT NOT NULL DEFAULT 0,
//	    updated_at           TIMESTAMPTZ NOT NULL
//	);
//	CREATE TABLE benefit_payments (
//	    retiree_id UUID NOT NULL REFERENCES retiree_benefits (retiree_id),
//	    sequence   BIGINT NOT NULL,
//	    amount     NUMERIC(20,0) NOT NULL,
//	    paid_at    TIMESTAMPTZ NOT NULL,
//	    PRIMARY KEY (retiree_id, sequence)
//	);
//
// The payment counter lives on the benefit row so RecordPayment can lock
// one row FOR UPDATE and atomically validate, append, and advance.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) CreateRetiree(ctx context.Context, benefit *models.RetireeBenefit) error {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO retiree_benefits
			(retiree_id, years_of_service, final_average_salary, benefit_factor,
			 monthly_benefit, retirement_date, active, next_sequence, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8)
		ON CONFLICT (retiree_id) DO NOTHING
	`, uuid.UUID(benefit.RetireeID), benefit.YearsOfService, benefit.FinalAverageSalary,
		benefit.BenefitFactor, benefit.MonthlyBenefit, benefit.RetirementDate,
		benefit.Active, benefit.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert retiree benefit: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert retiree benefit: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *Postgres) ExecuteRetiree(ctx context.Context, retireeID id.RetireeID,
	validate func(*models.RetireeBenefit) error,
	mutate func(*models.RetireeBenefit)) (*models.RetireeBenefit, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin execute tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	benefit, err := scanRetiree(tx.QueryRowContext(ctx, selectRetiree+` FOR UPDATE`, uuid.UUID(retireeID)))
	if err != nil {
		return nil, err
	}

	if err := validate(benefit); err != nil {
		return nil, err
	}
	mutate(benefit)

	_, err = tx.ExecContext(ctx, `
		UPDATE retiree_benefits SET active = $2, updated_at = $3 WHERE retiree_id = $1
	`, uuid.UUID(retireeID), benefit.Active, benefit.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("update retiree benefit: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit execute tx: %w", err)
	}
	return benefit, nil
}

func (s *Postgres) FindRetiree(ctx context.Context, retireeID id.RetireeID) (*models.RetireeBenefit, error) {
	return scanRetiree(s.db.QueryRowContext(ctx, selectRetiree, uuid.UUID(retireeID)))
}

func (s *Postgres) RecordPayment(ctx context.Context, retireeID id.RetireeID, payment *models.BenefitPayment,
	validate func(*models.RetireeBenefit) error) (uint64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin payment tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	benefit, err := scanRetiree(tx.QueryRowContext(ctx, selectRetiree+` FOR UPDATE`, uuid.UUID(retireeID)))
	if err != nil {
		return 0, err
	}
	if err := validate(benefit); err != nil {
		return 0, err
	}

	var sequence uint64
	err = tx.QueryRowContext(ctx,
		`SELECT next_sequence FROM retiree_benefits WHERE retiree_id = $1`,
		uuid.UUID(retireeID)).Scan(&sequence)
	if err != nil {
		return 0, fmt.Errorf("read payment counter: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO benefit_payments (retiree_id, sequence, amount, paid_at)
		VALUES ($1, $2, $3, $4)
	`, uuid.UUID(retireeID), sequence, payment.Amount, payment.PaidAt)
	if err != nil {
		return 0, fmt.Errorf("insert benefit payment: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE retiree_benefits SET next_sequence = $2 WHERE retiree_id = $1`,
		uuid.UUID(retireeID), sequence+1)
	if err != nil {
		return 0, fmt.Errorf("advance payment counter: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit payment tx: %w", err)
	}
	return sequence, nil
}

func (s *Postgres) FindPayment(ctx context.Context, retireeID id.RetireeID, sequence uint64) (*models.BenefitPayment, error) {
	var payment models.BenefitPayment
	var rawID uuid.UUID
	err := s.db.QueryRowContext(ctx, `
		SELECT retiree_id, sequence, amount, paid_at
		FROM benefit_payments WHERE retiree_id = $1 AND sequence = $2
	`, uuid.UUID(retireeID), sequence).Scan(&rawID, &payment.Sequence, &payment.Amount, &payment.PaidAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan benefit payment: %w", err)
	}
	payment.RetireeID = id.RetireeID(rawID)
	return &payment, nil
}

func (s *Postgres) PaymentCount(ctx context.Context, retireeID id.RetireeID) (uint64, error) {
	var count uint64
	err := s.db.QueryRowContext(ctx,
		`SELECT next_sequence FROM retiree_benefits WHERE retiree_id = $1`,
		uuid.UUID(retireeID)).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read payment counter: %w", err)
	}
	return count, nil
}

// SumPayments aggregates over the full dense sequence [0, count) in SQL.
func (s *Postgres) SumPayments(ctx context.Context, retireeID id.RetireeID) (uint64, error) {
	var total uint64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM benefit_payments WHERE retiree_id = $1
	`, uuid.UUID(retireeID)).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum benefit payments: %w", err)
	}
	return total, nil
}

const selectRetiree = `
	SELECT retiree_id, years_of_service, final_average_salary, benefit_factor,
	       monthly_benefit, retirement_date, active, updated_at
	FROM retiree_benefits WHERE retiree_id = $1`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRetiree(row rowScanner) (*models.RetireeBenefit, error) {
	var benefit models.RetireeBenefit
	var rawID uuid.UUID
	err := row.Scan(&rawID, &benefit.YearsOfService, &benefit.FinalAverageSalary,
		&benefit.BenefitFactor, &benefit.MonthlyBenefit, &benefit.RetirementDate,
		&benefit.Active, &benefit.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan retiree benefit: %w", err)
	}
	benefit.RetireeID = id.RetireeID(rawID)
	return &benefit, nil
}
