//go:build integration

package store_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"pensionledger/internal/benefit/models"
	"pensionledger/internal/benefit/store"
	id "pensionledger/pkg/domain"
	"pensionledger/pkg/platform/sentinel"
	"pensionledger/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.Postgres
	now      time.Time
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	// Truncate in dependency order
	err := s.postgres.TruncateTables(ctx, "benefit_payments", "retiree_benefits")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) registerRetiree() id.RetireeID {
	retireeID := id.NewRetireeID()
	benefit, err := models.NewRetireeBenefit(retireeID, 30, 50_000, 200, s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.CreateRetiree(context.Background(), benefit))
	return retireeID
}

func (s *PostgresStoreSuite) recordPayment(retireeID id.RetireeID, amount uint64) uint64 {
	sequence, err := s.store.RecordPayment(context.Background(), retireeID,
		&models.BenefitPayment{RetireeID: retireeID, Amount: amount, PaidAt: s.now},
		func(*models.RetireeBenefit) error { return nil },
	)
	s.Require().NoError(err)
	return sequence
}

// TestConcurrentRegistration verifies exactly one of many concurrent
// registrations for the same retiree succeeds.
func (s *PostgresStoreSuite) TestConcurrentRegistration() {
	ctx := context.Background()
	retireeID := id.NewRetireeID()
	const goroutines = 20

	var wg sync.WaitGroup
	var successCount, conflictCount atomic.Int32
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			benefit, err := models.NewRetireeBenefit(retireeID, 30, 50_000, 200, s.now)
			s.Require().NoError(err)
			err = s.store.CreateRetiree(ctx, benefit)
			if err == nil {
				successCount.Add(1)
			} else if errors.Is(err, sentinel.ErrConflict) {
				conflictCount.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successCount.Load(), "exactly one create should succeed")
	s.Equal(int32(goroutines-1), conflictCount.Load())
}

// TestConcurrentPayments verifies the row lock keeps sequences dense under
// concurrent writers.
func (s *PostgresStoreSuite) TestConcurrentPayments() {
	ctx := context.Background()
	retireeID := s.registerRetiree()
	const writers = 20

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.recordPayment(retireeID, 1_000)
		}()
	}
	wg.Wait()

	count, err := s.store.PaymentCount(ctx, retireeID)
	s.Require().NoError(err)
	s.Equal(uint64(writers), count)

	for sequence := uint64(0); sequence < writers; sequence++ {
		_, err := s.store.FindPayment(ctx, retireeID, sequence)
		s.Require().NoError(err, "sequence %d should exist", sequence)
	}

	total, err := s.store.SumPayments(ctx, retireeID)
	s.Require().NoError(err)
	s.Equal(uint64(writers*1_000), total)
}

func (s *PostgresStoreSuite) TestPaymentValidation() {
	ctx := context.Background()
	retireeID := s.registerRetiree()

	_, err := s.store.ExecuteRetiree(ctx, retireeID,
		func(*models.RetireeBenefit) error { return nil },
		func(r *models.RetireeBenefit) { r.ApplyStatus(false, s.now) },
	)
	s.Require().NoError(err)

	validationErr := errors.New("retiree is not active")
	_, err = s.store.RecordPayment(ctx, retireeID,
		&models.BenefitPayment{RetireeID: retireeID, Amount: 1_000, PaidAt: s.now},
		func(r *models.RetireeBenefit) error {
			if !r.Active {
				return validationErr
			}
			return nil
		},
	)
	s.Require().ErrorIs(err, validationErr)

	count, err := s.store.PaymentCount(ctx, retireeID)
	s.Require().NoError(err)
	s.Equal(uint64(0), count)
}

func (s *PostgresStoreSuite) TestSumPayments() {
	ctx := context.Background()

	for _, count := range []uint64{0, 1, 10, 11, 25} {
		retireeID := s.registerRetiree()
		var want uint64
		for i := uint64(0); i < count; i++ {
			amount := (i + 1) * 100
			want += amount
			s.recordPayment(retireeID, amount)
		}

		total, err := s.store.SumPayments(ctx, retireeID)
		s.Require().NoError(err)
		s.Equal(want, total, "count=%d", count)
	}
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	retireeID := s.registerRetiree()

	found, err := s.store.FindRetiree(ctx, retireeID)
	s.Require().NoError(err)
	s.Equal(retireeID, found.RetireeID)
	s.Equal(uint64(30_000), found.MonthlyBenefit)
	s.True(found.Active)
	s.True(found.RetirementDate.Equal(s.now))

	_, err = s.store.FindRetiree(ctx, id.NewRetireeID())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}
