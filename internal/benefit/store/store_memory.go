// Package store provides the benefit ledger's persistence implementations:
// in-memory for tests and development, postgres for production, and a
// redis-backed cache for payment total aggregations.
package store

import (
	"context"
	"sync"

	"pensionledger/internal/benefit/models"
	id "pensionledger/pkg/domain"
	"pensionledger/pkg/platform/sentinel"
)

type paymentKey struct {
	retiree  id.RetireeID
	sequence uint64
}

// InMemory keeps benefit records and payments in process memory. One mutex
// serializes all mutations, so the counter, the payment log, and the
// benefit record stay mutually consistent and readers never observe a
// partially-applied write.
type InMemory struct {
	mu       sync.RWMutex
	retirees map[id.RetireeID]*models.RetireeBenefit
	payments map[paymentKey]*models.BenefitPayment
	counters map[id.RetireeID]uint64
}

func NewInMemory() *InMemory {
	return &InMemory{
		retirees: make(map[id.RetireeID]*models.RetireeBenefit),
		payments: make(map[paymentKey]*models.BenefitPayment),
		counters: make(map[id.RetireeID]uint64),
	}
}

func (s *InMemory) CreateRetiree(_ context.Context, benefit *models.RetireeBenefit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.retirees[benefit.RetireeID]; exists {
		return sentinel.ErrConflict
	}
	s.retirees[benefit.RetireeID] = benefit.Clone()
	s.counters[benefit.RetireeID] = 0
	return nil
}

func (s *InMemory) ExecuteRetiree(_ context.Context, retireeID id.RetireeID,
	validate func(*models.RetireeBenefit) error,
	mutate func(*models.RetireeBenefit)) (*models.RetireeBenefit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	benefit, ok := s.retirees[retireeID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if err := validate(benefit); err != nil {
		return nil, err
	}
	mutate(benefit)
	return benefit.Clone(), nil
}

func (s *InMemory) FindRetiree(_ context.Context, retireeID id.RetireeID) (*models.RetireeBenefit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if benefit, ok := s.retirees[retireeID]; ok {
		return benefit.Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) RecordPayment(_ context.Context, retireeID id.RetireeID, payment *models.BenefitPayment,
	validate func(*models.RetireeBenefit) error) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	benefit, ok := s.retirees[retireeID]
	if !ok {
		return 0, sentinel.ErrNotFound
	}
	if err := validate(benefit); err != nil {
		return 0, err
	}

	sequence := s.counters[retireeID]
	stored := *payment
	stored.RetireeID = retireeID
	stored.Sequence = sequence
	s.payments[paymentKey{retiree: retireeID, sequence: sequence}] = &stored
	s.counters[retireeID] = sequence + 1
	return sequence, nil
}

func (s *InMemory) FindPayment(_ context.Context, retireeID id.RetireeID, sequence uint64) (*models.BenefitPayment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if payment, ok := s.payments[paymentKey{retiree: retireeID, sequence: sequence}]; ok {
		cp := *payment
		return &cp, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) PaymentCount(_ context.Context, retireeID id.RetireeID) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counters[retireeID], nil
}

// SumPayments scans the full dense sequence [0, count). Sequences have no
// gaps by construction, so a straight iteration is exact.
func (s *InMemory) SumPayments(_ context.Context, retireeID id.RetireeID) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := s.counters[retireeID]
	var total uint64
	for sequence := uint64(0); sequence < count; sequence++ {
		total += s.payments[paymentKey{retiree: retireeID, sequence: sequence}].Amount
	}
	return total, nil
}
