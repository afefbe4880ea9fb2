// Package store provides the allocation ledger's persistence
// implementations: in-memory for tests and development, postgres for
// production.
package store

import (
	"context"
	"sync"

	"pensionledger/internal/allocation/models"
	id "pensionledger/pkg/domain"
	"pensionledger/pkg/platform/sentinel"
)

// InMemory keeps asset classes in process memory. IDs are dense from 0 and
// never reused; records are never deleted. The mutex serializes mutations
// so Execute callbacks see a consistent record and readers never observe a
// partially-applied write.
type InMemory struct {
	mu        sync.RWMutex
	classes   map[id.AssetClassID]*models.AssetClass
	nextID    id.AssetClassID
	fundTotal uint64
}

func NewInMemory() *InMemory {
	return &InMemory{classes: make(map[id.AssetClassID]*models.AssetClass)}
}

func (s *InMemory) Append(_ context.Context, assetClass *models.AssetClass) (id.AssetClassID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	assigned := s.nextID
	assetClass.ID = assigned
	s.classes[assigned] = assetClass.Clone()
	s.nextID++
	return assigned, nil
}

func (s *InMemory) Execute(_ context.Context, assetClassID id.AssetClassID,
	validate func(*models.AssetClass) error,
	mutate func(*models.AssetClass)) (*models.AssetClass, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	assetClass, ok := s.classes[assetClassID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if err := validate(assetClass); err != nil {
		return nil, err
	}
	mutate(assetClass)
	return assetClass.Clone(), nil
}

func (s *InMemory) FindByID(_ context.Context, assetClassID id.AssetClassID) (*models.AssetClass, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if assetClass, ok := s.classes[assetClassID]; ok {
		return assetClass.Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) Count(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return uint64(s.nextID), nil
}

func (s *InMemory) TotalFundValue(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fundTotal, nil
}

func (s *InMemory) SetTotalFundValue(_ context.Context, value uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fundTotal = value
	return nil
}
