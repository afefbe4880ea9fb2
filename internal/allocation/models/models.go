package models

import (
	"time"
	"unicode/utf8"

	id "pensionledger/pkg/domain"
	dErrors "pensionledger/pkg/domain-errors"
)

const (
	// MaxNameBytes bounds the asset class name length.
	MaxNameBytes = 64
	// MaxPercent is the inclusive upper bound for allocation percentages.
	MaxPercent = 100
)

// AssetClass is a named bucket of fund capital with a target allocation
// percentage and an observed current value.
//
// Invariants:
//   - AllocationPercent is in [0,100] at all times
//   - ID is assigned once by the store's monotonic counter, never reused
//   - Records are never deleted
//
// The sum of AllocationPercent across classes is deliberately NOT enforced;
// callers are responsible for coherent totals. Enforcing it here would
// reject input sets the upstream administration flow depends on accepting
// (e.g. staged rebalances that pass through an incoherent intermediate sum).
type AssetClass struct {
	ID                id.AssetClassID `json:"id"`
	Name              string          `json:"name"`
	AllocationPercent uint64          `json:"allocation_percent"`
	CurrentValue      uint64          `json:"current_value"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// NewAssetClass validates inputs and builds a record with a zero current
// value. The ID is assigned by the store on append.
func NewAssetClass(name string, allocationPercent uint64, now time.Time) (*AssetClass, error) {
	if name == "" || len(name) > MaxNameBytes || !utf8.ValidString(name) {
		return nil, dErrors.New(dErrors.CodeBadRequest, "asset class name must be 1-64 bytes of valid UTF-8")
	}
	if allocationPercent > MaxPercent {
		return nil, dErrors.New(dErrors.CodeInvalidPercentage, "allocation percentage must not exceed 100")
	}
	return &AssetClass{
		Name:              name,
		AllocationPercent: allocationPercent,
		CurrentValue:      0,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// CanSetAllocation checks the percentage bound without mutating the record.
// Use with ApplyAllocation in Execute callbacks.
func (a *AssetClass) CanSetAllocation(allocationPercent uint64) error {
	if allocationPercent > MaxPercent {
		return dErrors.New(dErrors.CodeInvalidPercentage, "allocation percentage must not exceed 100")
	}
	return nil
}

// ApplyAllocation replaces only the allocation percentage, preserving name
// and current value. Call CanSetAllocation first to validate.
func (a *AssetClass) ApplyAllocation(allocationPercent uint64, now time.Time) {
	a.AllocationPercent = allocationPercent
	a.UpdatedAt = now
}

// ApplyValue replaces only the current value. No bound beyond the native
// unsigned range.
func (a *AssetClass) ApplyValue(currentValue uint64, now time.Time) {
	a.CurrentValue = currentValue
	a.UpdatedAt = now
}

// Clone returns an independent copy so store snapshots never alias live
// records.
func (a *AssetClass) Clone() *AssetClass {
	cp := *a
	return &cp
}
