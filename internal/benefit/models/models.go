package models

import (
	"math/bits"
	"time"

	id "pensionledger/pkg/domain"
	dErrors "pensionledger/pkg/domain-errors"
)

// BasisPointsDivisor converts a benefit factor in basis points to a
// fraction: a factor of 200 denotes 2%.
const BasisPointsDivisor = 10_000

// RetireeBenefit is a retiree's entitlement record.
//
// Invariants:
//   - Created exactly once per retiree; re-registration is rejected
//     regardless of the current Active value
//   - MonthlyBenefit is computed at registration and frozen; there is no
//     update path for the three source fields
//   - Only Active is mutable after creation (toggle only, no terminal state)
type RetireeBenefit struct {
	RetireeID          id.RetireeID `json:"retiree_id"`
	YearsOfService     uint64       `json:"years_of_service"`
	FinalAverageSalary uint64       `json:"final_average_salary"`
	BenefitFactor      uint64       `json:"benefit_factor"`
	MonthlyBenefit     uint64       `json:"monthly_benefit"`
	RetirementDate     time.Time    `json:"retirement_date"`
	Active             bool         `json:"active"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

// NewRetireeBenefit validates the entitlement inputs and computes the
// frozen monthly benefit. All three numeric inputs must be positive.
func NewRetireeBenefit(retireeID id.RetireeID, yearsOfService, finalAverageSalary, benefitFactor uint64, now time.Time) (*RetireeBenefit, error) {
	if retireeID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "retiree id is required")
	}
	if yearsOfService == 0 || finalAverageSalary == 0 || benefitFactor == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidParameters, "years of service, salary, and benefit factor must be positive")
	}
	monthly, err := MonthlyBenefit(yearsOfService, finalAverageSalary, benefitFactor)
	if err != nil {
		return nil, err
	}
	return &RetireeBenefit{
		RetireeID:          retireeID,
		YearsOfService:     yearsOfService,
		FinalAverageSalary: finalAverageSalary,
		BenefitFactor:      benefitFactor,
		MonthlyBenefit:     monthly,
		RetirementDate:     now,
		Active:             true,
		UpdatedAt:          now,
	}, nil
}

// MonthlyBenefit computes floor(years * salary * factor / 10000) with the
// division truncating toward zero. Inputs whose product overflows the
// native unsigned range are rejected rather than silently wrapped.
func MonthlyBenefit(yearsOfService, finalAverageSalary, benefitFactor uint64) (uint64, error) {
	hi, lo := bits.Mul64(yearsOfService, finalAverageSalary)
	if hi != 0 {
		return 0, dErrors.New(dErrors.CodeInvalidParameters, "benefit computation overflows")
	}
	hi, product := bits.Mul64(lo, benefitFactor)
	if hi != 0 {
		return 0, dErrors.New(dErrors.CodeInvalidParameters, "benefit computation overflows")
	}
	return product / BasisPointsDivisor, nil
}

// ApplyStatus overwrites only the Active flag; all other fields untouched.
func (r *RetireeBenefit) ApplyStatus(active bool, now time.Time) {
	r.Active = active
	r.UpdatedAt = now
}

// CanReceivePayment checks that payments are currently allowed.
func (r *RetireeBenefit) CanReceivePayment() error {
	if !r.Active {
		return dErrors.New(dErrors.CodeInvalidParameters, "retiree is not active")
	}
	return nil
}

// Clone returns an independent copy so store snapshots never alias live
// records.
func (r *RetireeBenefit) Clone() *RetireeBenefit {
	cp := *r
	return &cp
}

// BenefitPayment is one recorded payment. Entries are immutable once
// written; sequences per retiree are dense from 0 with no gaps or repeats.
type BenefitPayment struct {
	RetireeID id.RetireeID `json:"retiree_id"`
	Sequence  uint64       `json:"sequence"`
	Amount    uint64       `json:"amount"`
	PaidAt    time.Time    `json:"paid_at"`
}
