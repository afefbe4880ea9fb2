package handler

type registerRetireeRequest struct {
	RetireeID          string `json:"retiree_id"`
	YearsOfService     uint64 `json:"years_of_service"`
	FinalAverageSalary uint64 `json:"final_average_salary"`
	BenefitFactor      uint64 `json:"benefit_factor"`
}

type registerRetireeResponse struct {
	MonthlyBenefit uint64 `json:"monthly_benefit"`
}

// Active is a pointer so a missing field is distinguishable from false.
type updateStatusRequest struct {
	Active *bool `json:"active"`
}

type recordPaymentRequest struct {
	Amount uint64 `json:"amount"`
}

type recordPaymentResponse struct {
	Sequence uint64 `json:"sequence"`
}

type paymentCountResponse struct {
	Count uint64 `json:"count"`
}

type totalPaymentsResponse struct {
	Total uint64 `json:"total"`
}
