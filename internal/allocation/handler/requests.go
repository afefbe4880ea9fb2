package handler

type addAssetClassRequest struct {
	Name              string `json:"name"`
	AllocationPercent uint64 `json:"allocation_percent"`
}

type addAssetClassResponse struct {
	ID uint64 `json:"id"`
}

type updateAllocationRequest struct {
	AllocationPercent uint64 `json:"allocation_percent"`
}

type updateValueRequest struct {
	CurrentValue uint64 `json:"current_value"`
}

type updateFundTotalRequest struct {
	TotalValue uint64 `json:"total_value"`
}

type countResponse struct {
	Count uint64 `json:"count"`
}

type fundTotalResponse struct {
	TotalValue uint64 `json:"total_value"`
}
