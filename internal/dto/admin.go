package dto

type UpdateLimitsRequestDTO struct {
	DailyLimitCount    *int64 `json:"daily_limit_count"`
	DailyLimitAmount   *int64 `json:"daily_limit_amount"`
	MonthlyLimitCount  *int64 `json:"monthly_limit_count"`
	MonthlyLimitAmount *int64 `json:"monthly_limit_amount"`
}

type LimitsResponseDTO struct {
	DailyCount    int64  `json:"daily_count" example:"5"`
	DailyAmount   int64  `json:"daily_amount" example:"20000000"`
	MonthlyCount  *int64 `json:"monthly_count,omitempty"`
	MonthlyAmount *int64 `json:"monthly_amount,omitempty"`
}

type ReconcileReportDTO struct {
	Total     int      `json:"total" example:"10"`
	Completed int      `json:"completed" example:"7"`
	Rejected  int      `json:"rejected" example:"2"`
	Errors    []string `json:"errors"`
}

type ReconcileResponseDTO struct {
	Payouts      ReconcileReportDTO `json:"payouts"`
	Transactions ReconcileReportDTO `json:"transactions"`
}
