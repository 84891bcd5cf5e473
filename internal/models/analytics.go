package models

// AmortizationRow is one derived row of an amortization schedule
type AmortizationRow struct {
	Number    int     `json:"installment"`
	Date      string  `json:"date"` // Format: YYYY-MM-DD
	Interest  float64 `json:"interest"`
	Principal float64 `json:"principal"`
	Payment   float64 `json:"payment"`
	Balance   float64 `json:"remaining_balance"`
}

// ScheduleSummary aggregates an amortization schedule
type ScheduleSummary struct {
	TotalInterest  float64 `json:"total_interest"`
	TotalPrincipal float64 `json:"total_principal"`
	TotalPayment   float64 `json:"total_payment"`
	PeriodPayment  float64 `json:"period_payment"`
	EffectiveRate  float64 `json:"effective_rate"` // monthly %, implied when a fixed payment is used
}

// BalanceBreakdown is the current outstanding balance of a loan
type BalanceBreakdown struct {
	BaseBalance    float64 `json:"base_balance"`
	PendingCharges float64 `json:"pending_charges"`
	TotalBalance   float64 `json:"total_balance"`
	Fallback       bool    `json:"fallback,omitempty"`
}

// Schedule is an amortization schedule as returned to clients
type Schedule struct {
	Rows    []AmortizationRow `json:"rows"`
	Summary ScheduleSummary   `json:"summary"`
}
