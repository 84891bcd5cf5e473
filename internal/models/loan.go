package models

import (
	"time"

	"github.com/google/uuid"
)

// AmortizationType selects how scheduled payments reduce principal
type AmortizationType string

const (
	AmortizationFixed      AmortizationType = "fixed"
	AmortizationIndefinite AmortizationType = "indefinite"
)

// Frequency is the payment frequency of a loan
type Frequency string

const (
	FrequencyDaily     Frequency = "daily"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyBiweekly  Frequency = "biweekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
)

// Valid reports whether f is one of the known frequencies
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyBiweekly,
		FrequencyMonthly, FrequencyQuarterly, FrequencyYearly:
		return true
	}
	return false
}

// LoanStatus is the lifecycle status of a loan
type LoanStatus string

const (
	LoanStatusActive  LoanStatus = "active"
	LoanStatusOverdue LoanStatus = "overdue"
	LoanStatusPaid    LoanStatus = "paid"
	LoanStatusDeleted LoanStatus = "deleted"
)

// DateLayout is the wire and storage format of calendar dates
const DateLayout = "2006-01-02"

// Loan represents a loan in the system
type Loan struct {
	ID               uuid.UUID        `json:"id"`
	ClientID         uuid.UUID        `json:"client_id"`
	CompanyID        uuid.UUID        `json:"company_id"`
	ClientName       string           `json:"client_name,omitempty"`
	Amount           float64          `json:"amount"`
	InterestRate     float64          `json:"interest_rate"`
	TermMonths       int              `json:"term_months"`
	AmortizationType AmortizationType `json:"amortization_type"`
	Frequency        Frequency        `json:"payment_frequency"`
	MonthlyPayment   float64          `json:"monthly_payment"`
	RemainingBalance float64          `json:"remaining_balance"`
	StartDate        string           `json:"start_date"`
	NextPaymentDate  string           `json:"next_payment_date"`
	Status           LoanStatus       `json:"status"`
	LateFeeEnabled   bool             `json:"late_fee_enabled"`
	CurrentLateFee   float64          `json:"current_late_fee"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// IsIndefinite reports whether the loan is interest-only revolving
func (l *Loan) IsIndefinite() bool {
	return l.AmortizationType == AmortizationIndefinite
}

// IsOpen reports whether the loan still expects payments
func (l *Loan) IsOpen() bool {
	return l.Status == LoanStatusActive || l.Status == LoanStatusOverdue
}

// DateKey returns the date portion (YYYY-MM-DD) of a stored date or timestamp string
func DateKey(s string) string {
	if len(s) > len(DateLayout) {
		return s[:len(DateLayout)]
	}
	return s
}

// ParseDate parses the date portion of a stored date string
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, DateKey(s))
}
