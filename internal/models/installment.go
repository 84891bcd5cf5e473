package models

import (
	"math"

	"github.com/google/uuid"
)

// Installment represents a scheduled due obligation of a loan
type Installment struct {
	ID              uuid.UUID `json:"id"`
	LoanID          uuid.UUID `json:"loan_id"`
	Number          int       `json:"installment_number"`
	DueDate         string    `json:"due_date"`
	PrincipalAmount float64   `json:"principal_amount"`
	InterestAmount  float64   `json:"interest_amount"`
	TotalAmount     float64   `json:"total_amount"`
	IsPaid          bool      `json:"is_paid"`
}

// IsCharge reports whether the installment is a fee-only charge:
// no interest and the whole total booked as principal.
func (i *Installment) IsCharge() bool {
	return math.Abs(i.InterestAmount) < 0.01 && math.Abs(i.PrincipalAmount-i.TotalAmount) < 0.01
}
