package models

import (
	"time"

	"github.com/google/uuid"
)

// Payment represents a payment applied to a loan
type Payment struct {
	ID              uuid.UUID `json:"id"`
	LoanID          uuid.UUID `json:"loan_id"`
	Amount          float64   `json:"amount"`
	DueDate         string    `json:"due_date"`
	InterestAmount  float64   `json:"interest_amount"`
	PrincipalAmount float64   `json:"principal_amount"`
	PaymentDate     string    `json:"payment_date"`
	CreatedAt       time.Time `json:"created_at"`
}

// CapitalPayment is an out-of-schedule payment applied directly to principal
type CapitalPayment struct {
	ID        uuid.UUID `json:"id"`
	LoanID    uuid.UUID `json:"loan_id"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}
