package models

import "github.com/google/uuid"

// CollectionTracking is a collection follow-up entry for a loan
type CollectionTracking struct {
	ID              uuid.UUID  `json:"id"`
	LoanID          uuid.UUID  `json:"loan_id"`
	ClientName      string     `json:"client_name"`
	ContactType     string     `json:"contact_type"`
	NextContactDate string     `json:"next_contact_date"`
	Notes           string     `json:"notes"`
	LoanStatus      LoanStatus `json:"loan_status"`
}

// Client represents a borrower
type Client struct {
	ID        uuid.UUID `json:"id"`
	CompanyID uuid.UUID `json:"company_id"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
}
