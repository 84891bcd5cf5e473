package models

import "github.com/google/uuid"

// Employee is the authenticated back-office user behind a request
type Employee struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CompanyID uuid.UUID `json:"company_id"`
	Role      string    `json:"role"`
}
