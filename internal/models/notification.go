package models

import "github.com/google/uuid"

// NotificationType classifies a reminder
type NotificationType string

const (
	NotificationPaymentOverdue NotificationType = "payment_overdue"
	NotificationPaymentDue     NotificationType = "payment_due"
	NotificationFollowUp       NotificationType = "collection_follow_up"
	NotificationLateFee        NotificationType = "late_fee"
)

// Priority of a notification
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank orders priorities, higher first
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Notification is a derived reminder shown to back-office staff
type Notification struct {
	ID       string           `json:"id"`
	Type     NotificationType `json:"type"`
	Priority Priority         `json:"priority"`
	Title    string           `json:"title"`
	Message  string           `json:"message"`
	LoanID   uuid.UUID        `json:"loan_id"`
	DueDate  string           `json:"due_date"`
	Amount   float64          `json:"amount,omitempty"`
}
