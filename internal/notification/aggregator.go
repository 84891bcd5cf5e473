// Package notification derives back-office reminders from loans and
// collection follow-ups.
package notification

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/BladePruebasSC/cloud-loans-web-sub006/internal/metrics"
	"github.com/BladePruebasSC/cloud-loans-web-sub006/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// lookahead is how many days ahead due dates and contacts are reported
const lookahead = 7

// Source reads the rows reminders are derived from
type Source interface {
	OpenLoans(ctx context.Context, companyID uuid.UUID) ([]models.Loan, error)
	UpcomingContacts(ctx context.Context, companyID uuid.UUID, from, to string) ([]models.CollectionTracking, error)
	LateFeeLoans(ctx context.Context, companyID uuid.UUID) ([]models.Loan, error)
}

// Aggregator builds the notification list of a company
type Aggregator struct {
	src Source
	log *logrus.Logger
}

// NewAggregator initializes a new aggregator
func NewAggregator(src Source, log *logrus.Logger) *Aggregator {
	return &Aggregator{src: src, log: log}
}

// Generate evaluates every rule against fresh data. A category whose data
// cannot be read is logged and left out.
func (a *Aggregator) Generate(ctx context.Context, companyID uuid.UUID, now time.Time) []models.Notification {
	today := Day(now)
	var out []models.Notification

	if loans, err := a.src.OpenLoans(ctx, companyID); err != nil {
		a.fetchFailed(companyID, "payments", err)
	} else {
		out = append(out, Overdue(loans, today)...)
		out = append(out, Upcoming(loans, today)...)
	}

	from := today.Format(models.DateLayout)
	to := today.AddDate(0, 0, lookahead).Format(models.DateLayout)
	if rows, err := a.src.UpcomingContacts(ctx, companyID, from, to); err != nil {
		a.fetchFailed(companyID, "collection", err)
	} else {
		out = append(out, FollowUps(rows, today)...)
	}

	if loans, err := a.src.LateFeeLoans(ctx, companyID); err != nil {
		a.fetchFailed(companyID, "late_fee", err)
	} else {
		out = append(out, LateFees(loans, today)...)
	}

	return Arrange(out)
}

func (a *Aggregator) fetchFailed(companyID uuid.UUID, category string, err error) {
	metrics.NotificationFetchErrors.WithLabelValues(category).Inc()
	a.log.WithFields(logrus.Fields{
		"company_id": companyID,
		"category":   category,
		"error":      err,
	}).Error("Failed to load notification data")
}

// Day truncates t to its calendar date in UTC
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysFrom returns whole days from today to the date s
func daysFrom(today time.Time, s string) (int, bool) {
	d, err := models.ParseDate(s)
	if err != nil {
		return 0, false
	}
	return int(d.Sub(today).Hours() / 24), true
}

func clientLabel(l *models.Loan) string {
	if l.ClientName != "" {
		return l.ClientName
	}
	return "Loan " + l.ID.String()[:8]
}

// Overdue reports loans whose next payment date has passed
func Overdue(loans []models.Loan, today time.Time) []models.Notification {
	var out []models.Notification
	for i := range loans {
		l := &loans[i]
		if !l.IsOpen() {
			continue
		}
		days, ok := daysFrom(today, l.NextPaymentDate)
		if !ok || days >= 0 {
			continue
		}
		late := -days

		var msg string
		switch {
		case late == 1:
			msg = "Payment is 1 day overdue"
		case late <= 7:
			msg = fmt.Sprintf("Payment is %d days overdue", late)
		default:
			msg = fmt.Sprintf("Payment is %d days overdue, contact the client urgently", late)
		}

		out = append(out, models.Notification{
			ID:       "overdue-" + l.ID.String(),
			Type:     models.NotificationPaymentOverdue,
			Priority: models.PriorityHigh,
			Title:    "Overdue payment: " + clientLabel(l),
			Message:  msg,
			LoanID:   l.ID,
			DueDate:  models.DateKey(l.NextPaymentDate),
			Amount:   l.MonthlyPayment,
		})
	}
	return out
}

// Upcoming reports loans due within the next week
func Upcoming(loans []models.Loan, today time.Time) []models.Notification {
	var out []models.Notification
	for i := range loans {
		l := &loans[i]
		if !l.IsOpen() {
			continue
		}
		days, ok := daysFrom(today, l.NextPaymentDate)
		if !ok || days < 0 || days > lookahead {
			continue
		}

		priority := models.PriorityLow
		switch {
		case days <= 1:
			priority = models.PriorityHigh
		case days <= 3:
			priority = models.PriorityMedium
		}

		var msg string
		switch days {
		case 0:
			msg = "Payment is due today"
		case 1:
			msg = "Payment is due tomorrow"
		default:
			msg = fmt.Sprintf("Payment is due in %d days", days)
		}

		out = append(out, models.Notification{
			ID:       "upcoming-" + l.ID.String(),
			Type:     models.NotificationPaymentDue,
			Priority: priority,
			Title:    "Upcoming payment: " + clientLabel(l),
			Message:  msg,
			LoanID:   l.ID,
			DueDate:  models.DateKey(l.NextPaymentDate),
			Amount:   l.MonthlyPayment,
		})
	}
	return out
}

// FollowUps reports collection contacts scheduled within the next week
func FollowUps(rows []models.CollectionTracking, today time.Time) []models.Notification {
	var out []models.Notification
	for i := range rows {
		r := &rows[i]
		if r.LoanStatus == models.LoanStatusDeleted {
			continue
		}
		days, ok := daysFrom(today, r.NextContactDate)
		if !ok || days < 0 || days > lookahead {
			continue
		}

		priority := models.PriorityMedium
		if days <= 1 {
			priority = models.PriorityHigh
		}

		msg := fmt.Sprintf("Follow-up %s scheduled in %d days", r.ContactType, days)
		if days == 0 {
			msg = fmt.Sprintf("Follow-up %s scheduled for today", r.ContactType)
		}

		out = append(out, models.Notification{
			ID:       "followup-" + r.ID.String(),
			Type:     models.NotificationFollowUp,
			Priority: priority,
			Title:    "Collection follow-up: " + r.ClientName,
			Message:  msg,
			LoanID:   r.LoanID,
			DueDate:  models.DateKey(r.NextContactDate),
		})
	}
	return out
}

// LateFees reports loans whose accrued late fee crossed a threshold
func LateFees(loans []models.Loan, today time.Time) []models.Notification {
	var out []models.Notification
	for i := range loans {
		l := &loans[i]
		if l.Status == models.LoanStatusDeleted || !l.LateFeeEnabled || l.CurrentLateFee <= 0 {
			continue
		}
		late := 0
		if days, ok := daysFrom(today, l.NextPaymentDate); ok && days < 0 {
			late = -days
		}

		var title string
		var priority models.Priority
		fee := l.CurrentLateFee
		switch {
		case fee > 10000 || late > 30:
			title, priority = "Critical late fee", models.PriorityHigh
		case fee > 5000 || late > 14:
			title, priority = "High late fee", models.PriorityHigh
		case fee > 1000 || late > 7:
			title, priority = "Accumulated late fee", models.PriorityMedium
		default:
			continue
		}

		out = append(out, models.Notification{
			ID:       "latefee-" + l.ID.String(),
			Type:     models.NotificationLateFee,
			Priority: priority,
			Title:    title + ": " + clientLabel(l),
			Message:  fmt.Sprintf("Late fee of %.2f accrued, %d days overdue", fee, late),
			LoanID:   l.ID,
			DueDate:  models.DateKey(l.NextPaymentDate),
			Amount:   fee,
		})
	}
	return out
}

// Arrange drops repeated ids and orders by priority, then due date
func Arrange(items []models.Notification) []models.Notification {
	seen := make(map[string]bool, len(items))
	out := make([]models.Notification, 0, len(items))
	for _, n := range items {
		if seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		out = append(out, n)
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := out[i].Priority.Rank(), out[j].Priority.Rank()
		if ri != rj {
			return ri > rj
		}
		return out[i].DueDate < out[j].DueDate
	})
	return out
}
