package notification

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/BladePruebasSC/cloud-loans-web-sub006/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var now = time.Date(2024, 6, 10, 15, 4, 0, 0, time.UTC)

func day(offset int) string {
	return now.AddDate(0, 0, offset).Format(models.DateLayout)
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func loan(status models.LoanStatus, next string) models.Loan {
	return models.Loan{
		ID:              uuid.New(),
		ClientName:      "Ana Perez",
		Status:          status,
		NextPaymentDate: next,
		MonthlyPayment:  150,
	}
}

type fakeSource struct {
	loans    []models.Loan
	contacts []models.CollectionTracking
	lateFees []models.Loan
	loansErr error
	from, to string
}

func (s *fakeSource) OpenLoans(ctx context.Context, companyID uuid.UUID) ([]models.Loan, error) {
	return s.loans, s.loansErr
}

func (s *fakeSource) UpcomingContacts(ctx context.Context, companyID uuid.UUID, from, to string) ([]models.CollectionTracking, error) {
	s.from, s.to = from, to
	return s.contacts, nil
}

func (s *fakeSource) LateFeeLoans(ctx context.Context, companyID uuid.UUID) ([]models.Loan, error) {
	return s.lateFees, nil
}

func TestOverdue(t *testing.T) {
	yesterday := loan(models.LoanStatusActive, day(-1))
	deleted := loan(models.LoanStatusDeleted, day(-1))
	got := Overdue([]models.Loan{yesterday, deleted}, Day(now))

	if len(got) != 1 {
		t.Fatalf("len(Overdue) = %d, want 1", len(got))
	}
	n := got[0]
	if n.Type != models.NotificationPaymentOverdue || n.Priority != models.PriorityHigh {
		t.Errorf("notification = %+v, want high payment_overdue", n)
	}
	if n.LoanID != yesterday.ID || n.Message != "Payment is 1 day overdue" {
		t.Errorf("notification = %+v", n)
	}
}

func TestOverdue_Messages(t *testing.T) {
	tests := map[int]string{
		-1:  "Payment is 1 day overdue",
		-5:  "Payment is 5 days overdue",
		-7:  "Payment is 7 days overdue",
		-12: "Payment is 12 days overdue, contact the client urgently",
	}
	for offset, want := range tests {
		got := Overdue([]models.Loan{loan(models.LoanStatusOverdue, day(offset))}, Day(now))
		if len(got) != 1 || got[0].Message != want {
			t.Errorf("offset %d: got %+v, want %q", offset, got, want)
		}
	}
	if got := Overdue([]models.Loan{loan(models.LoanStatusActive, day(0))}, Day(now)); len(got) != 0 {
		t.Errorf("due today reported as overdue: %+v", got)
	}
}

func TestUpcoming_Priorities(t *testing.T) {
	tests := []struct {
		offset int
		want   models.Priority
	}{
		{0, models.PriorityHigh},
		{1, models.PriorityHigh},
		{2, models.PriorityMedium},
		{3, models.PriorityMedium},
		{4, models.PriorityLow},
		{7, models.PriorityLow},
	}
	for _, tt := range tests {
		got := Upcoming([]models.Loan{loan(models.LoanStatusActive, day(tt.offset))}, Day(now))
		if len(got) != 1 || got[0].Priority != tt.want {
			t.Errorf("offset %d: got %+v, want priority %s", tt.offset, got, tt.want)
		}
	}
	for _, offset := range []int{-1, 8} {
		if got := Upcoming([]models.Loan{loan(models.LoanStatusActive, day(offset))}, Day(now)); len(got) != 0 {
			t.Errorf("offset %d: got %d notifications, want 0", offset, len(got))
		}
	}
}

func TestFollowUps(t *testing.T) {
	rows := []models.CollectionTracking{
		{ID: uuid.New(), ClientName: "Luis", ContactType: "call", NextContactDate: day(1), LoanStatus: models.LoanStatusActive},
		{ID: uuid.New(), ClientName: "Eva", ContactType: "visit", NextContactDate: day(5), LoanStatus: models.LoanStatusOverdue},
		{ID: uuid.New(), ClientName: "Gone", ContactType: "call", NextContactDate: day(1), LoanStatus: models.LoanStatusDeleted},
		{ID: uuid.New(), ClientName: "Far", ContactType: "call", NextContactDate: day(9), LoanStatus: models.LoanStatusActive},
	}
	got := FollowUps(rows, Day(now))
	if len(got) != 2 {
		t.Fatalf("len(FollowUps) = %d, want 2", len(got))
	}
	if got[0].Priority != models.PriorityHigh || got[1].Priority != models.PriorityMedium {
		t.Errorf("priorities = %s, %s; want high, medium", got[0].Priority, got[1].Priority)
	}
}

func TestLateFees_Tiers(t *testing.T) {
	tests := []struct {
		name   string
		fee    float64
		offset int
		title  string
		prio   models.Priority
	}{
		{"critical by fee", 10001, 0, "Critical late fee", models.PriorityHigh},
		{"critical by days", 10, -31, "Critical late fee", models.PriorityHigh},
		{"high by fee", 5001, 0, "High late fee", models.PriorityHigh},
		{"high by days", 10, -15, "High late fee", models.PriorityHigh},
		{"accumulated by fee", 1001, 0, "Accumulated late fee", models.PriorityMedium},
		{"accumulated by days", 10, -8, "Accumulated late fee", models.PriorityMedium},
		{"below thresholds", 1000, -7, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := loan(models.LoanStatusOverdue, day(tt.offset))
			l.LateFeeEnabled = true
			l.CurrentLateFee = tt.fee
			got := LateFees([]models.Loan{l}, Day(now))
			if tt.title == "" {
				if len(got) != 0 {
					t.Errorf("got %+v, want none", got)
				}
				return
			}
			if len(got) != 1 {
				t.Fatalf("len(LateFees) = %d, want 1", len(got))
			}
			if got[0].Title != tt.title+": Ana Perez" || got[0].Priority != tt.prio {
				t.Errorf("got %+v, want %s/%s", got[0], tt.title, tt.prio)
			}
		})
	}
}

func TestLateFees_Disabled(t *testing.T) {
	l := loan(models.LoanStatusOverdue, day(-40))
	l.CurrentLateFee = 20000
	if got := LateFees([]models.Loan{l}, Day(now)); len(got) != 0 {
		t.Errorf("late fee disabled loan produced %+v", got)
	}
}

func TestArrange(t *testing.T) {
	items := []models.Notification{
		{ID: "a", Priority: models.PriorityLow, DueDate: "2024-06-11"},
		{ID: "b", Priority: models.PriorityHigh, DueDate: "2024-06-12"},
		{ID: "c", Priority: models.PriorityMedium, DueDate: "2024-06-10"},
		{ID: "d", Priority: models.PriorityHigh, DueDate: "2024-06-09"},
		{ID: "b", Priority: models.PriorityLow, DueDate: "2024-06-01"},
	}
	got := Arrange(items)
	want := []string{"d", "b", "c", "a"}
	if len(got) != len(want) {
		t.Fatalf("len(Arrange) = %d, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("got[%d] = %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestGenerate(t *testing.T) {
	src := &fakeSource{
		loans: []models.Loan{
			loan(models.LoanStatusActive, day(-1)),
			loan(models.LoanStatusActive, day(5)),
		},
	}
	agg := NewAggregator(src, quietLogger())
	got := agg.Generate(context.Background(), uuid.New(), now)

	if len(got) != 2 {
		t.Fatalf("len(Generate) = %d, want 2", len(got))
	}
	if got[0].Type != models.NotificationPaymentOverdue || got[1].Type != models.NotificationPaymentDue {
		t.Errorf("order = %s, %s", got[0].Type, got[1].Type)
	}
	if src.from != "2024-06-10" || src.to != "2024-06-17" {
		t.Errorf("contact window = %s..%s, want 2024-06-10..2024-06-17", src.from, src.to)
	}
}

func TestGenerate_OmitsFailedCategory(t *testing.T) {
	l := loan(models.LoanStatusOverdue, day(-3))
	l.LateFeeEnabled = true
	l.CurrentLateFee = 20000
	src := &fakeSource{
		loans:    []models.Loan{l},
		lateFees: []models.Loan{l},
		loansErr: errors.New("timeout"),
	}
	agg := NewAggregator(src, quietLogger())
	got := agg.Generate(context.Background(), uuid.New(), now)

	if len(got) != 1 || got[0].Type != models.NotificationLateFee {
		t.Errorf("Generate() = %+v, want only the late fee", got)
	}
}
