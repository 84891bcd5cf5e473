package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BladePruebasSC/cloud-loans-web-sub006/internal/amortization"
	"github.com/BladePruebasSC/cloud-loans-web-sub006/internal/integrations/cbr"
	"github.com/BladePruebasSC/cloud-loans-web-sub006/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrInvalidInput marks a request the caller must fix
var ErrInvalidInput = errors.New("invalid input")

// LoanReader loads a single loan
type LoanReader interface {
	GetLoan(ctx context.Context, companyID, loanID uuid.UUID) (*models.Loan, error)
}

// Balancer computes loan balances on behalf of a user
type Balancer interface {
	BreakdownFor(ctx context.Context, subject string, loan *models.Loan) (models.BalanceBreakdown, error)
}

// Notifier serves the current notifications of a company
type Notifier interface {
	Current(ctx context.Context, companyID uuid.UUID) []models.Notification
}

// RateProvider suggests a lending rate
type RateProvider interface {
	ReferenceRate(ctx context.Context) (cbr.ReferenceRate, error)
}

// ScheduleRequest are the simulator inputs
type ScheduleRequest struct {
	Amount             float64          `json:"amount"`
	InterestRate       float64          `json:"interest_rate"`
	Frequency          models.Frequency `json:"frequency"`
	Term               int              `json:"term"`
	StartDate          string           `json:"start_date"`
	FixedPaymentAmount float64          `json:"fixed_payment_amount,omitempty"`
}

// TableOptions filter and order schedule rows
type TableOptions struct {
	Query string
	Sort  string
	Desc  bool
}

// Service handles business logic
type Service struct {
	loans    LoanReader
	balances Balancer
	notifier Notifier
	rates    RateProvider
	log      *logrus.Logger
}

// NewService initializes a new service
func NewService(loans LoanReader, balances Balancer, notifier Notifier, rates RateProvider, log *logrus.Logger) *Service {
	return &Service{loans: loans, balances: balances, notifier: notifier, rates: rates, log: log}
}

// Params validates a simulator request
func (req ScheduleRequest) Params() (amortization.Params, error) {
	freq := req.Frequency
	if freq == "" {
		freq = models.FrequencyMonthly
	}
	if !freq.Valid() {
		return amortization.Params{}, fmt.Errorf("%w: unknown frequency %q", ErrInvalidInput, req.Frequency)
	}
	if req.InterestRate < 0 || req.FixedPaymentAmount < 0 {
		return amortization.Params{}, fmt.Errorf("%w: rate and fixed payment must not be negative", ErrInvalidInput)
	}

	start := time.Now().UTC()
	if req.StartDate != "" {
		d, err := models.ParseDate(req.StartDate)
		if err != nil {
			return amortization.Params{}, fmt.Errorf("%w: start_date: %v", ErrInvalidInput, err)
		}
		start = d
	}

	return amortization.Params{
		Amount:       req.Amount,
		InterestRate: req.InterestRate,
		Frequency:    freq,
		Term:         req.Term,
		StartDate:    start,
		FixedPayment: req.FixedPaymentAmount,
	}, nil
}

// Simulate computes a schedule for hypothetical loan terms
func (s *Service) Simulate(req ScheduleRequest, opts TableOptions) (*models.Schedule, error) {
	p, err := req.Params()
	if err != nil {
		return nil, err
	}
	return buildSchedule(p, opts)
}

// LoanSchedule computes the schedule of a stored loan
func (s *Service) LoanSchedule(ctx context.Context, companyID, loanID uuid.UUID, opts TableOptions) (*models.Schedule, error) {
	loan, err := s.loans.GetLoan(ctx, companyID, loanID)
	if err != nil {
		return nil, err
	}
	p, err := amortization.FromLoan(loan)
	if err != nil {
		return nil, fmt.Errorf("loan %s has a malformed start date: %w", loanID, err)
	}
	return buildSchedule(p, opts)
}

func buildSchedule(p amortization.Params, opts TableOptions) (*models.Schedule, error) {
	rows := amortization.Calculate(p)
	summary := amortization.Summarize(p, rows)

	rows = amortization.Filter(rows, opts.Query)
	if opts.Sort != "" || opts.Desc {
		sorted, err := amortization.Sort(rows, opts.Sort, opts.Desc)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		rows = sorted
	}
	return &models.Schedule{Rows: rows, Summary: summary}, nil
}

// LoanBalance computes the outstanding balance of a stored loan for an employee
func (s *Service) LoanBalance(ctx context.Context, employee models.Employee, loanID uuid.UUID) (models.BalanceBreakdown, error) {
	loan, err := s.loans.GetLoan(ctx, employee.CompanyID, loanID)
	if err != nil {
		return models.BalanceBreakdown{}, err
	}
	b, err := s.balances.BreakdownFor(ctx, employee.ID, loan)
	if err != nil {
		return models.BalanceBreakdown{}, err
	}
	s.log.Debugf("Balance for loan %s: %.2f", loanID, b.TotalBalance)
	return b, nil
}

// Notifications returns the current reminders of a company
func (s *Service) Notifications(ctx context.Context, companyID uuid.UUID) []models.Notification {
	items := s.notifier.Current(ctx, companyID)
	if items == nil {
		items = []models.Notification{}
	}
	return items
}

// ReferenceRate returns the suggested lending rate
func (s *Service) ReferenceRate(ctx context.Context) (cbr.ReferenceRate, error) {
	return s.rates.ReferenceRate(ctx)
}
