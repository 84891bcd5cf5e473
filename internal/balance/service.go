package balance

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/BladePruebasSC/cloud-loans-web-sub006/internal/metrics"
	"github.com/BladePruebasSC/cloud-loans-web-sub006/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrSuperseded is returned when a newer request for another loan replaced this one
var ErrSuperseded = errors.New("balance request superseded")

// Store reads the history of a loan
type Store interface {
	LoanInstallments(ctx context.Context, loanID uuid.UUID) ([]models.Installment, error)
	LoanPayments(ctx context.Context, loanID uuid.UUID) ([]models.Payment, error)
	LoanCapitalPayments(ctx context.Context, loanID uuid.UUID) ([]models.CapitalPayment, error)
}

// Service computes balance breakdowns against a Store
type Service struct {
	store Store
	log   *logrus.Logger

	mu       sync.Mutex
	inflight map[string]*flight
}

type flight struct {
	loanID uuid.UUID
	cancel context.CancelCauseFunc
}

// NewService initializes a new balance service
func NewService(store Store, log *logrus.Logger) *Service {
	return &Service{
		store:    store,
		log:      log,
		inflight: make(map[string]*flight),
	}
}

// Breakdown fetches the history of loan and computes its balance. Read
// failures degrade to the loan's stored remaining balance; only a
// cancelled context produces an error.
func (s *Service) Breakdown(ctx context.Context, loan *models.Loan) (models.BalanceBreakdown, error) {
	h, err := s.history(ctx, loan.ID)
	if err != nil {
		if cause := context.Cause(ctx); cause != nil {
			return models.BalanceBreakdown{}, cause
		}
		metrics.BalanceFallbacks.Inc()
		s.log.WithFields(logrus.Fields{
			"loan_id": loan.ID,
			"error":   err,
		}).Warn("Balance history unavailable, using stored remaining balance")
		return Fallback(loan), nil
	}
	return Compute(loan, h), nil
}

// BreakdownFor is Breakdown scoped to a subject (the requesting user).
// Starting a breakdown for a different loan abandons the subject's
// in-flight one, which then returns ErrSuperseded.
func (s *Service) BreakdownFor(ctx context.Context, subject string, loan *models.Loan) (models.BalanceBreakdown, error) {
	fctx, done := s.begin(ctx, subject, loan.ID)
	defer done()

	b, err := s.Breakdown(fctx, loan)
	if errors.Is(err, ErrSuperseded) {
		metrics.BalanceSuperseded.Inc()
		s.log.Debugf("Balance request for loan %s superseded", loan.ID)
	}
	return b, err
}

func (s *Service) begin(ctx context.Context, subject string, loanID uuid.UUID) (context.Context, func()) {
	fctx, cancel := context.WithCancelCause(ctx)
	f := &flight{loanID: loanID, cancel: cancel}

	s.mu.Lock()
	if prev, ok := s.inflight[subject]; ok && prev.loanID != loanID {
		prev.cancel(ErrSuperseded)
	}
	s.inflight[subject] = f
	s.mu.Unlock()

	return fctx, func() {
		s.mu.Lock()
		if s.inflight[subject] == f {
			delete(s.inflight, subject)
		}
		s.mu.Unlock()
		cancel(nil)
	}
}

func (s *Service) history(ctx context.Context, loanID uuid.UUID) (History, error) {
	var h History
	var err error

	if h.Installments, err = s.store.LoanInstallments(ctx, loanID); err != nil {
		return h, fmt.Errorf("failed to load installments: %w", err)
	}
	if h.Payments, err = s.store.LoanPayments(ctx, loanID); err != nil {
		return h, fmt.Errorf("failed to load payments: %w", err)
	}
	if h.CapitalPayments, err = s.store.LoanCapitalPayments(ctx, loanID); err != nil {
		return h, fmt.Errorf("failed to load capital payments: %w", err)
	}
	return h, nil
}
