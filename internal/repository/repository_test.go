package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/BladePruebasSC/cloud-loans-web-sub006/internal/models"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
)

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

var loanCols = []string{
	"id", "client_id", "company_id", "full_name",
	"amount", "interest_rate", "term_months",
	"amortization_type", "payment_frequency",
	"monthly_payment", "remaining_balance",
	"start_date", "next_payment_date",
	"status", "late_fee_enabled", "current_late_fee",
	"created_at", "updated_at",
}

func loanRow(rows *sqlmock.Rows, id, company uuid.UUID, status string) *sqlmock.Rows {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return rows.AddRow(
		id.String(), uuid.NewString(), company.String(), "Ana Perez",
		10000.0, 10.0, int64(12),
		"indefinite", "monthly",
		1000.0, 10000.0,
		"2024-01-15", "2024-02-15",
		status, true, 1500.0,
		ts, ts,
	)
}

func TestGetLoan(t *testing.T) {
	repo, mock := newMock(t)
	id, company := uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM loans l")).
		WithArgs(id, company).
		WillReturnRows(loanRow(sqlmock.NewRows(loanCols), id, company, "active"))

	loan, err := repo.GetLoan(context.Background(), company, id)
	if err != nil {
		t.Fatalf("GetLoan() error: %v", err)
	}
	if loan.ID != id || loan.CompanyID != company {
		t.Errorf("ids = %s/%s, want %s/%s", loan.ID, loan.CompanyID, id, company)
	}
	if !loan.IsIndefinite() || loan.Frequency != models.FrequencyMonthly || loan.Status != models.LoanStatusActive {
		t.Errorf("loan = %+v", loan)
	}
	if loan.ClientName != "Ana Perez" || loan.MonthlyPayment != 1000 || loan.StartDate != "2024-01-15" {
		t.Errorf("loan = %+v", loan)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestGetLoan_NotFound(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM loans l")).
		WillReturnRows(sqlmock.NewRows(loanCols))

	_, err := repo.GetLoan(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetLoan() error = %v, want ErrNotFound", err)
	}
}

func TestOpenLoans(t *testing.T) {
	repo, mock := newMock(t)
	company := uuid.New()
	rows := sqlmock.NewRows(loanCols)
	loanRow(rows, uuid.New(), company, "active")
	loanRow(rows, uuid.New(), company, "overdue")

	mock.ExpectQuery(regexp.QuoteMeta("l.status = ANY($2)")).
		WithArgs(company, sqlmock.AnyArg()).
		WillReturnRows(rows)

	loans, err := repo.OpenLoans(context.Background(), company)
	if err != nil {
		t.Fatalf("OpenLoans() error: %v", err)
	}
	if len(loans) != 2 || loans[1].Status != models.LoanStatusOverdue {
		t.Errorf("OpenLoans() = %+v", loans)
	}
}

func TestLateFeeLoans_QueryError(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("current_late_fee > 0")).
		WillReturnError(errors.New("connection reset"))

	if _, err := repo.LateFeeLoans(context.Background(), uuid.New()); err == nil {
		t.Error("expected error")
	}
}

func TestUpcomingContacts(t *testing.T) {
	repo, mock := newMock(t)
	company := uuid.New()
	rows := sqlmock.NewRows([]string{"id", "loan_id", "full_name", "contact_type", "next_contact_date", "notes", "status"}).
		AddRow(uuid.NewString(), uuid.NewString(), "Luis", "call", "2024-06-11", "", "deleted")

	mock.ExpectQuery(regexp.QuoteMeta("FROM collection_tracking ct")).
		WithArgs(company, "2024-06-10", "2024-06-17").
		WillReturnRows(rows)

	got, err := repo.UpcomingContacts(context.Background(), company, "2024-06-10", "2024-06-17")
	if err != nil {
		t.Fatalf("UpcomingContacts() error: %v", err)
	}
	if len(got) != 1 || got[0].LoanStatus != models.LoanStatusDeleted || got[0].ContactType != "call" {
		t.Errorf("UpcomingContacts() = %+v", got)
	}
}

func TestLoanHistory(t *testing.T) {
	repo, mock := newMock(t)
	loanID := uuid.New()
	ts := time.Date(2024, 2, 15, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM installments")).
		WithArgs(loanID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "loan_id", "installment_number", "due_date", "principal_amount", "interest_amount", "total_amount", "is_paid"}).
			AddRow(uuid.NewString(), loanID.String(), int64(1), "2024-02-15", 500.0, 100.0, 600.0, false).
			AddRow(uuid.NewString(), loanID.String(), int64(0), "2024-02-20", 75.0, 0.0, 75.0, false))
	mock.ExpectQuery(regexp.QuoteMeta("FROM payments")).
		WithArgs(loanID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "loan_id", "amount", "due_date", "interest_amount", "principal_amount", "payment_date", "created_at"}).
			AddRow(uuid.NewString(), loanID.String(), 600.0, "2024-02-15", 100.0, 500.0, "2024-02-14", ts))
	mock.ExpectQuery(regexp.QuoteMeta("FROM capital_payments")).
		WithArgs(loanID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "loan_id", "amount", "created_at"}).
			AddRow(uuid.NewString(), loanID.String(), 250.0, ts))

	insts, err := repo.LoanInstallments(context.Background(), loanID)
	if err != nil {
		t.Fatalf("LoanInstallments() error: %v", err)
	}
	if len(insts) != 2 || !insts[1].IsCharge() {
		t.Errorf("LoanInstallments() = %+v", insts)
	}

	payments, err := repo.LoanPayments(context.Background(), loanID)
	if err != nil {
		t.Fatalf("LoanPayments() error: %v", err)
	}
	if len(payments) != 1 || payments[0].DueDate != "2024-02-15" || payments[0].InterestAmount != 100 {
		t.Errorf("LoanPayments() = %+v", payments)
	}

	capital, err := repo.LoanCapitalPayments(context.Background(), loanID)
	if err != nil {
		t.Fatalf("LoanCapitalPayments() error: %v", err)
	}
	if len(capital) != 1 || capital[0].Amount != 250 {
		t.Errorf("LoanCapitalPayments() = %+v", capital)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCompanyIDs(t *testing.T) {
	repo, mock := newMock(t)
	a, b := uuid.New(), uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT company_id FROM loans")).
		WillReturnRows(sqlmock.NewRows([]string{"company_id"}).AddRow(a.String()).AddRow(b.String()))

	ids, err := repo.CompanyIDs(context.Background())
	if err != nil {
		t.Fatalf("CompanyIDs() error: %v", err)
	}
	if len(ids) != 2 || ids[0] != a || ids[1] != b {
		t.Errorf("CompanyIDs() = %v, want [%s %s]", ids, a, b)
	}
}
