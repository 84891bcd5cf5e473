package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/BladePruebasSC/cloud-loans-web-sub006/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ErrNotFound is returned when a requested row does not exist
var ErrNotFound = errors.New("not found")

// openStatuses are the loan statuses that still expect payments
var openStatuses = []string{string(models.LoanStatusActive), string(models.LoanStatusOverdue)}

// Repository provides read access to the loan tables
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const loanColumns = `
		l.id, l.client_id, l.company_id, COALESCE(c.full_name, ''),
		l.amount, l.interest_rate, l.term_months,
		l.amortization_type, l.payment_frequency,
		COALESCE(l.monthly_payment, 0), COALESCE(l.remaining_balance, 0),
		l.start_date::text, COALESCE(l.next_payment_date::text, ''),
		l.status, COALESCE(l.late_fee_enabled, false), COALESCE(l.current_late_fee, 0),
		l.created_at, l.updated_at
	FROM loans l
	LEFT JOIN clients c ON c.id = l.client_id`

type scanner interface {
	Scan(dest ...any) error
}

func scanLoan(row scanner, loan *models.Loan) error {
	return row.Scan(
		&loan.ID, &loan.ClientID, &loan.CompanyID, &loan.ClientName,
		&loan.Amount, &loan.InterestRate, &loan.TermMonths,
		&loan.AmortizationType, &loan.Frequency,
		&loan.MonthlyPayment, &loan.RemainingBalance,
		&loan.StartDate, &loan.NextPaymentDate,
		&loan.Status, &loan.LateFeeEnabled, &loan.CurrentLateFee,
		&loan.CreatedAt, &loan.UpdatedAt,
	)
}

func (r *Repository) queryLoans(ctx context.Context, query string, args ...any) ([]models.Loan, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []models.Loan
	for rows.Next() {
		var loan models.Loan
		if err := scanLoan(rows, &loan); err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}
	return loans, rows.Err()
}

// GetLoan retrieves a loan of a company by id
func (r *Repository) GetLoan(ctx context.Context, companyID, loanID uuid.UUID) (*models.Loan, error) {
	loan := &models.Loan{}
	query := `SELECT` + loanColumns + `
		WHERE l.id = $1 AND l.company_id = $2 AND l.status <> 'deleted'`
	err := scanLoan(r.db.QueryRowContext(ctx, query, loanID, companyID), loan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("loan %s: %w", loanID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find loan: %w", err)
	}
	return loan, nil
}

// OpenLoans lists the active and overdue loans of a company
func (r *Repository) OpenLoans(ctx context.Context, companyID uuid.UUID) ([]models.Loan, error) {
	query := `SELECT` + loanColumns + `
		WHERE l.company_id = $1 AND l.status = ANY($2)
		ORDER BY l.next_payment_date`
	loans, err := r.queryLoans(ctx, query, companyID, pq.Array(openStatuses))
	if err != nil {
		return nil, fmt.Errorf("failed to list open loans: %w", err)
	}
	return loans, nil
}

// LateFeeLoans lists the loans of a company with an accrued late fee
func (r *Repository) LateFeeLoans(ctx context.Context, companyID uuid.UUID) ([]models.Loan, error) {
	query := `SELECT` + loanColumns + `
		WHERE l.company_id = $1 AND l.late_fee_enabled AND l.current_late_fee > 0
		AND l.status <> 'deleted'`
	loans, err := r.queryLoans(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list late fee loans: %w", err)
	}
	return loans, nil
}

// UpcomingContacts lists collection follow-ups with a next contact date in [from, to]
func (r *Repository) UpcomingContacts(ctx context.Context, companyID uuid.UUID, from, to string) ([]models.CollectionTracking, error) {
	query := `
		SELECT ct.id, ct.loan_id, COALESCE(c.full_name, ''), COALESCE(ct.contact_type, ''),
			ct.next_contact_date::text, COALESCE(ct.notes, ''), l.status
		FROM collection_tracking ct
		JOIN loans l ON l.id = ct.loan_id
		LEFT JOIN clients c ON c.id = l.client_id
		WHERE l.company_id = $1 AND ct.next_contact_date BETWEEN $2 AND $3
		ORDER BY ct.next_contact_date`
	rows, err := r.db.QueryContext(ctx, query, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list collection contacts: %w", err)
	}
	defer rows.Close()

	var out []models.CollectionTracking
	for rows.Next() {
		var ct models.CollectionTracking
		if err := rows.Scan(&ct.ID, &ct.LoanID, &ct.ClientName, &ct.ContactType,
			&ct.NextContactDate, &ct.Notes, &ct.LoanStatus); err != nil {
			return nil, fmt.Errorf("failed to scan collection contact: %w", err)
		}
		out = append(out, ct)
	}
	return out, rows.Err()
}

// LoanInstallments lists the installments of a loan by due date
func (r *Repository) LoanInstallments(ctx context.Context, loanID uuid.UUID) ([]models.Installment, error) {
	query := `
		SELECT id, loan_id, installment_number, due_date::text,
			principal_amount, interest_amount, total_amount, is_paid
		FROM installments
		WHERE loan_id = $1
		ORDER BY due_date, installment_number`
	rows, err := r.db.QueryContext(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to list installments: %w", err)
	}
	defer rows.Close()

	var out []models.Installment
	for rows.Next() {
		var i models.Installment
		if err := rows.Scan(&i.ID, &i.LoanID, &i.Number, &i.DueDate,
			&i.PrincipalAmount, &i.InterestAmount, &i.TotalAmount, &i.IsPaid); err != nil {
			return nil, fmt.Errorf("failed to scan installment: %w", err)
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

// LoanPayments lists the payments recorded against a loan
func (r *Repository) LoanPayments(ctx context.Context, loanID uuid.UUID) ([]models.Payment, error) {
	query := `
		SELECT id, loan_id, amount, COALESCE(due_date::text, ''),
			COALESCE(interest_amount, 0), COALESCE(principal_amount, 0),
			COALESCE(payment_date::text, ''), created_at
		FROM payments
		WHERE loan_id = $1
		ORDER BY payment_date, created_at`
	rows, err := r.db.QueryContext(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var out []models.Payment
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.LoanID, &p.Amount, &p.DueDate,
			&p.InterestAmount, &p.PrincipalAmount, &p.PaymentDate, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// LoanCapitalPayments lists the extra principal payments of a loan
func (r *Repository) LoanCapitalPayments(ctx context.Context, loanID uuid.UUID) ([]models.CapitalPayment, error) {
	query := `
		SELECT id, loan_id, amount, created_at
		FROM capital_payments
		WHERE loan_id = $1`
	rows, err := r.db.QueryContext(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to list capital payments: %w", err)
	}
	defer rows.Close()

	var out []models.CapitalPayment
	for rows.Next() {
		var cp models.CapitalPayment
		if err := rows.Scan(&cp.ID, &cp.LoanID, &cp.Amount, &cp.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan capital payment: %w", err)
		}
		out = append(out, cp)
	}
	return out, rows.Err()
}

// CompanyIDs lists the companies that have open loans
func (r *Repository) CompanyIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT company_id FROM loans WHERE status = ANY($1)`, pq.Array(openStatuses))
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
