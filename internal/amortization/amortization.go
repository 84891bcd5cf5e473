// Package amortization builds amortization schedules for hypothetical or
// stored loans. Everything here is a pure function of its inputs.
package amortization

import (
	"math"
	"time"

	"github.com/BladePruebasSC/cloud-loans-web-sub006/internal/models"
)

// Params are the inputs of a schedule. InterestRate is a monthly percentage.
// FixedPayment, when positive, replaces the annuity payment and the
// interest rate is back-solved from it.
type Params struct {
	Amount       float64
	InterestRate float64
	Frequency    models.Frequency
	Term         int
	StartDate    time.Time
	FixedPayment float64
}

// Round2 rounds half away from zero to cents
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// PeriodRate converts a monthly percentage to a per-period percentage.
// The conversion is linear on purpose; stored schedules depend on it.
func PeriodRate(monthlyRate float64, f models.Frequency) float64 {
	switch f {
	case models.FrequencyDaily:
		return monthlyRate / 30
	case models.FrequencyWeekly:
		return monthlyRate / 4
	case models.FrequencyBiweekly:
		return monthlyRate / 2
	case models.FrequencyQuarterly:
		return monthlyRate * 3
	case models.FrequencyYearly:
		return monthlyRate * 12
	default:
		return monthlyRate
	}
}

// DayStep is the fixed day count between two schedule rows
func DayStep(f models.Frequency) int {
	switch f {
	case models.FrequencyDaily:
		return 1
	case models.FrequencyWeekly:
		return 7
	case models.FrequencyBiweekly:
		return 14
	case models.FrequencyQuarterly:
		return 90
	case models.FrequencyYearly:
		return 365
	default:
		return 30
	}
}

// ImpliedRate back-solves the simple monthly percentage that a fixed payment
// carries over the term. A payment that does not exceed amount/term carries none.
func ImpliedRate(amount, fixedPayment float64, term int) float64 {
	if amount <= 0 || term <= 0 {
		return 0
	}
	n := float64(term)
	if fixedPayment <= amount/n {
		return 0
	}
	rate := (fixedPayment*n - amount) / amount / n * 100
	if rate < 0 {
		rate = 0
	}
	return Round2(rate)
}

// AnnuityPayment is the level payment that amortizes amount over term
// periods at rate r (a fraction, not a percentage).
func AnnuityPayment(amount, r float64, term int) float64 {
	if term <= 0 {
		return 0
	}
	n := float64(term)
	if r == 0 {
		return amount / n
	}
	f := math.Pow(1+r, n)
	return amount * r * f / (f - 1)
}

// EffectiveRate is the monthly percentage actually used by Calculate
func EffectiveRate(p Params) float64 {
	if p.FixedPayment > 0 {
		return ImpliedRate(p.Amount, p.FixedPayment, p.Term)
	}
	return p.InterestRate
}

// PeriodPayment is the payment used by every row but the last
func PeriodPayment(p Params) float64 {
	if p.FixedPayment > 0 {
		return Round2(p.FixedPayment)
	}
	r := PeriodRate(EffectiveRate(p), p.Frequency) / 100
	return Round2(AnnuityPayment(p.Amount, r, p.Term))
}

// Calculate produces the schedule for p. Non-positive amount or term
// yields an empty schedule. Every value is rounded to cents where it is
// computed; the last row absorbs whatever principal remains.
func Calculate(p Params) []models.AmortizationRow {
	if p.Amount <= 0 || p.Term <= 0 {
		return []models.AmortizationRow{}
	}

	r := PeriodRate(EffectiveRate(p), p.Frequency) / 100
	payment := PeriodPayment(p)
	step := DayStep(p.Frequency)

	rows := make([]models.AmortizationRow, 0, p.Term)
	balance := Round2(p.Amount)
	for i := 1; i <= p.Term; i++ {
		interest := Round2(balance * r)
		principal := Round2(payment - interest)
		if principal < 0 {
			principal = 0
		}
		if principal > balance || i == p.Term {
			principal = balance
		}
		balance = Round2(balance - principal)

		rows = append(rows, models.AmortizationRow{
			Number:    i,
			Date:      p.StartDate.AddDate(0, 0, (i-1)*step).Format(models.DateLayout),
			Interest:  interest,
			Principal: principal,
			Payment:   Round2(interest + principal),
			Balance:   balance,
		})
	}
	return rows
}

// Summarize totals a schedule
func Summarize(p Params, rows []models.AmortizationRow) models.ScheduleSummary {
	var s models.ScheduleSummary
	for _, row := range rows {
		s.TotalInterest += row.Interest
		s.TotalPrincipal += row.Principal
		s.TotalPayment += row.Payment
	}
	s.TotalInterest = Round2(s.TotalInterest)
	s.TotalPrincipal = Round2(s.TotalPrincipal)
	s.TotalPayment = Round2(s.TotalPayment)
	if len(rows) > 0 {
		s.PeriodPayment = PeriodPayment(p)
	}
	s.EffectiveRate = EffectiveRate(p)
	return s
}

// FromLoan builds schedule parameters from a stored loan
func FromLoan(l *models.Loan) (Params, error) {
	start, err := models.ParseDate(l.StartDate)
	if err != nil {
		return Params{}, err
	}
	return Params{
		Amount:       l.Amount,
		InterestRate: l.InterestRate,
		Frequency:    l.Frequency,
		Term:         l.TermMonths,
		StartDate:    start,
	}, nil
}
