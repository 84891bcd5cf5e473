// Package balance computes the outstanding balance of a loan from its
// installment, payment and capital-payment history.
package balance

import (
	"math"
	"sort"
	"time"

	"github.com/BladePruebasSC/cloud-loans-web-sub006/internal/amortization"
	"github.com/BladePruebasSC/cloud-loans-web-sub006/internal/models"
)

const (
	// paidTolerance is how far below a full period payment still counts as paid
	paidTolerance = 0.05
	// staleCreditFactor bounds the payment amount treated as pure interest
	// when a payment carries no interest split
	staleCreditFactor = 1.25
	cent              = 0.01
)

// History is everything recorded against a loan
type History struct {
	Installments    []models.Installment
	Payments        []models.Payment
	CapitalPayments []models.CapitalPayment
}

// Compute derives the balance breakdown of loan from h
func Compute(loan *models.Loan, h History) models.BalanceBreakdown {
	paid := paidByDueDate(h.Payments)
	charges := pendingCharges(h.Installments, paid)

	var base float64
	if loan.IsIndefinite() {
		base = indefiniteBase(loan, h.Payments)
	} else {
		base = fixedBase(loan, h, paid)
	}

	return models.BalanceBreakdown{
		BaseBalance:    amortization.Round2(base),
		PendingCharges: amortization.Round2(charges),
		TotalBalance:   amortization.Round2(base + charges),
	}
}

// Fallback is the breakdown reported when the history cannot be read
func Fallback(loan *models.Loan) models.BalanceBreakdown {
	return models.BalanceBreakdown{
		BaseBalance:  loan.RemainingBalance,
		TotalBalance: loan.RemainingBalance,
		Fallback:     true,
	}
}

// paidByDueDate sums payment amounts per exact due date
func paidByDueDate(payments []models.Payment) map[string]float64 {
	paid := make(map[string]float64, len(payments))
	for _, p := range payments {
		paid[models.DateKey(p.DueDate)] += p.Amount
	}
	return paid
}

func pendingCharges(installments []models.Installment, paid map[string]float64) float64 {
	var total float64
	for i := range installments {
		inst := &installments[i]
		if !inst.IsCharge() {
			continue
		}
		total += math.Max(0, inst.TotalAmount-paid[models.DateKey(inst.DueDate)])
	}
	return total
}

// fixedBase applies what was paid on each due date to interest first and
// principal second.
func fixedBase(loan *models.Loan, h History, paid map[string]float64) float64 {
	var capitalPaid, interestPending float64
	for i := range h.Installments {
		inst := &h.Installments[i]
		if inst.IsCharge() {
			continue
		}
		p := paid[models.DateKey(inst.DueDate)]
		capitalPaid += math.Min(inst.PrincipalAmount, math.Max(0, p-inst.InterestAmount))
		interestPending += math.Max(0, inst.InterestAmount-math.Min(inst.InterestAmount, p))
	}

	var extra float64
	for _, cp := range h.CapitalPayments {
		extra += cp.Amount
	}

	capitalPending := math.Max(0, loan.Amount-capitalPaid-extra)
	return capitalPending + interestPending
}

// InterestPerPeriod is what an indefinite loan owes every period
func InterestPerPeriod(loan *models.Loan) float64 {
	if loan.MonthlyPayment > cent {
		return loan.MonthlyPayment
	}
	return loan.Amount * (loan.InterestRate / 100)
}

// interestCredit is the part of a payment that counts toward period interest
func interestCredit(p models.Payment, perPeriod float64) float64 {
	if p.InterestAmount > cent {
		return p.InterestAmount
	}
	if p.Amount > 0 && p.Amount <= staleCreditFactor*perPeriod {
		return p.Amount
	}
	return 0
}

// PendingInterest returns the interest owed for the active period of an
// indefinite loan. A settled period rolls over to a fully owed one.
func PendingInterest(loan *models.Loan, payments []models.Payment) float64 {
	perPeriod := InterestPerPeriod(loan)

	var firstDue time.Time
	if start, err := models.ParseDate(loan.StartDate); err == nil {
		firstDue = AddPeriod(start, loan.Frequency)
	}

	credits := make(map[string]float64)
	var stale float64
	for _, p := range payments {
		c := interestCredit(p, perPeriod)
		if c <= 0 {
			continue
		}
		key := models.DateKey(p.DueDate)
		due, err := models.ParseDate(key)
		if err != nil {
			continue
		}
		if due.Before(firstDue) {
			stale += c
			continue
		}
		credits[key] += c
	}

	keys := make([]string, 0, len(credits))
	for k := range credits {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var active, lastPaid string
	for _, k := range keys {
		if credits[k] < perPeriod-paidTolerance {
			if active == "" {
				active = k
			}
			continue
		}
		lastPaid = k
	}
	if active == "" {
		if lastPaid != "" {
			d, _ := models.ParseDate(lastPaid)
			active = AddPeriod(d, loan.Frequency).Format(models.DateLayout)
		} else {
			active = firstDue.Format(models.DateLayout)
		}
	}

	activeCredit := credits[active] + stale
	for _, k := range keys {
		if k < active && credits[k] > perPeriod {
			activeCredit += credits[k] - perPeriod
		}
	}

	pending := math.Max(0, perPeriod-activeCredit)
	if pending <= cent && perPeriod > cent {
		pending = perPeriod
	}
	return pending
}

func indefiniteBase(loan *models.Loan, payments []models.Payment) float64 {
	return loan.Amount + PendingInterest(loan, payments)
}

// AddPeriod steps a due date by one calendar period. Month arithmetic
// normalizes overflow, so Jan 31 plus one month lands in early March.
func AddPeriod(t time.Time, f models.Frequency) time.Time {
	switch f {
	case models.FrequencyDaily:
		return t.AddDate(0, 0, 1)
	case models.FrequencyWeekly:
		return t.AddDate(0, 0, 7)
	case models.FrequencyBiweekly:
		return t.AddDate(0, 0, 14)
	case models.FrequencyQuarterly:
		return t.AddDate(0, 3, 0)
	case models.FrequencyYearly:
		return t.AddDate(0, 0, 365)
	default:
		return t.AddDate(0, 1, 0)
	}
}
