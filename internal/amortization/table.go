package amortization

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/BladePruebasSC/cloud-loans-web-sub006/internal/models"
)

// ErrUnknownColumn is returned by Sort for a column it cannot order by
var ErrUnknownColumn = errors.New("unknown sort column")

// Columns lists the sortable schedule columns
var Columns = []string{"installment", "date", "interest", "principal", "payment", "remaining_balance"}

func fields(row models.AmortizationRow) []string {
	return []string{
		strconv.Itoa(row.Number),
		row.Date,
		fmt.Sprintf("%.2f", row.Interest),
		fmt.Sprintf("%.2f", row.Principal),
		fmt.Sprintf("%.2f", row.Payment),
		fmt.Sprintf("%.2f", row.Balance),
	}
}

// Filter keeps the rows where any field contains query, case-insensitively.
// An empty query keeps everything.
func Filter(rows []models.AmortizationRow, query string) []models.AmortizationRow {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]models.AmortizationRow, 0, len(rows))
	for _, row := range rows {
		if query == "" {
			out = append(out, row)
			continue
		}
		for _, f := range fields(row) {
			if strings.Contains(strings.ToLower(f), query) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

// Sort returns a copy of rows ordered by column. Ties keep schedule order.
func Sort(rows []models.AmortizationRow, column string, desc bool) ([]models.AmortizationRow, error) {
	less, err := lessFunc(column)
	if err != nil {
		return nil, err
	}
	out := make([]models.AmortizationRow, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out, nil
}

func lessFunc(column string) (func(a, b models.AmortizationRow) bool, error) {
	switch column {
	case "installment", "number", "":
		return func(a, b models.AmortizationRow) bool { return a.Number < b.Number }, nil
	case "date":
		return func(a, b models.AmortizationRow) bool { return a.Date < b.Date }, nil
	case "interest":
		return func(a, b models.AmortizationRow) bool { return a.Interest < b.Interest }, nil
	case "principal":
		return func(a, b models.AmortizationRow) bool { return a.Principal < b.Principal }, nil
	case "payment":
		return func(a, b models.AmortizationRow) bool { return a.Payment < b.Payment }, nil
	case "remaining_balance", "balance":
		return func(a, b models.AmortizationRow) bool { return a.Balance < b.Balance }, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, column)
}
