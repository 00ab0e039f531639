package calculation

import (
	"github.com/rgehrsitz/propgo/internal/domain"
	"github.com/shopspring/decimal"
)

// applyOffsetLayer returns a copy of rows enriched with interest-saved figures and the total saved
func applyOffsetLayer(rows []domain.YearlyProjection) ([]domain.YearlyProjection, decimal.Decimal) {
	out := make([]domain.YearlyProjection, len(rows))
	cumulative := decimal.Zero
	for i, row := range rows {
		if row.Year > 0 {
			row.InterestSaved = row.NoOffsetInterest.Sub(row.YearlyInterestPaid)
			cumulative = cumulative.Add(row.InterestSaved)
		}
		row.CumulativeInterestSaved = cumulative
		row.EffectiveLoanBalance = decimal.Max(decimal.Zero, row.LoanBalance.Sub(row.OffsetBalance))
		out[i] = row
	}
	return out, cumulative
}

// loanTermReduction converts the month the offset loan was repaid into years and months saved.
// A loan that never repays early saves nothing.
func loanTermReduction(termMonths, payoffMonth int) domain.LoanTermReduction {
	if payoffMonth <= 0 || payoffMonth >= termMonths {
		return domain.LoanTermReduction{}
	}
	saved := termMonths - payoffMonth
	return domain.LoanTermReduction{Years: saved / 12, Months: saved % 12}
}
