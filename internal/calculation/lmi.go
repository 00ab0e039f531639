package calculation

import (
	"github.com/rgehrsitz/propgo/internal/domain"
	"github.com/shopspring/decimal"
)

// lmiTier charges Rate of the loan when LVR is at or below MaxLVR
type lmiTier struct {
	MaxLVR decimal.Decimal
	Rate   decimal.Decimal
}

var lmiTiers = []lmiTier{
	{decimal.NewFromInt(80), decimal.Zero},
	{decimal.NewFromInt(85), decimal.NewFromFloat(0.010)},
	{decimal.NewFromInt(90), decimal.NewFromFloat(0.018)},
	{decimal.NewFromInt(95), decimal.NewFromFloat(0.029)},
}

var lmiTopRate = decimal.NewFromFloat(0.038)

// LVR returns the loan-to-value ratio as a percentage
func LVR(loan, price decimal.Decimal) decimal.Decimal {
	if !price.IsPositive() {
		return decimal.Zero
	}
	return loan.Div(price).Mul(hundred)
}

// CalculateLMI returns lender's mortgage insurance rounded to whole dollars
func CalculateLMI(loan, price decimal.Decimal, mode domain.LMIMode, manual *decimal.Decimal, waived bool) decimal.Decimal {
	if waived || !loan.IsPositive() {
		return decimal.Zero
	}
	if mode == domain.LMIManual {
		if manual == nil {
			return decimal.Zero
		}
		return decimal.Max(decimal.Zero, *manual)
	}

	lvr := LVR(loan, price)
	rate := lmiTopRate
	for _, tier := range lmiTiers {
		if lvr.LessThanOrEqual(tier.MaxLVR) {
			rate = tier.Rate
			break
		}
	}
	return loan.Mul(rate).Round(0)
}
