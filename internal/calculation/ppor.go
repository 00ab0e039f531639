package calculation

import (
	"github.com/rgehrsitz/propgo/internal/domain"
	"github.com/shopspring/decimal"
)

// ExistingPPORCGTRate is the flat rate applied to taxable gains on a former home
var ExistingPPORCGTRate = decimal.NewFromFloat(0.245)

// applyExistingPPORLayer models capital gains on a pre-existing home held alongside the property.
// The home is exempt for the absence window; afterwards only growth above its cost base is taxed.
func applyExistingPPORLayer(rows []domain.YearlyProjection, details *domain.PropertyDetails, market *domain.MarketData) []domain.YearlyProjection {
	out := make([]domain.YearlyProjection, len(rows))
	copy(out, rows)
	if !details.ConsiderPPORTax || !details.ExistingPPORValue.IsPositive() {
		return out
	}

	costBase := details.ExistingPPORCostBase
	if !costBase.IsPositive() {
		costBase = details.ExistingPPORValue
	}

	previous := details.ExistingPPORValue
	for i := range out {
		year := out[i].Year
		value := details.ExistingPPORValue.Mul(growthFactor(market.PropertyGrowthRate, year))
		out[i].ExistingPPORValue = value
		out[i].ExistingPPORCGT = decimal.Zero

		if year > domain.CGTAbsenceYears {
			gain := value.Sub(previous)
			aboveBase := value.Sub(costBase)
			taxable := decimal.Max(decimal.Zero, decimal.Min(gain, aboveBase))
			out[i].ExistingPPORCGT = taxable.Mul(ExistingPPORCGTRate)
		}
		previous = value
	}
	return out
}
