package calculation

import (
	"github.com/rgehrsitz/propgo/internal/domain"
	"github.com/rgehrsitz/propgo/internal/jurisdiction"
	"github.com/shopspring/decimal"
)

var defaultLandValueShare = decimal.NewFromFloat(0.5)

// LandTaxOverrides replaces individual land tax inputs; nil fields fall back to PropertyDetails
type LandTaxOverrides struct {
	LandValue     *decimal.Decimal
	OtherHoldings *decimal.Decimal
	Mode          *domain.LandTaxMode
}

// EffectiveLandTax is the annual land tax attributed to the property
type EffectiveLandTax struct {
	Amount        decimal.Decimal    `json:"amount"`
	LandValueUsed decimal.Decimal    `json:"landValueUsed"`
	Mode          domain.LandTaxMode `json:"mode"`
}

// AttributedLandTax is the extra land tax the property adds on top of other holdings
func AttributedLandTax(state domain.State, ownLandValue, otherHoldings decimal.Decimal) decimal.Decimal {
	rules := jurisdiction.For(state)
	combined := rules.LandTax(ownLandValue.Add(otherHoldings))
	alone := rules.LandTax(otherHoldings)
	return decimal.Max(decimal.Zero, combined.Sub(alone))
}

func landValueFor(details *domain.PropertyDetails) decimal.Decimal {
	if details.LandValue.IsPositive() {
		return details.LandValue
	}
	return details.PurchasePrice.Mul(defaultLandValueShare)
}

func landTaxModeFor(details *domain.PropertyDetails) domain.LandTaxMode {
	if details.LandTaxMode == "" {
		return domain.LandTaxAuto
	}
	return details.LandTaxMode
}

// CalculateEffectiveLandTax resolves the year-one land tax for the property.
// Owner-occupied homes and NT properties pay none.
func CalculateEffectiveLandTax(details *domain.PropertyDetails, state domain.State, overrides *LandTaxOverrides) EffectiveLandTax {
	mode := landTaxModeFor(details)
	landValue := landValueFor(details)
	other := details.OtherLandHoldings
	if overrides != nil {
		if overrides.Mode != nil {
			mode = *overrides.Mode
		}
		if overrides.LandValue != nil {
			landValue = *overrides.LandValue
		}
		if overrides.OtherHoldings != nil {
			other = *overrides.OtherHoldings
		}
	}

	result := EffectiveLandTax{Amount: decimal.Zero, LandValueUsed: landValue, Mode: mode}
	if details.IsPPOR || state == domain.StateNT {
		return result
	}

	switch mode {
	case domain.LandTaxNone:
	case domain.LandTaxManual:
		result.Amount = decimal.Max(decimal.Zero, details.ManualLandTax)
	default:
		result.Amount = AttributedLandTax(state, landValue, other)
	}
	return result
}

// ComputeAnnualPropertyCosts returns year-one recurring costs including land tax
func ComputeAnnualPropertyCosts(costs *domain.CostStructure, details *domain.PropertyDetails, state domain.State) decimal.Decimal {
	base, allIn := costs.OperatingCostBase(details.PurchasePrice)
	if allIn {
		return base
	}
	return base.Add(CalculateEffectiveLandTax(details, state, nil).Amount)
}

// landTaxSchedule yields the land tax for each projection year
type landTaxSchedule struct {
	details    *domain.PropertyDetails
	mode       domain.LandTaxMode
	landValue  decimal.Decimal
	growthRate decimal.Decimal // percent
	opexGrowth decimal.Decimal // percent
}

func newLandTaxSchedule(details *domain.PropertyDetails, market *domain.MarketData) landTaxSchedule {
	growth := market.PropertyGrowthRate
	if details.LandValueGrowthRate != nil {
		growth = *details.LandValueGrowthRate
	}
	return landTaxSchedule{
		details:    details,
		mode:       landTaxModeFor(details),
		landValue:  landValueFor(details),
		growthRate: growth,
		opexGrowth: market.OperatingExpensesGrowthRate,
	}
}

// forYear returns land tax for a projection year. Auto mode reassesses the grown land value
// against flat other holdings; a manual amount grows with operating expenses.
func (s landTaxSchedule) forYear(year int) decimal.Decimal {
	if s.details.IsPPOR || s.details.State == domain.StateNT {
		return decimal.Zero
	}
	switch s.mode {
	case domain.LandTaxNone:
		return decimal.Zero
	case domain.LandTaxManual:
		return decimal.Max(decimal.Zero, s.details.ManualLandTax).Mul(growthFactor(s.opexGrowth, year-1))
	default:
		factor := growthFactor(s.growthRate, year-1)
		return AttributedLandTax(s.details.State, s.landValue.Mul(factor), s.details.OtherLandHoldings)
	}
}
