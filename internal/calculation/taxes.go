package calculation

import (
	"github.com/shopspring/decimal"
)

// TAX CALCULATION ASSUMPTIONS:
//
// 1. Income Tax Brackets: resident individual rates used for all projection years
//    - No bracket indexation applied to future years
//    - Income at or below zero pays no tax
//
// 2. Medicare Levy: 2% flat, added to the marginal rate when taxing capital gains only
//
// 3. Negative gearing: the tax benefit of a property loss is the drop in tax payable when
//    the loss is added to the baseline income; a profit yields no benefit

// TaxBracket represents a marginal income tax bracket. Max of zero means unbounded.
type TaxBracket struct {
	Min  decimal.Decimal
	Max  decimal.Decimal
	Rate decimal.Decimal
	Base decimal.Decimal // tax payable on income up to Min
}

// TaxCalculator handles income tax and marginal rate lookups
type TaxCalculator struct {
	Brackets     []TaxBracket
	MedicareLevy decimal.Decimal
}

// DefaultMedicareLevy is the levy added to the marginal rate for capital gains
var DefaultMedicareLevy = decimal.NewFromFloat(0.02)

// DefaultTaxBrackets returns the resident individual schedule
func DefaultTaxBrackets() []TaxBracket {
	return []TaxBracket{
		{decimal.Zero, decimal.NewFromInt(18200), decimal.Zero, decimal.Zero},
		{decimal.NewFromInt(18200), decimal.NewFromInt(45000), decimal.NewFromFloat(0.19), decimal.Zero},
		{decimal.NewFromInt(45000), decimal.NewFromInt(120000), decimal.NewFromFloat(0.325), decimal.NewFromInt(5092)},
		{decimal.NewFromInt(120000), decimal.NewFromInt(180000), decimal.NewFromFloat(0.37), decimal.NewFromInt(29467)},
		{decimal.NewFromInt(180000), decimal.Zero, decimal.NewFromFloat(0.45), decimal.NewFromInt(51667)},
	}
}

// NewDefaultTaxCalculator creates a tax calculator with the resident schedule
func NewDefaultTaxCalculator() *TaxCalculator {
	return &TaxCalculator{
		Brackets:     DefaultTaxBrackets(),
		MedicareLevy: DefaultMedicareLevy,
	}
}

// NewTaxCalculator creates a tax calculator with configurable brackets, falling back to defaults
func NewTaxCalculator(brackets []TaxBracket, medicareLevy decimal.Decimal) *TaxCalculator {
	if len(brackets) == 0 { // fallback defaults
		brackets = DefaultTaxBrackets()
	}
	if medicareLevy.IsNegative() {
		medicareLevy = DefaultMedicareLevy
	}
	return &TaxCalculator{Brackets: brackets, MedicareLevy: medicareLevy}
}

// BracketFor returns the bracket containing income. ok is false for income at or below zero.
func (tc *TaxCalculator) BracketFor(income decimal.Decimal) (TaxBracket, bool) {
	if !income.IsPositive() {
		return TaxBracket{}, false
	}
	for _, b := range tc.Brackets {
		if income.GreaterThan(b.Min) && (b.Max.IsZero() || income.LessThanOrEqual(b.Max)) {
			return b, true
		}
	}
	return TaxBracket{}, false
}

// TaxPayable returns base + (income - min) x rate for the matching bracket
func (tc *TaxCalculator) TaxPayable(income decimal.Decimal) decimal.Decimal {
	b, ok := tc.BracketFor(income)
	if !ok {
		return decimal.Zero
	}
	return b.Base.Add(income.Sub(b.Min).Mul(b.Rate))
}

// MarginalRate returns the rate of the bracket containing income
func (tc *TaxCalculator) MarginalRate(income decimal.Decimal) decimal.Decimal {
	b, ok := tc.BracketFor(income)
	if !ok {
		return decimal.Zero
	}
	return b.Rate
}

// TaxBenefit is the reduction in tax payable from adding property income (usually a loss) to baseline income
func (tc *TaxCalculator) TaxBenefit(baselineIncome, propertyIncome decimal.Decimal) decimal.Decimal {
	before := tc.TaxPayable(baselineIncome)
	after := tc.TaxPayable(baselineIncome.Add(propertyIncome))
	return decimal.Max(decimal.Zero, before.Sub(after))
}

// CGTRate is the marginal rate plus the Medicare levy at the given assessable income
func (tc *TaxCalculator) CGTRate(assessableIncome decimal.Decimal) decimal.Decimal {
	return tc.MarginalRate(assessableIncome).Add(tc.MedicareLevy)
}
