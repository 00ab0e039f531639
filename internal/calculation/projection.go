package calculation

import (
	"math"

	"github.com/rgehrsitz/propgo/internal/domain"
	"github.com/shopspring/decimal"
)

// projectionInputs are the per-call constants the yearly fold reads
type projectionInputs struct {
	details *domain.PropertyDetails
	market  *domain.MarketData
	costs   *domain.CostStructure
	tax     *TaxCalculator

	termMonths         int
	loanAmount         decimal.Decimal
	initialOffset      decimal.Decimal
	initialPayment     decimal.Decimal
	purchaseCostsTotal decimal.Decimal
	initialInvestment  decimal.Decimal
	values             []decimal.Decimal // property value at the end of each year, index 0 at purchase
	annualRent         decimal.Decimal
	operatingBase      decimal.Decimal
	operatingAllIn     bool
	landTax            landTaxSchedule
	cgtDiscount        decimal.Decimal
	quarantineStart    int // 0 when losses are never quarantined
}

func newProjectionInputs(details *domain.PropertyDetails, market *domain.MarketData, costs *domain.CostStructure, tax *TaxCalculator, offsetAmount decimal.Decimal) projectionInputs {
	term := details.LoanTerm
	if term < 0 {
		term = 0
	}
	loan := details.LoanAmount()
	opBase, allIn := costs.OperatingCostBase(details.PurchasePrice)

	return projectionInputs{
		details:            details,
		market:             market,
		costs:              costs,
		tax:                tax,
		termMonths:         term * 12,
		loanAmount:         loan,
		initialOffset:      details.InitialOffset(offsetAmount),
		initialPayment:     monthlyPayment(loan, details.RateForYear(1), term*12, details.EffectiveLoanType() == domain.LoanInterestOnly),
		purchaseCostsTotal: costs.PurchaseCosts.Total,
		initialInvestment:  details.DepositAmount.Add(costs.PurchaseCosts.Total),
		values:             propertyValuePath(details.PurchasePrice, market, term),
		annualRent:         details.AnnualRent(),
		operatingBase:      opBase,
		operatingAllIn:     allIn,
		landTax:            newLandTaxSchedule(details, market),
		cgtDiscount:        details.CGTDiscount(),
		quarantineStart:    details.QuarantineStartYear(),
	}
}

func (in projectionInputs) interestOnly() bool {
	return in.details.EffectiveLoanType() == domain.LoanInterestOnly
}

// propertyValuePath returns end-of-year values for years 0..term. Growth compounds annually,
// an optional valuation anchor recalibrates the curve, and corrections compound forward.
func propertyValuePath(price decimal.Decimal, market *domain.MarketData, term int) []decimal.Decimal {
	values := make([]decimal.Decimal, term+1)
	values[0] = price

	correction := decimalOne
	for year := 1; year <= term; year++ {
		base := price.Mul(growthFactor(market.PropertyGrowthRate, year))
		if market.HasValuationAnchor() {
			base = anchoredValue(price, market, year)
		}
		if c := market.CorrectionForYear(year); !c.IsZero() {
			correction = correction.Mul(decimalOne.Add(c.Div(hundred)))
		}
		values[year] = base.Mul(correction).Round(moneyPrecision)
	}
	return values
}

// anchoredValue interpolates geometrically from price to the anchor value, then grows from it
func anchoredValue(price decimal.Decimal, market *domain.MarketData, year int) decimal.Decimal {
	anchorYear := *market.CurrentValueYear
	anchorValue := *market.CurrentPropertyValue
	switch {
	case year == anchorYear:
		return anchorValue
	case year > anchorYear:
		return anchorValue.Mul(growthFactor(market.PropertyGrowthRate, year-anchorYear))
	case !price.IsPositive():
		return decimal.Zero
	}
	ratio := anchorValue.Div(price).InexactFloat64()
	factor := math.Pow(ratio, float64(year)/float64(anchorYear))
	return price.Mul(decimal.NewFromFloat(factor))
}

// yearAccumulator is the state carried from one projection year to the next
type yearAccumulator struct {
	real          loanState
	shadow        loanState
	realPayment   decimal.Decimal
	shadowPayment decimal.Decimal
	rate          decimal.Decimal

	cumulativePrincipal     decimal.Decimal
	cumulativeInterest      decimal.Decimal
	cumulativeContributions decimal.Decimal
	cumulativeDepreciation  decimal.Decimal
	cumulativeCashFlow      decimal.Decimal
	quarantined             decimal.Decimal
}

func initialAccumulator(in projectionInputs) yearAccumulator {
	return yearAccumulator{
		real:                    loanState{balance: in.loanAmount, offset: in.initialOffset},
		shadow:                  loanState{balance: in.loanAmount, offset: decimal.Zero},
		realPayment:             in.initialPayment,
		shadowPayment:           in.initialPayment,
		rate:                    in.details.RateForYear(1),
		cumulativePrincipal:     decimal.Zero,
		cumulativeInterest:      decimal.Zero,
		cumulativeContributions: decimal.Zero,
		cumulativeDepreciation:  decimal.Zero,
		cumulativeCashFlow:      decimal.Zero,
		quarantined:             decimal.Zero,
	}
}

// purchaseSnapshot is the year-0 row describing the position at settlement
func purchaseSnapshot(in projectionInputs, acc yearAccumulator) domain.YearlyProjection {
	row := domain.YearlyProjection{Year: 0}
	row.PropertyValue = in.values[0]
	row.InterestRate = acc.rate
	row.MonthlyPayment = acc.realPayment
	row.LoanBalance = acc.real.balance
	row.OffsetBalance = acc.real.offset
	row.EffectiveLoanBalance = decimal.Max(decimal.Zero, acc.real.balance.Sub(acc.real.offset))
	row.NoOffsetLoanBalance = acc.shadow.balance
	row.Equity = row.PropertyValue.Sub(row.LoanBalance)
	row.NetEquityAfterCGT = row.Equity
	return row
}

// buildProjection folds the accumulator over every loan year
func buildProjection(in projectionInputs, log Logger) ([]domain.YearlyProjection, yearAccumulator) {
	term := len(in.values) - 1
	acc := initialAccumulator(in)
	rows := make([]domain.YearlyProjection, 0, term+1)
	rows = append(rows, purchaseSnapshot(in, acc))

	for year := 1; year <= term; year++ {
		var row domain.YearlyProjection
		row, acc = projectYear(in, acc, year)
		rows = append(rows, row)
		log.Debugf("year %d: value=%s balance=%s offset=%s cashflow=%s",
			year, row.PropertyValue.StringFixed(2), row.LoanBalance.StringFixed(2),
			row.OffsetBalance.StringFixed(2), row.CashFlow.StringFixed(2))
	}
	return rows, acc
}

// projectYear produces one year's row and the accumulator for the next year
func projectYear(in projectionInputs, acc yearAccumulator, year int) (domain.YearlyProjection, yearAccumulator) {
	details := in.details
	row := domain.YearlyProjection{Year: year}

	// Loan: a rate change re-amortises the scheduled (no-offset) balance and both loops
	// pay that amount, so the offset keeps shortening the real loan
	rate := details.RateForYear(year)
	remaining := in.termMonths - (year-1)*12
	if !rate.Equal(acc.rate) {
		acc.shadowPayment = monthlyPayment(acc.shadow.balance, rate, remaining, in.interestOnly())
		acc.realPayment = acc.shadowPayment
		acc.rate = rate
	}
	months := remaining
	if months > 12 {
		months = 12
	}
	realCfg := loanConfig{
		rate:                monthlyRate(rate),
		payment:             acc.realPayment,
		interestOnly:        in.interestOnly(),
		useOffset:           true,
		monthlyContribution: details.MonthlyOffsetContribution(),
		termMonths:          in.termMonths,
	}
	shadowCfg := realCfg
	shadowCfg.payment = acc.shadowPayment
	shadowCfg.useOffset = false
	shadowCfg.monthlyContribution = decimal.Zero

	loan := simulateLoanYear(acc.real, acc.shadow, realCfg, shadowCfg, months)
	acc.real = loan.real
	acc.shadow = loan.shadow

	row.InterestRate = rate
	row.MonthlyPayment = acc.realPayment
	row.MonthsSimulated = loan.monthsActive
	row.YearlyInterestPaid = loan.interest
	row.YearlyPrincipalPaid = loan.principal
	row.LoanBalance = acc.real.balance
	row.OffsetBalance = acc.real.offset
	row.EffectiveLoanBalance = decimal.Max(decimal.Zero, acc.real.balance.Sub(acc.real.offset))
	row.NoOffsetLoanBalance = acc.shadow.balance
	row.NoOffsetInterest = loan.shadowInterest

	// Income and costs; flows in year y are indexed from the base figures at (1+g)^(y-1)
	rentFigure := in.annualRent.Mul(growthFactor(in.market.RentIncreaseRate, year-1))
	opexFactor := growthFactor(in.market.OperatingExpensesGrowthRate, year-1)

	if details.IsPPOR {
		row.RentSavings = rentFigure
	} else {
		row.RentalIncome = rentFigure
		row.ManagementFees = managementFee(details, rentFigure, opexFactor)
	}

	row.OtherPropertyCosts = in.operatingBase.Mul(opexFactor)
	if !in.operatingAllIn {
		row.LandTax = in.landTax.forYear(year)
		row.OtherPropertyCosts = row.OtherPropertyCosts.Add(row.LandTax)
	}
	row.YearlyExpenses = row.YearlyInterestPaid.Add(row.ManagementFees).Add(row.OtherPropertyCosts)

	row.CapitalWorksDepreciation, row.PlantEquipmentDepreciation = details.DepreciationForYear(year)
	row.TotalDepreciation = row.CapitalWorksDepreciation.Add(row.PlantEquipmentDepreciation)

	// Tax
	recognised := decimal.Zero
	if !details.IsPPOR {
		row.NetPropertyIncome = row.RentalIncome.Sub(row.YearlyExpenses).Sub(row.TotalDepreciation)
		recognised, acc.quarantined, row.QuarantinedLossesUsed = applyQuarantine(
			row.NetPropertyIncome, acc.quarantined, in.quarantineStart > 0 && year >= in.quarantineStart)
		row.TaxableIncome = recognised
		row.TaxBenefit = in.tax.TaxBenefit(details.TaxableIncome, recognised)
		row.CashFlow = row.RentalIncome.Sub(row.YearlyExpenses).Sub(row.YearlyPrincipalPaid).Add(row.TaxBenefit)
	} else {
		row.CashFlow = row.RentSavings.Sub(row.YearlyExpenses).Sub(row.YearlyPrincipalPaid)
	}
	row.QuarantinedLosses = acc.quarantined

	// Capital gains
	row.PropertyValue = in.values[year]
	row.CapitalGain = row.PropertyValue.Sub(in.values[year-1])
	exempt := details.IsCGTExemptInYear(year)
	if !exempt && row.CapitalGain.IsPositive() {
		discounted := row.CapitalGain.Mul(decimalOne.Sub(in.cgtDiscount))
		row.AnnualCGT = discounted.Mul(in.tax.CGTRate(details.TaxableIncome.Add(recognised)))
	}

	acc.cumulativePrincipal = acc.cumulativePrincipal.Add(row.YearlyPrincipalPaid)
	acc.cumulativeInterest = acc.cumulativeInterest.Add(row.YearlyInterestPaid)
	acc.cumulativeContributions = acc.cumulativeContributions.Add(loan.contributions)
	acc.cumulativeDepreciation = acc.cumulativeDepreciation.Add(row.TotalDepreciation)
	acc.cumulativeCashFlow = acc.cumulativeCashFlow.Add(row.CashFlow)

	row.CumulativePrincipalPaid = acc.cumulativePrincipal
	row.CumulativeInterestPaid = acc.cumulativeInterest
	row.CumulativeOffsetContributions = acc.cumulativeContributions
	row.CumulativeDepreciation = acc.cumulativeDepreciation
	row.CumulativeCashFlow = acc.cumulativeCashFlow

	if !exempt {
		row.CGTPayable = cumulativeCGT(in, row.PropertyValue, acc.cumulativeDepreciation)
	}
	row.Equity = row.PropertyValue.Sub(row.LoanBalance)
	row.NetEquityAfterCGT = row.Equity.Sub(row.CGTPayable)

	// Returns
	income := row.RentalIncome.Add(row.RentSavings)
	annualReturn := income.Sub(row.YearlyExpenses).Add(row.TaxBenefit).Add(row.CapitalGain).Sub(row.AnnualCGT)
	invested := in.initialInvestment.Add(acc.cumulativePrincipal).Add(acc.cumulativeContributions)
	row.ROI = percentOf(annualReturn, invested)
	row.ROIOnInitialInvestment = percentOf(annualReturn, in.initialInvestment)

	return row, acc
}

// managementFee is a percentage of rent, or a fixed amount indexed with operating expenses
func managementFee(details *domain.PropertyDetails, rent, opexFactor decimal.Decimal) decimal.Decimal {
	if details.ManagementFeeType == domain.FeeFixed {
		return details.ManagementFee.Mul(opexFactor)
	}
	return rent.Mul(details.ManagementFee).Div(hundred)
}

// applyQuarantine returns the income recognised for tax, the new quarantined balance and
// the amount released this year. Outside the quarantine window income flows through untouched.
func applyQuarantine(netIncome, balance decimal.Decimal, active bool) (recognised, newBalance, used decimal.Decimal) {
	if !active {
		return netIncome, balance, decimal.Zero
	}
	if netIncome.IsNegative() {
		return decimal.Zero, balance.Add(netIncome.Neg()), decimal.Zero
	}
	used = decimal.Min(netIncome, balance)
	return netIncome.Sub(used), balance.Sub(used), used
}

// cumulativeCGT is the tax payable if the property were sold at the given value
func cumulativeCGT(in projectionInputs, value, cumulativeDepreciation decimal.Decimal) decimal.Decimal {
	costBase := in.details.PurchasePrice.
		Add(in.purchaseCostsTotal).
		Add(in.costs.SaleCosts(value)).
		Sub(cumulativeDepreciation)
	gain := value.Sub(costBase)
	if !gain.IsPositive() {
		return decimal.Zero
	}
	discounted := gain.Mul(decimalOne.Sub(in.cgtDiscount))
	return discounted.Mul(in.tax.CGTRate(in.details.TaxableIncome.Add(discounted)))
}

func percentOf(numerator, denominator decimal.Decimal) decimal.Decimal {
	if denominator.IsZero() {
		return decimal.Zero
	}
	return numerator.Div(denominator).Mul(hundred)
}
