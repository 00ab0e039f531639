package calculation

import (
	"math"

	"github.com/shopspring/decimal"
)

// moneyPrecision bounds the digits carried between monthly steps
const moneyPrecision = 10

var (
	hundred       = decimal.NewFromInt(100)
	monthsPerYear = decimal.NewFromInt(12)
	decimalOne    = decimal.NewFromInt(1)
)

// monthlyRate converts an annual percentage to a monthly fraction; negative rates clamp to zero
func monthlyRate(annualPercent decimal.Decimal) decimal.Decimal {
	if !annualPercent.IsPositive() {
		return decimal.Zero
	}
	return annualPercent.Div(hundred).Div(monthsPerYear)
}

// growthFactor returns (1 + percent/100)^years
func growthFactor(percent decimal.Decimal, years int) decimal.Decimal {
	if years <= 0 {
		return decimalOne
	}
	return decimalOne.Add(percent.Div(hundred)).Pow(decimal.NewFromInt(int64(years))).Round(moneyPrecision)
}

// monthlyPayment returns the level payment that amortises principal over months.
// A zero rate amortises straight-line; interest-only pays the interest on the full principal.
func monthlyPayment(principal, annualPercent decimal.Decimal, months int, interestOnly bool) decimal.Decimal {
	if months <= 0 || !principal.IsPositive() {
		return decimal.Zero
	}
	r := monthlyRate(annualPercent)
	if interestOnly {
		return principal.Mul(r).Round(moneyPrecision)
	}
	if r.IsZero() {
		return principal.Div(decimal.NewFromInt(int64(months))).Round(moneyPrecision)
	}

	rf := r.InexactFloat64()
	growth := math.Pow(1+rf, float64(months))
	payment := principal.InexactFloat64() * rf * growth / (growth - 1)
	return decimal.NewFromFloat(payment)
}

// loanConfig parametrises one amortization loop
type loanConfig struct {
	rate                decimal.Decimal // monthly fraction
	payment             decimal.Decimal
	interestOnly        bool
	useOffset           bool
	monthlyContribution decimal.Decimal
	termMonths          int
}

// loanState is the carried state of one amortization loop
type loanState struct {
	balance     decimal.Decimal
	offset      decimal.Decimal
	month       int // months elapsed since settlement
	payoffMonth int // 0 until the balance reaches zero
}

func (s loanState) live() bool {
	return s.balance.IsPositive()
}

// monthResult is the flow of a single simulated month
type monthResult struct {
	interest     decimal.Decimal
	principal    decimal.Decimal
	contribution decimal.Decimal
	active       bool
}

// stepMonth advances a loop by one month. Once the balance reaches zero every flow,
// offset contributions included, stays at zero.
func stepMonth(s loanState, cfg loanConfig) (loanState, monthResult) {
	s.month++
	if !s.live() {
		return s, monthResult{interest: decimal.Zero, principal: decimal.Zero, contribution: decimal.Zero}
	}

	res := monthResult{contribution: decimal.Zero, active: true}
	effective := s.balance
	if cfg.useOffset {
		res.contribution = cfg.monthlyContribution
		s.offset = s.offset.Add(cfg.monthlyContribution)
		effective = decimal.Max(decimal.Zero, s.balance.Sub(s.offset))
	}
	res.interest = effective.Mul(cfg.rate).Round(moneyPrecision)

	switch {
	case cfg.interestOnly:
		res.principal = decimal.Zero
	case cfg.termMonths > 0 && s.month >= cfg.termMonths:
		res.principal = s.balance // final instalment clears any residual
	default:
		res.principal = decimal.Min(decimal.Max(decimal.Zero, cfg.payment.Sub(res.interest)), s.balance)
	}

	s.balance = s.balance.Sub(res.principal)
	if !s.balance.IsPositive() {
		s.balance = decimal.Zero
		s.payoffMonth = s.month
	}
	return s, res
}

// loanYear aggregates one year of the real loop and its no-offset shadow
type loanYear struct {
	real, shadow   loanState
	interest       decimal.Decimal
	principal      decimal.Decimal
	contributions  decimal.Decimal
	shadowInterest decimal.Decimal // only months in which the real loan was live
	monthsActive   int
}

// simulateLoanYear runs both loops through the same step function for the given months
func simulateLoanYear(real, shadow loanState, realCfg, shadowCfg loanConfig, months int) loanYear {
	y := loanYear{
		interest:       decimal.Zero,
		principal:      decimal.Zero,
		contributions:  decimal.Zero,
		shadowInterest: decimal.Zero,
	}
	for m := 0; m < months; m++ {
		wasLive := real.live()

		var rm, sm monthResult
		real, rm = stepMonth(real, realCfg)
		shadow, sm = stepMonth(shadow, shadowCfg)

		y.interest = y.interest.Add(rm.interest)
		y.principal = y.principal.Add(rm.principal)
		y.contributions = y.contributions.Add(rm.contribution)
		if rm.active {
			y.monthsActive++
		}
		if wasLive {
			y.shadowInterest = y.shadowInterest.Add(sm.interest)
		}
	}
	y.real = real
	y.shadow = shadow
	return y
}
