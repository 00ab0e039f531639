package jurisdiction

import (
	"time"

	"github.com/rgehrsitz/propgo/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	hundred  = decimal.NewFromInt(100)
	thousand = decimal.NewFromInt(1000)
)

// DutyBracket is one band of a transfer duty schedule. Duty is Base plus RatePer100 for
// every $100 (or part) above Threshold; OfTotal brackets charge RatePer100 percent of the whole price.
type DutyBracket struct {
	Threshold  decimal.Decimal
	Base       decimal.Decimal
	RatePer100 decimal.Decimal
	OfTotal    bool
}

// LandTaxBracket is one band of a land tax schedule; Rate is a percentage of value above Threshold
type LandTaxBracket struct {
	Threshold decimal.Decimal
	Base      decimal.Decimal
	Rate      decimal.Decimal
}

// FirstHomeConcession describes a first home buyer duty exemption
type FirstHomeConcession struct {
	ExemptUpTo   decimal.Decimal // full exemption at or below this price
	TaperTo      decimal.Decimal // duty phases back in linearly up to this price; zero means no taper
	AllPrices    bool            // exempt regardless of price
	NewHomesOnly bool
}

// GrantRule describes a first home owner grant program
type GrantRule struct {
	Program       string
	Amount        decimal.Decimal
	Cap           decimal.Decimal // zero means no price cap
	ReducedAmount decimal.Decimal
	ReducedFrom   time.Time // zero means the amount never steps down
}

func dutyFromSchedule(schedule []DutyBracket, price decimal.Decimal) decimal.Decimal {
	if !price.IsPositive() {
		return decimal.Zero
	}
	var bracket *DutyBracket
	for i := range schedule {
		if price.GreaterThanOrEqual(schedule[i].Threshold) {
			bracket = &schedule[i]
		}
	}
	if bracket == nil {
		return decimal.Zero
	}
	if bracket.OfTotal {
		return price.Mul(bracket.RatePer100).Div(hundred).Round(0)
	}
	units := price.Sub(bracket.Threshold).Div(hundred).Ceil()
	return bracket.Base.Add(units.Mul(bracket.RatePer100)).Round(0)
}

func landTaxFromSchedule(schedule []LandTaxBracket, value decimal.Decimal) decimal.Decimal {
	var bracket *LandTaxBracket
	for i := range schedule {
		if value.GreaterThan(schedule[i].Threshold) {
			bracket = &schedule[i]
		}
	}
	if bracket == nil {
		return decimal.Zero
	}
	excess := value.Sub(bracket.Threshold)
	return bracket.Base.Add(excess.Mul(bracket.Rate).Div(hundred)).Round(0)
}

func (c FirstHomeConcession) applies() bool {
	return c.AllPrices || c.ExemptUpTo.IsPositive()
}

func (c FirstHomeConcession) apply(duty, price decimal.Decimal, isNewHome bool) decimal.Decimal {
	if !c.applies() || (c.NewHomesOnly && !isNewHome) {
		return duty
	}
	if c.AllPrices || price.LessThanOrEqual(c.ExemptUpTo) {
		return decimal.Zero
	}
	if c.TaperTo.GreaterThan(c.ExemptUpTo) && price.LessThan(c.TaperTo) {
		share := price.Sub(c.ExemptUpTo).Div(c.TaperTo.Sub(c.ExemptUpTo))
		return duty.Mul(share).Round(0)
	}
	return duty
}

func (g GrantRule) amountAt(asOf time.Time) decimal.Decimal {
	if !g.ReducedFrom.IsZero() && !asOf.Before(g.ReducedFrom) {
		return g.ReducedAmount
	}
	return g.Amount
}

// blockedBy reports whether supplied eligibility answers rule the applicant out
func blockedBy(p *domain.PrecisionInputs) bool {
	if p == nil {
		return false
	}
	return !p.IsCitizenOrPermanentResident ||
		!p.WillOccupyWithin12Months ||
		p.HasPreviouslyOwnedProperty ||
		(p.ApplicantAge > 0 && p.ApplicantAge < 18)
}

// stateRules is the table-driven Rules implementation shared by every jurisdiction
type stateRules struct {
	state                   domain.State
	duty                    []DutyBracket
	dutyFunc                func(price decimal.Decimal) decimal.Decimal // replaces duty when set
	homeConcession          decimal.Decimal
	firstHome               FirstHomeConcession
	transferFee             func(price decimal.Decimal) decimal.Decimal
	mortgageRegistrationFee decimal.Decimal
	landTax                 []LandTaxBracket
	grant                   *GrantRule
}

func (s *stateRules) State() domain.State { return s.state }

func (s *stateRules) StampDuty(req DutyRequest) decimal.Decimal {
	var duty decimal.Decimal
	if s.dutyFunc != nil {
		duty = s.dutyFunc(req.Price)
	} else {
		duty = dutyFromSchedule(s.duty, req.Price)
	}
	if !req.IsPPOR {
		return duty
	}

	best := duty
	if s.homeConcession.IsPositive() {
		best = decimal.Max(decimal.Zero, duty.Sub(s.homeConcession))
	}
	if req.IsFirstHomeBuyer {
		best = decimal.Min(best, s.firstHome.apply(duty, req.Price, req.IsNewHome))
	}
	return best
}

func (s *stateRules) TransferFee(price decimal.Decimal) decimal.Decimal {
	if s.transferFee == nil {
		return decimal.Zero
	}
	return s.transferFee(price).Round(2)
}

func (s *stateRules) MortgageRegistrationFee() decimal.Decimal {
	return s.mortgageRegistrationFee
}

func (s *stateRules) LandTax(taxableLandValue decimal.Decimal) decimal.Decimal {
	if !taxableLandValue.IsPositive() {
		return decimal.Zero
	}
	return landTaxFromSchedule(s.landTax, taxableLandValue)
}

func (s *stateRules) Grant(req GrantRequest) GrantResult {
	none := GrantResult{Amount: decimal.Zero}
	if s.grant == nil || !req.IsFirstHomeBuyer || !req.IsNewHome || !req.IsPPOR {
		return none
	}
	if s.grant.Cap.IsPositive() && req.Price.GreaterThan(s.grant.Cap) {
		return none
	}
	if blockedBy(req.Precision) {
		none.BlockedByPrecisionInputs = true
		return none
	}
	return GrantResult{Amount: s.grant.amountAt(req.AsOf), Program: s.grant.Program}
}

func flatFee(amount decimal.Decimal) func(decimal.Decimal) decimal.Decimal {
	return func(decimal.Decimal) decimal.Decimal { return amount }
}

// perBlockFee charges base plus step for every block (or part) of price above threshold, optionally capped
func perBlockFee(base, step, block, threshold, capAt decimal.Decimal) func(decimal.Decimal) decimal.Decimal {
	return func(price decimal.Decimal) decimal.Decimal {
		fee := base
		if price.GreaterThan(threshold) {
			blocks := price.Sub(threshold).Div(block).Ceil()
			fee = fee.Add(blocks.Mul(step))
		}
		if capAt.IsPositive() {
			fee = decimal.Min(fee, capAt)
		}
		return fee
	}
}
