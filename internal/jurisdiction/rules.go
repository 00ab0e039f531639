package jurisdiction

import (
	"time"

	"github.com/rgehrsitz/propgo/internal/domain"
	"github.com/shopspring/decimal"
)

// JURISDICTION ASSUMPTIONS:
//
// 1. Stamp duty: general transfer duty schedules in force for the 2024-25 year
//    - Computed per $100 (or part) of dutiable value above each bracket threshold
//    - NSW and QLD owner-occupiers receive a flat $7,125 home concession
//    - First home buyer exemptions taper linearly between the exemption and concession caps
//
// 2. Land tax: general (non-trust) schedules; NT levies none
//    - ACT residential land tax is modelled as a fixed charge plus marginal rates
//
// 3. Transfer and mortgage registration fees: published lodgement fees, sliding scales approximated
//
// 4. Grants: first home owner grants for new homes only, owner-occupied, under the price cap

// Rules is the complete rule set for one jurisdiction
type Rules interface {
	State() domain.State
	StampDuty(req DutyRequest) decimal.Decimal
	TransferFee(price decimal.Decimal) decimal.Decimal
	MortgageRegistrationFee() decimal.Decimal
	LandTax(taxableLandValue decimal.Decimal) decimal.Decimal
	Grant(req GrantRequest) GrantResult
}

// DutyRequest describes a purchase for duty purposes
type DutyRequest struct {
	Price            decimal.Decimal
	IsPPOR           bool
	IsFirstHomeBuyer bool
	IsNewHome        bool
}

// GrantRequest describes a purchase for grant eligibility
type GrantRequest struct {
	Price            decimal.Decimal
	IsFirstHomeBuyer bool
	IsNewHome        bool
	IsPPOR           bool
	Precision        *domain.PrecisionInputs
	AsOf             time.Time
}

// GrantResult is the outcome of a grant eligibility check
type GrantResult struct {
	Amount                   decimal.Decimal
	Program                  string // empty when no grant applies
	BlockedByPrecisionInputs bool
}

// For returns the rule set for a state, or the generic estimate for an unknown one
func For(state domain.State) Rules {
	if r, ok := registry[state]; ok {
		return r
	}
	return genericRules{state: state}
}

// IsSupported reports whether a dedicated rule set is registered for the state
func IsSupported(state domain.State) bool {
	_, ok := registry[state]
	return ok
}

var genericDutyRate = decimal.NewFromFloat(0.04)

// genericRules estimates duty for a jurisdiction with no schedule and charges nothing else
type genericRules struct {
	state domain.State
}

func (g genericRules) State() domain.State { return g.state }

func (g genericRules) StampDuty(req DutyRequest) decimal.Decimal {
	return req.Price.Mul(genericDutyRate).Round(0)
}

func (g genericRules) TransferFee(decimal.Decimal) decimal.Decimal { return decimal.Zero }

func (g genericRules) MortgageRegistrationFee() decimal.Decimal { return decimal.Zero }

func (g genericRules) LandTax(decimal.Decimal) decimal.Decimal { return decimal.Zero }

func (g genericRules) Grant(GrantRequest) GrantResult { return GrantResult{Amount: decimal.Zero} }
