package calculation

import (
	"time"

	"github.com/rgehrsitz/propgo/internal/domain"
	"github.com/rgehrsitz/propgo/internal/jurisdiction"
	"github.com/shopspring/decimal"
)

// PurchaseCostCalculator composes jurisdiction rules, LMI and home buyer benefits
// into upfront cost figures. Now supplies the date used by time-bounded grants.
type PurchaseCostCalculator struct {
	Now func() time.Time
}

// NewPurchaseCostCalculator creates a calculator reading the wall clock
func NewPurchaseCostCalculator() *PurchaseCostCalculator {
	return &PurchaseCostCalculator{Now: time.Now}
}

func (pc *PurchaseCostCalculator) now() time.Time {
	if pc == nil || pc.Now == nil {
		return time.Now()
	}
	return pc.Now()
}

// HomeBuyerBenefits summarises concessions and grants for a purchase
type HomeBuyerBenefits struct {
	StampDutyConcession           decimal.Decimal `json:"stampDutyConcession"`
	GrantAmount                   decimal.Decimal `json:"grantAmount"`
	GrantProgram                  string          `json:"grantProgram,omitempty"`
	NetBenefit                    decimal.Decimal `json:"netBenefit"`
	GrantBlockedByPrecisionInputs bool            `json:"grantBlockedByPrecisionInputs"`
}

// CalculateStampDuty returns transfer duty after any owner-occupier or first home concession
func (pc *PurchaseCostCalculator) CalculateStampDuty(price decimal.Decimal, isPPOR, isFirstHomeBuyer bool, state domain.State) decimal.Decimal {
	return jurisdiction.For(state).StampDuty(jurisdiction.DutyRequest{
		Price:            price,
		IsPPOR:           isPPOR,
		IsFirstHomeBuyer: isFirstHomeBuyer,
	})
}

// CalculateTransferFee returns the title transfer lodgement fee
func (pc *PurchaseCostCalculator) CalculateTransferFee(price decimal.Decimal, state domain.State) decimal.Decimal {
	return jurisdiction.For(state).TransferFee(price)
}

// CalculateHomeBuyerBenefits reports the duty concession and any grant for the purchase
func (pc *PurchaseCostCalculator) CalculateHomeBuyerBenefits(state domain.State, details *domain.PropertyDetails, stampDutyBefore, stampDutyAfter decimal.Decimal) HomeBuyerBenefits {
	grant := jurisdiction.For(state).Grant(jurisdiction.GrantRequest{
		Price:            details.PurchasePrice,
		IsFirstHomeBuyer: details.IsFirstHomeBuyer,
		IsNewHome:        details.IsNewHome,
		IsPPOR:           details.IsPPOR,
		Precision:        details.Precision,
		AsOf:             pc.now(),
	})

	concession := decimal.Max(decimal.Zero, stampDutyBefore.Sub(stampDutyAfter))
	return HomeBuyerBenefits{
		StampDutyConcession:           concession,
		GrantAmount:                   grant.Amount,
		GrantProgram:                  grant.Program,
		NetBenefit:                    concession.Add(grant.Amount),
		GrantBlockedByPrecisionInputs: grant.BlockedByPrecisionInputs,
	}
}

// CalculatePurchaseCosts returns the line-item breakdown of upfront costs.
// Total is the sum of the line items less any home buyer grant.
func (pc *PurchaseCostCalculator) CalculatePurchaseCosts(details *domain.PropertyDetails, conveyancingFee, buildingAndPestFee decimal.Decimal, state domain.State) domain.PurchaseCosts {
	rules := jurisdiction.For(state)
	price := details.PurchasePrice
	loan := details.LoanAmount()

	before := rules.StampDuty(jurisdiction.DutyRequest{Price: price})
	after := rules.StampDuty(jurisdiction.DutyRequest{
		Price:            price,
		IsPPOR:           details.IsPPOR,
		IsFirstHomeBuyer: details.IsFirstHomeBuyer,
		IsNewHome:        details.IsNewHome,
	})
	benefits := pc.CalculateHomeBuyerBenefits(state, details, before, after)

	registration := decimal.Zero
	if loan.IsPositive() {
		registration = rules.MortgageRegistrationFee()
	}

	costs := domain.PurchaseCosts{
		ConveyancingFee:            conveyancingFee,
		BuildingAndPestFee:         buildingAndPestFee,
		TransferFee:                rules.TransferFee(price),
		StampDutyBeforeConcessions: before,
		StampDuty:                  after,
		LMI:                        CalculateLMI(loan, price, details.LMIMode, details.LMIManualAmount, details.LMIWaived),
		MortgageRegistrationFee:    registration,
		HomeBuyerGrant:             benefits.GrantAmount,
		GrantProgram:               benefits.GrantProgram,
		StampDutyConcession:        benefits.StampDutyConcession,
		NetBenefit:                 benefits.NetBenefit,
		State:                      state,
	}
	costs.Total = costs.LineItemTotal().Sub(costs.HomeBuyerGrant)
	return costs
}
