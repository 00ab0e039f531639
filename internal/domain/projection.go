package domain

import (
	"github.com/shopspring/decimal"
)

// NoBreakEven marks a projection whose net position never turns non-negative
const NoBreakEven = -1

// YearlyProjection is the complete financial picture for a single year of ownership.
// Year 0 is the purchase snapshot; years 1..loanTerm are simulated.
type YearlyProjection struct {
	Year int `json:"year"`

	// Value and income
	PropertyValue     decimal.Decimal `json:"propertyValue"`
	RentalIncome      decimal.Decimal `json:"rentalIncome"`
	RentSavings       decimal.Decimal `json:"rentSavings"`
	RentalCost        decimal.Decimal `json:"rentalCost"`
	NetPropertyIncome decimal.Decimal `json:"netPropertyIncome"`

	// Loan
	InterestRate                  decimal.Decimal `json:"interestRate"`
	MonthlyPayment                decimal.Decimal `json:"monthlyPayment"`
	MonthsSimulated               int             `json:"monthsSimulated"`
	LoanBalance                   decimal.Decimal `json:"loanBalance"`
	EffectiveLoanBalance          decimal.Decimal `json:"effectiveLoanBalance"`
	OffsetBalance                 decimal.Decimal `json:"offsetBalance"`
	CumulativeOffsetContributions decimal.Decimal `json:"cumulativeOffsetContributions"`
	YearlyInterestPaid            decimal.Decimal `json:"yearlyInterestPaid"`
	YearlyPrincipalPaid           decimal.Decimal `json:"yearlyPrincipalPaid"`
	CumulativePrincipalPaid       decimal.Decimal `json:"cumulativePrincipalPaid"`
	CumulativeInterestPaid        decimal.Decimal `json:"cumulativeInterestPaid"`
	NoOffsetLoanBalance           decimal.Decimal `json:"noOffsetLoanBalance"`
	NoOffsetInterest              decimal.Decimal `json:"noOffsetInterest"`
	InterestSaved                 decimal.Decimal `json:"interestSaved"`
	CumulativeInterestSaved       decimal.Decimal `json:"cumulativeInterestSaved"`

	// Costs
	ManagementFees             decimal.Decimal `json:"managementFees"`
	OtherPropertyCosts         decimal.Decimal `json:"otherPropertyCosts"`
	LandTax                    decimal.Decimal `json:"landTax"`
	YearlyExpenses             decimal.Decimal `json:"yearlyExpenses"`
	CapitalWorksDepreciation   decimal.Decimal `json:"capitalWorksDepreciation"`
	PlantEquipmentDepreciation decimal.Decimal `json:"plantEquipmentDepreciation"`
	TotalDepreciation          decimal.Decimal `json:"totalDepreciation"`
	CumulativeDepreciation     decimal.Decimal `json:"cumulativeDepreciation"`

	// Tax
	TaxableIncome         decimal.Decimal `json:"taxableIncome"`
	TaxBenefit            decimal.Decimal `json:"taxBenefit"`
	QuarantinedLosses     decimal.Decimal `json:"quarantinedLosses"`
	QuarantinedLossesUsed decimal.Decimal `json:"quarantinedLossesUsed"`
	CapitalGain           decimal.Decimal `json:"capitalGain"`
	AnnualCGT             decimal.Decimal `json:"annualCGT"`
	CGTPayable            decimal.Decimal `json:"cgtPayable"`

	// Equity
	Equity            decimal.Decimal `json:"equity"`
	NetEquityAfterCGT decimal.Decimal `json:"netEquityAfterCGT"`

	// Cash and returns
	CashFlow               decimal.Decimal `json:"cashFlow"`
	CumulativeCashFlow     decimal.Decimal `json:"cumulativeCashFlow"`
	ROI                    decimal.Decimal `json:"roi"`
	ROIOnInitialInvestment decimal.Decimal `json:"roiOnInitialInvestment"`

	// Existing home
	ExistingPPORValue decimal.Decimal `json:"existingPPORValue"`
	ExistingPPORCGT   decimal.Decimal `json:"existingPPORCGT"`

	// Comparative metrics
	MortgageCashFlow          decimal.Decimal `json:"mortgageCashFlow"`
	TotalHoldingCost          decimal.Decimal `json:"totalHoldingCost"`
	CashFlowDelta             decimal.Decimal `json:"cashFlowDelta"`
	InvestmentReserve         decimal.Decimal `json:"investmentReserve"`
	OpportunityCost           decimal.Decimal `json:"opportunityCost"`
	CumulativeOpportunityCost decimal.Decimal `json:"cumulativeOpportunityCost"`
	BuyingCosts               decimal.Decimal `json:"buyingCosts"`
	CumulativeBuyingCosts     decimal.Decimal `json:"cumulativeBuyingCosts"`
	CumulativeRentalCosts     decimal.Decimal `json:"cumulativeRentalCosts"`
	HouseAppreciation         decimal.Decimal `json:"houseAppreciation"`
	PotentialSaleCosts        decimal.Decimal `json:"potentialSaleCosts"`
	NetPosition               decimal.Decimal `json:"netPosition"`
}

// CalculationResults bundles the yearly rows with headline metrics
type CalculationResults struct {
	YearlyProjections []YearlyProjection `json:"yearlyProjections"`

	MonthlyMortgagePayment decimal.Decimal `json:"monthlyMortgagePayment"`
	Principal              decimal.Decimal `json:"principal"`

	TotalInterestSaved decimal.Decimal   `json:"totalInterestSaved"`
	LoanTermReduction  LoanTermReduction `json:"loanTermReduction"`
	PayoffMonth        int               `json:"payoffMonth"` // 0 when the loan runs to term
	OffsetAmount       decimal.Decimal   `json:"offsetAmount"`

	AverageROI                    decimal.Decimal `json:"averageROI"`
	AverageROIOnInitialInvestment decimal.Decimal `json:"averageROIOnInitialInvestment"`
	InitialInvestment             decimal.Decimal `json:"initialInvestment"`
	FinalPropertyValue            decimal.Decimal `json:"finalPropertyValue"`
	FinalCGTPayable               decimal.Decimal `json:"finalCGTPayable"`
	CumulativeCashFlow            decimal.Decimal `json:"cumulativeCashFlow"`
	TotalQuarantinedLosses        decimal.Decimal `json:"totalQuarantinedLosses"`
	BreakEvenYear                 int             `json:"breakEvenYear"`
	NetPositionAtEnd              decimal.Decimal `json:"netPositionAtEnd"`
	TotalDepreciation             decimal.Decimal `json:"totalDepreciation"`

	PurchaseCosts PurchaseCosts `json:"purchaseCosts"`
}

// LoanTermReduction is how much earlier the loan is repaid than its contractual term
type LoanTermReduction struct {
	Years  int `json:"years"`
	Months int `json:"months"`
}

// HasBreakEven reports whether the net position ever reached zero
func (cr *CalculationResults) HasBreakEven() bool {
	return cr.BreakEvenYear != NoBreakEven
}

// ProjectionForYear returns the row for a year, or nil when it is outside the projection
func (cr *CalculationResults) ProjectionForYear(year int) *YearlyProjection {
	if year < 0 || year >= len(cr.YearlyProjections) {
		return nil
	}
	return &cr.YearlyProjections[year]
}

// FinalYear returns the last simulated row
func (cr *CalculationResults) FinalYear() *YearlyProjection {
	if len(cr.YearlyProjections) == 0 {
		return nil
	}
	return &cr.YearlyProjections[len(cr.YearlyProjections)-1]
}
