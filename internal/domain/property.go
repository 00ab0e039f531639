package domain

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// State identifies an Australian state or territory rule set
type State string

const (
	StateNSW State = "NSW"
	StateVIC State = "VIC"
	StateQLD State = "QLD"
	StateWA  State = "WA"
	StateSA  State = "SA"
	StateTAS State = "TAS"
	StateACT State = "ACT"
	StateNT  State = "NT"
)

// AllStates returns every supported jurisdiction in a stable order
func AllStates() []State {
	return []State{StateNSW, StateVIC, StateQLD, StateWA, StateSA, StateTAS, StateACT, StateNT}
}

// IsKnown reports whether the state has a dedicated rule set
func (s State) IsKnown() bool {
	for _, known := range AllStates() {
		if s == known {
			return true
		}
	}
	return false
}

// LoanType selects the repayment structure
type LoanType string

const (
	LoanPrincipalAndInterest LoanType = "principal_and_interest"
	LoanInterestOnly         LoanType = "interest_only"
)

// FeeType selects how the management fee is expressed
type FeeType string

const (
	FeePercentage FeeType = "percentage"
	FeeFixed      FeeType = "fixed"
)

// DepreciationMode selects the depreciation source
type DepreciationMode string

const (
	DepreciationFixed    DepreciationMode = "fixed"
	DepreciationManual   DepreciationMode = "manual"
	DepreciationUploaded DepreciationMode = "uploaded"
)

// Frequency is the cadence of a recurring contribution
type Frequency string

const (
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// LMIMode selects automatic or manual lender's mortgage insurance
type LMIMode string

const (
	LMIAuto   LMIMode = "auto"
	LMIManual LMIMode = "manual"
)

// LandTaxMode selects how annual land tax is determined
type LandTaxMode string

const (
	LandTaxAuto   LandTaxMode = "auto"
	LandTaxManual LandTaxMode = "manual"
	LandTaxNone   LandTaxMode = "none"
)

// CGTAbsenceYears is the main-residence absence window during which a former home stays exempt
const CGTAbsenceYears = 6

var (
	hundred    = decimal.NewFromInt(100)
	weeksInYr  = decimal.NewFromInt(52)
	monthsInYr = decimal.NewFromInt(12)
)

// RateChange sets a new annual interest rate (percent) from the start of Year onward
type RateChange struct {
	Year int             `yaml:"year" json:"year"`
	Rate decimal.Decimal `yaml:"rate" json:"rate"`
}

// DepreciationEntry is one row of a manual or uploaded depreciation schedule
type DepreciationEntry struct {
	Year           int             `yaml:"year" json:"year"`
	CapitalWorks   decimal.Decimal `yaml:"capital_works" json:"capitalWorks"`
	PlantEquipment decimal.Decimal `yaml:"plant_equipment" json:"plantEquipment"`
}

// PrecisionInputs are optional eligibility answers that can block a home buyer grant
type PrecisionInputs struct {
	IsCitizenOrPermanentResident bool `yaml:"is_citizen_or_permanent_resident" json:"isCitizenOrPermanentResident"`
	WillOccupyWithin12Months     bool `yaml:"will_occupy_within_12_months" json:"willOccupyWithin12Months"`
	HasPreviouslyOwnedProperty   bool `yaml:"has_previously_owned_property" json:"hasPreviouslyOwnedProperty"`
	ApplicantAge                 int  `yaml:"applicant_age" json:"applicantAge"`
}

// PropertyDetails holds the user-specified property, loan and tax assumptions.
// Rates are percentages (6.0 means 6%).
type PropertyDetails struct {
	State            State           `yaml:"state" json:"state"`
	PurchasePrice    decimal.Decimal `yaml:"purchase_price" json:"purchasePrice"`
	DepositAmount    decimal.Decimal `yaml:"deposit_amount" json:"depositAmount"`
	AvailableSavings decimal.Decimal `yaml:"available_savings" json:"availableSavings"`

	InterestRate        decimal.Decimal `yaml:"interest_rate" json:"interestRate"`
	InterestRateChanges []RateChange    `yaml:"interest_rate_changes,omitempty" json:"interestRateChanges,omitempty"`
	LoanTerm            int             `yaml:"loan_term" json:"loanTerm"`
	LoanType            LoanType        `yaml:"loan_type" json:"loanType"`

	LMIMode         LMIMode          `yaml:"lmi_mode" json:"lmiMode"`
	LMIManualAmount *decimal.Decimal `yaml:"lmi_manual_amount,omitempty" json:"lmiManualAmount,omitempty"`
	LMIWaived       bool             `yaml:"lmi_waived" json:"lmiWaived"`

	// WeeklyRent is rent received for an investment, or rent avoided for a PPOR
	WeeklyRent        decimal.Decimal `yaml:"weekly_rent" json:"weeklyRent"`
	ManagementFeeType FeeType         `yaml:"management_fee_type" json:"managementFeeType"`
	ManagementFee     decimal.Decimal `yaml:"management_fee" json:"managementFee"`

	DepreciationMode           DepreciationMode    `yaml:"depreciation_mode" json:"depreciationMode"`
	CapitalWorksDepreciation   decimal.Decimal     `yaml:"capital_works_depreciation" json:"capitalWorksDepreciation"`
	PlantEquipmentDepreciation decimal.Decimal     `yaml:"plant_equipment_depreciation" json:"plantEquipmentDepreciation"`
	DepreciationSchedule       []DepreciationEntry `yaml:"depreciation_schedule,omitempty" json:"depreciationSchedule,omitempty"`

	TaxableIncome         decimal.Decimal `yaml:"taxable_income" json:"taxableIncome"`
	IsPPOR                bool            `yaml:"is_ppor" json:"isPPOR"`
	IsCGTExempt           bool            `yaml:"is_cgt_exempt" json:"isCGTExempt"`
	UseCustomCGTDiscount  bool            `yaml:"use_custom_cgt_discount" json:"useCustomCGTDiscount"`
	CustomCGTDiscountRate decimal.Decimal `yaml:"custom_cgt_discount_rate" json:"customCGTDiscountRate"`

	NoNegativeGearing        bool `yaml:"no_negative_gearing" json:"noNegativeGearing"`
	NegativeGearingStartYear int  `yaml:"negative_gearing_start_year" json:"negativeGearingStartYear"`

	LandValue           decimal.Decimal  `yaml:"land_value" json:"landValue"`
	OtherLandHoldings   decimal.Decimal  `yaml:"other_land_holdings" json:"otherLandHoldings"`
	LandTaxMode         LandTaxMode      `yaml:"land_tax_mode" json:"landTaxMode"`
	ManualLandTax       decimal.Decimal  `yaml:"manual_land_tax" json:"manualLandTax"`
	LandValueGrowthRate *decimal.Decimal `yaml:"land_value_growth_rate,omitempty" json:"landValueGrowthRate,omitempty"`

	IsFirstHomeBuyer bool             `yaml:"is_first_home_buyer" json:"isFirstHomeBuyer"`
	IsNewHome        bool             `yaml:"is_new_home" json:"isNewHome"`
	Precision        *PrecisionInputs `yaml:"precision,omitempty" json:"precision,omitempty"`

	OffsetContribution          decimal.Decimal  `yaml:"offset_contribution" json:"offsetContribution"`
	OffsetContributionFrequency Frequency        `yaml:"offset_contribution_frequency" json:"offsetContributionFrequency"`
	ManualOffsetAmount          *decimal.Decimal `yaml:"manual_offset_amount,omitempty" json:"manualOffsetAmount,omitempty"`

	// Existing home modelled alongside the subject property
	ConsiderPPORTax      bool            `yaml:"consider_ppor_tax" json:"considerPPORTax"`
	ExistingPPORValue    decimal.Decimal `yaml:"existing_ppor_value" json:"existingPPORValue"`
	ExistingPPORCostBase decimal.Decimal `yaml:"existing_ppor_cost_base" json:"existingPPORCostBase"`
}

// LoanAmount returns purchase price less deposit, floored at zero
func (pd *PropertyDetails) LoanAmount() decimal.Decimal {
	return decimal.Max(decimal.Zero, pd.PurchasePrice.Sub(pd.DepositAmount))
}

// AnnualRent returns the weekly rent figure annualised
func (pd *PropertyDetails) AnnualRent() decimal.Decimal {
	return pd.WeeklyRent.Mul(weeksInYr)
}

// EffectiveLoanType defaults an empty loan type to principal and interest
func (pd *PropertyDetails) EffectiveLoanType() LoanType {
	if pd.LoanType == LoanInterestOnly {
		return LoanInterestOnly
	}
	return LoanPrincipalAndInterest
}

// MonthlyOffsetContribution converts the contribution to a monthly equivalent
func (pd *PropertyDetails) MonthlyOffsetContribution() decimal.Decimal {
	switch pd.OffsetContributionFrequency {
	case FrequencyWeekly:
		return pd.OffsetContribution.Mul(weeksInYr).Div(monthsInYr)
	case FrequencyYearly:
		return pd.OffsetContribution.Div(monthsInYr)
	default:
		return pd.OffsetContribution
	}
}

// InitialOffset resolves the opening offset balance; a manual override wins
func (pd *PropertyDetails) InitialOffset(offsetAmount decimal.Decimal) decimal.Decimal {
	if pd.ManualOffsetAmount != nil {
		return *pd.ManualOffsetAmount
	}
	return offsetAmount
}

// CGTDiscount returns the discount applied to a capital gain as a fraction
func (pd *PropertyDetails) CGTDiscount() decimal.Decimal {
	if pd.UseCustomCGTDiscount {
		return pd.CustomCGTDiscountRate.Div(hundred)
	}
	return decimal.NewFromFloat(0.5)
}

// QuarantineStartYear is the first year losses are quarantined (0 when disabled)
func (pd *PropertyDetails) QuarantineStartYear() int {
	if !pd.NoNegativeGearing {
		return 0
	}
	if pd.NegativeGearingStartYear < 1 {
		return 1
	}
	return pd.NegativeGearingStartYear
}

// IsCGTExemptInYear applies the PPOR exemption and the six-year absence rule
func (pd *PropertyDetails) IsCGTExemptInYear(year int) bool {
	if pd.IsPPOR {
		return true
	}
	return pd.IsCGTExempt && year <= CGTAbsenceYears
}

// RateSchedule returns rate changes sorted by year
func (pd *PropertyDetails) RateSchedule() []RateChange {
	changes := append([]RateChange(nil), pd.InterestRateChanges...)
	sort.SliceStable(changes, func(i, j int) bool { return changes[i].Year < changes[j].Year })
	return changes
}

// RateForYear returns the annual rate in force during the given loan year
func (pd *PropertyDetails) RateForYear(year int) decimal.Decimal {
	rate := pd.InterestRate
	for _, change := range pd.RateSchedule() {
		if change.Year > year {
			break
		}
		rate = change.Rate
	}
	return rate
}

// DepreciationForYear returns the capital works and plant and equipment claims for a year
func (pd *PropertyDetails) DepreciationForYear(year int) (capitalWorks, plant decimal.Decimal) {
	if pd.IsPPOR {
		return decimal.Zero, decimal.Zero
	}
	switch pd.DepreciationMode {
	case DepreciationManual, DepreciationUploaded:
		for _, entry := range pd.DepreciationSchedule {
			if entry.Year == year {
				return entry.CapitalWorks, entry.PlantEquipment
			}
		}
		return decimal.Zero, decimal.Zero
	default:
		return pd.CapitalWorksDepreciation, pd.PlantEquipmentDepreciation
	}
}

// Validate checks the invariants the projection relies on
func (pd *PropertyDetails) Validate() error {
	if pd.PurchasePrice.IsNegative() {
		return NewValidationError("purchase_price", 0, "cannot be negative")
	}
	if pd.DepositAmount.IsNegative() {
		return NewValidationError("deposit_amount", 0, "cannot be negative")
	}
	if pd.DepositAmount.GreaterThan(pd.PurchasePrice) {
		return NewValidationError("deposit_amount", 0,
			fmt.Sprintf("deposit %s exceeds purchase price %s", pd.DepositAmount.StringFixed(2), pd.PurchasePrice.StringFixed(2)))
	}
	if pd.WeeklyRent.IsNegative() {
		return NewValidationError("weekly_rent", 0, "cannot be negative")
	}
	if pd.OffsetContribution.IsNegative() {
		return NewValidationError("offset_contribution", 0, "cannot be negative")
	}
	if pd.ManualOffsetAmount != nil && pd.ManualOffsetAmount.IsNegative() {
		return NewValidationError("manual_offset_amount", 0, "cannot be negative")
	}
	if pd.UseCustomCGTDiscount && (pd.CustomCGTDiscountRate.IsNegative() || pd.CustomCGTDiscountRate.GreaterThan(hundred)) {
		return NewValidationError("custom_cgt_discount_rate", 0, "must be between 0 and 100")
	}

	for _, change := range pd.InterestRateChanges {
		if change.Year < 1 || change.Year > pd.LoanTerm {
			return NewValidationError("interest_rate_changes", change.Year,
				fmt.Sprintf("year %d is outside the loan term 1-%d", change.Year, pd.LoanTerm))
		}
	}

	seen := make(map[int]bool, len(pd.DepreciationSchedule))
	for _, entry := range pd.DepreciationSchedule {
		if entry.Year < 1 || entry.Year > pd.LoanTerm {
			return NewValidationError("depreciation_schedule", entry.Year,
				fmt.Sprintf("year %d is outside the loan term 1-%d", entry.Year, pd.LoanTerm))
		}
		if seen[entry.Year] {
			return NewValidationError("depreciation_schedule", entry.Year, "duplicate year")
		}
		seen[entry.Year] = true
	}

	if pd.NoNegativeGearing && pd.NegativeGearingStartYear > pd.LoanTerm && pd.LoanTerm > 0 {
		return NewValidationError("negative_gearing_start_year", pd.NegativeGearingStartYear,
			fmt.Sprintf("start year %d is outside the loan term 1-%d", pd.NegativeGearingStartYear, pd.LoanTerm))
	}

	return nil
}

// ValueCorrection applies a one-off percentage change to the property value in Year
type ValueCorrection struct {
	Year    int             `yaml:"year" json:"year"`
	Percent decimal.Decimal `yaml:"percent" json:"percent"`
}

// MarketData holds the annual growth assumptions, all in percent
type MarketData struct {
	PropertyGrowthRate          decimal.Decimal   `yaml:"property_growth_rate" json:"propertyGrowthRate"`
	RentIncreaseRate            decimal.Decimal   `yaml:"rent_increase_rate" json:"rentIncreaseRate"`
	OperatingExpensesGrowthRate decimal.Decimal   `yaml:"operating_expenses_growth_rate" json:"operatingExpensesGrowthRate"`
	OpportunityCostRate         decimal.Decimal   `yaml:"opportunity_cost_rate" json:"opportunityCostRate"`
	PropertyValueCorrections    []ValueCorrection `yaml:"property_value_corrections,omitempty" json:"propertyValueCorrections,omitempty"`

	// Valuation anchor recalibrating the growth curve to a known value
	CurrentValueYear     *int             `yaml:"current_value_year,omitempty" json:"currentValueYear,omitempty"`
	CurrentPropertyValue *decimal.Decimal `yaml:"current_property_value,omitempty" json:"currentPropertyValue,omitempty"`
}

// HasValuationAnchor reports whether both anchor fields are set
func (md *MarketData) HasValuationAnchor() bool {
	return md.CurrentValueYear != nil && md.CurrentPropertyValue != nil
}

// CorrectionForYear returns the summed correction percent for a year
func (md *MarketData) CorrectionForYear(year int) decimal.Decimal {
	total := decimal.Zero
	for _, c := range md.PropertyValueCorrections {
		if c.Year == year {
			total = total.Add(c.Percent)
		}
	}
	return total
}

// Validate checks schedule years against the loan term
func (md *MarketData) Validate(loanTerm int) error {
	for _, c := range md.PropertyValueCorrections {
		if c.Year < 1 || c.Year > loanTerm {
			return NewValidationError("property_value_corrections", c.Year,
				fmt.Sprintf("year %d is outside the loan term 1-%d", c.Year, loanTerm))
		}
		if c.Percent.LessThanOrEqual(hundred.Neg()) {
			return NewValidationError("property_value_corrections", c.Year, "correction cannot wipe out the property value")
		}
	}
	if md.CurrentValueYear != nil || md.CurrentPropertyValue != nil {
		if !md.HasValuationAnchor() {
			return NewValidationError("current_value_year", 0, "current value year and current property value must be set together")
		}
		if *md.CurrentValueYear < 1 || *md.CurrentValueYear > loanTerm {
			return NewValidationError("current_value_year", *md.CurrentValueYear,
				fmt.Sprintf("year %d is outside the loan term 1-%d", *md.CurrentValueYear, loanTerm))
		}
		if !md.CurrentPropertyValue.IsPositive() {
			return NewValidationError("current_property_value", *md.CurrentValueYear, "must be positive")
		}
	}
	return nil
}

// CostStructure holds recurring and one-off cost assumptions
type CostStructure struct {
	WaterCost             decimal.Decimal `yaml:"water_cost" json:"waterCost"`
	RatesCost             decimal.Decimal `yaml:"rates_cost" json:"ratesCost"`
	InsuranceCost         decimal.Decimal `yaml:"insurance_cost" json:"insuranceCost"`
	MaintenancePercentage decimal.Decimal `yaml:"maintenance_percentage" json:"maintenancePercentage"`

	// AnnualPropertyCosts is computed; when set without components it is used as an all-in figure
	AnnualPropertyCosts       decimal.Decimal `yaml:"annual_property_costs" json:"annualPropertyCosts"`
	FutureSellCostsPercentage decimal.Decimal `yaml:"future_sell_costs_percentage" json:"futureSellCostsPercentage"`
	PurchaseCosts             PurchaseCosts   `yaml:"purchase_costs" json:"purchaseCosts"`
}

// OperatingCostBase returns the year-one recurring costs excluding land tax. The second
// result is true when the figure is the all-in AnnualPropertyCosts, which already covers land tax.
func (cs *CostStructure) OperatingCostBase(purchasePrice decimal.Decimal) (decimal.Decimal, bool) {
	components := cs.WaterCost.Add(cs.RatesCost).Add(cs.InsuranceCost).
		Add(purchasePrice.Mul(cs.MaintenancePercentage).Div(hundred))
	if components.IsZero() && !cs.AnnualPropertyCosts.IsZero() {
		return cs.AnnualPropertyCosts, true
	}
	return components, false
}

// SaleCosts returns selling costs at the given property value
func (cs *CostStructure) SaleCosts(propertyValue decimal.Decimal) decimal.Decimal {
	return propertyValue.Mul(cs.FutureSellCostsPercentage).Div(hundred)
}

// PurchaseCosts is the line-item breakdown of upfront costs
type PurchaseCosts struct {
	ConveyancingFee            decimal.Decimal `yaml:"conveyancing_fee" json:"conveyancingFee"`
	BuildingAndPestFee         decimal.Decimal `yaml:"building_and_pest_fee" json:"buildingAndPestFee"`
	TransferFee                decimal.Decimal `yaml:"transfer_fee" json:"transferFee"`
	StampDutyBeforeConcessions decimal.Decimal `yaml:"stamp_duty_before_concessions" json:"stampDutyBeforeConcessions"`
	StampDuty                  decimal.Decimal `yaml:"stamp_duty" json:"stampDuty"`
	LMI                        decimal.Decimal `yaml:"lmi" json:"lmi"`
	MortgageRegistrationFee    decimal.Decimal `yaml:"mortgage_registration_fee" json:"mortgageRegistrationFee"`
	HomeBuyerGrant             decimal.Decimal `yaml:"home_buyer_grant" json:"homeBuyerGrant"`
	GrantProgram               string          `yaml:"grant_program,omitempty" json:"grantProgram,omitempty"` // empty when no program applies
	StampDutyConcession        decimal.Decimal `yaml:"stamp_duty_concession" json:"stampDutyConcession"`
	NetBenefit                 decimal.Decimal `yaml:"net_benefit" json:"netBenefit"`
	Total                      decimal.Decimal `yaml:"total" json:"total"`
	State                      State           `yaml:"state" json:"state"`
}

// LineItemTotal sums the cost line items before the grant is deducted
func (pc *PurchaseCosts) LineItemTotal() decimal.Decimal {
	return pc.ConveyancingFee.Add(pc.BuildingAndPestFee).Add(pc.TransferFee).
		Add(pc.StampDuty).Add(pc.LMI).Add(pc.MortgageRegistrationFee)
}
