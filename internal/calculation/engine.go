package calculation

import (
	"context"
	"fmt"
	"time"

	"github.com/rgehrsitz/propgo/internal/domain"
	"github.com/shopspring/decimal"
)

// CalculationEngine orchestrates the projection: purchase costs feed the yearly fold,
// whose rows are then enriched by the offset, existing-home and comparative layers.
type CalculationEngine struct {
	TaxCalc  *TaxCalculator
	Purchase *PurchaseCostCalculator
	Logger   Logger
}

// EngineOption configures a CalculationEngine
type EngineOption func(*CalculationEngine)

// WithTaxCalculator replaces the default resident tax schedule
func WithTaxCalculator(tc *TaxCalculator) EngineOption {
	return func(ce *CalculationEngine) {
		if tc != nil {
			ce.TaxCalc = tc
		}
	}
}

// WithClock pins the date used for time-bounded grant rules
func WithClock(now func() time.Time) EngineOption {
	return func(ce *CalculationEngine) {
		if now != nil {
			ce.Purchase = &PurchaseCostCalculator{Now: now}
		}
	}
}

// NewCalculationEngine creates a new calculation engine
func NewCalculationEngine(opts ...EngineOption) *CalculationEngine {
	ce := &CalculationEngine{
		TaxCalc:  NewDefaultTaxCalculator(),
		Purchase: NewPurchaseCostCalculator(),
		Logger:   NopLogger{},
	}
	for _, opt := range opts {
		opt(ce)
	}
	return ce
}

// SetLogger sets the logger; nil restores the no-op logger
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = l
}

func (ce *CalculationEngine) logger() Logger {
	if ce.Logger == nil {
		return NopLogger{}
	}
	return ce.Logger
}

// CalculatePurchaseCosts returns the upfront cost breakdown for the property
func (ce *CalculationEngine) CalculatePurchaseCosts(details *domain.PropertyDetails, conveyancingFee, buildingAndPestFee decimal.Decimal, state domain.State) domain.PurchaseCosts {
	return ce.Purchase.CalculatePurchaseCosts(details, conveyancingFee, buildingAndPestFee, state)
}

// ResolveCosts returns the scenario's cost structure, deriving purchase costs from the
// property when the scenario asks for it
func (ce *CalculationEngine) ResolveCosts(scenario *domain.Scenario) domain.CostStructure {
	costs := scenario.Costs
	if scenario.AutoPurchaseCosts {
		costs.PurchaseCosts = ce.CalculatePurchaseCosts(&scenario.Property,
			scenario.ConveyancingFee, scenario.BuildingAndPestFee, scenario.Property.State)
	}
	return costs
}

// RunScenario projects a single configured scenario
func (ce *CalculationEngine) RunScenario(ctx context.Context, scenario *domain.Scenario) (*domain.ScenarioSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if scenario == nil {
		return nil, fmt.Errorf("scenario is required")
	}

	costs := ce.ResolveCosts(scenario)
	results, err := ce.CalculateProjections(&scenario.Property, &scenario.Market, &costs, scenario.OffsetAmount)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
	}
	return &domain.ScenarioSummary{Name: scenario.Name, Results: results}, nil
}

// RunScenarios projects every scenario in the configuration, in order
func (ce *CalculationEngine) RunScenarios(ctx context.Context, config *domain.Configuration) ([]domain.ScenarioSummary, error) {
	summaries := make([]domain.ScenarioSummary, 0, len(config.Scenarios))
	for i := range config.Scenarios {
		summary, err := ce.RunScenario(ctx, &config.Scenarios[i])
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *summary)
	}
	return summaries, nil
}

// CalculateProjections runs the full projection for one set of assumptions.
// It never mutates its inputs; identical inputs produce identical results.
func (ce *CalculationEngine) CalculateProjections(details *domain.PropertyDetails, market *domain.MarketData, costs *domain.CostStructure, offsetAmount decimal.Decimal) (*domain.CalculationResults, error) {
	log := ce.logger()
	if details == nil || market == nil || costs == nil {
		return nil, fmt.Errorf("property details, market data and cost structure are required")
	}
	if err := details.Validate(); err != nil {
		log.Warnf("rejected property details: %v", err)
		return nil, fmt.Errorf("invalid property details: %w", err)
	}
	if err := market.Validate(details.LoanTerm); err != nil {
		log.Warnf("rejected market data: %v", err)
		return nil, fmt.Errorf("invalid market data: %w", err)
	}
	if offsetAmount.IsNegative() {
		return nil, fmt.Errorf("invalid offset amount: %w",
			domain.NewValidationError("offset_amount", 0, "cannot be negative"))
	}

	in := newProjectionInputs(details, market, costs, ce.TaxCalc, offsetAmount)
	rows, final := buildProjection(in, log)

	rows, totalSaved := applyOffsetLayer(rows)
	rows = applyExistingPPORLayer(rows, details, market)
	rows = applyComparativeLayer(rows, in)

	results := &domain.CalculationResults{
		YearlyProjections:      rows,
		MonthlyMortgagePayment: in.initialPayment,
		Principal:              in.loanAmount,
		OffsetAmount:           in.initialOffset,
		TotalInterestSaved:     totalSaved,
		PayoffMonth:            final.real.payoffMonth,
		LoanTermReduction:      loanTermReduction(in.termMonths, final.real.payoffMonth),
		InitialInvestment:      in.initialInvestment,
		BreakEvenYear:          findBreakEvenYear(rows),
		PurchaseCosts:          costs.PurchaseCosts,
	}
	if final.real.payoffMonth > 0 && final.real.payoffMonth < in.termMonths {
		log.Debugf("loan repaid in month %d of %d", final.real.payoffMonth, in.termMonths)
	}
	if results.HasBreakEven() {
		log.Infof("net position breaks even in year %d", results.BreakEvenYear)
	}

	summarise(results)
	return results, nil
}

// summarise fills the headline scalars from the enriched rows
func summarise(results *domain.CalculationResults) {
	last := results.FinalYear()
	results.FinalPropertyValue = last.PropertyValue
	results.FinalCGTPayable = last.CGTPayable
	results.CumulativeCashFlow = last.CumulativeCashFlow
	results.TotalQuarantinedLosses = last.QuarantinedLosses
	results.NetPositionAtEnd = last.NetPosition
	results.TotalDepreciation = last.CumulativeDepreciation

	sumROI := decimal.Zero
	sumInitialROI := decimal.Zero
	years := 0
	for _, row := range results.YearlyProjections {
		if row.Year < 1 {
			continue
		}
		sumROI = sumROI.Add(row.ROI)
		sumInitialROI = sumInitialROI.Add(row.ROIOnInitialInvestment)
		years++
	}
	if years > 0 {
		n := decimal.NewFromInt(int64(years))
		results.AverageROI = sumROI.Div(n)
		results.AverageROIOnInitialInvestment = sumInitialROI.Div(n)
	}
}
