package compare

import (
	"fmt"

	"github.com/rgehrsitz/propgo/internal/domain"
	"github.com/shopspring/decimal"
)

// ComparisonResult represents a single scenario comparison with calculated metrics
type ComparisonResult struct {
	ScenarioName string                  `json:"scenarioName"`
	Description  string                  `json:"description"`
	Summary      *domain.ScenarioSummary `json:"-"`

	// Key Metrics
	NetPositionAtEnd   decimal.Decimal `json:"netPositionAtEnd"`
	BreakEvenYear      int             `json:"breakEvenYear"` // -1 when never
	FirstYearCashFlow  decimal.Decimal `json:"firstYearCashFlow"`
	CumulativeCashFlow decimal.Decimal `json:"cumulativeCashFlow"`
	TotalInterestPaid  decimal.Decimal `json:"totalInterestPaid"`
	TotalInterestSaved decimal.Decimal `json:"totalInterestSaved"`
	LoanTermReduction  int             `json:"loanTermReductionMonths"`
	FinalPropertyValue decimal.Decimal `json:"finalPropertyValue"`
	FinalCGTPayable    decimal.Decimal `json:"finalCGTPayable"`
	AverageROI         decimal.Decimal `json:"averageROI"`
	MonthlyPayment     decimal.Decimal `json:"monthlyPayment"`
	PurchaseCosts      decimal.Decimal `json:"purchaseCosts"`

	// Comparison to Base
	NetPositionDiffFromBase decimal.Decimal `json:"netPositionDiffFromBase"`
	NetPositionPctFromBase  decimal.Decimal `json:"netPositionPctFromBase"`
	CashFlowDiffFromBase    decimal.Decimal `json:"cashFlowDiffFromBase"`
	InterestDiffFromBase    decimal.Decimal `json:"interestDiffFromBase"`
	BreakEvenDiff           int             `json:"breakEvenDiff"` // only set when both scenarios break even
}

// BreaksEven reports whether the scenario's net position ever turns non-negative
func (r *ComparisonResult) BreaksEven() bool {
	return r.BreakEvenYear != domain.NoBreakEven
}

// ComparisonSet represents a collection of scenario comparisons
type ComparisonSet struct {
	BaseScenarioName   string             `json:"baseScenarioName"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
	ConfigPath         string             `json:"configPath"`
}

// Summaries returns the underlying projections, base first
func (cs *ComparisonSet) Summaries() []domain.ScenarioSummary {
	summaries := make([]domain.ScenarioSummary, 0, len(cs.AlternativeResults)+1)
	if cs.BaseResult != nil && cs.BaseResult.Summary != nil {
		summaries = append(summaries, *cs.BaseResult.Summary)
	}
	for _, result := range cs.AlternativeResults {
		if result.Summary != nil {
			summaries = append(summaries, *result.Summary)
		}
	}
	return summaries
}

// MetricsCalculator extracts key metrics from scenario summaries
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics computes all comparison metrics for a scenario summary
func (mc *MetricsCalculator) CalculateMetrics(summary *domain.ScenarioSummary) ComparisonResult {
	result := ComparisonResult{
		ScenarioName:  summary.Name,
		Summary:       summary,
		BreakEvenYear: domain.NoBreakEven,
	}
	res := summary.Results
	if res == nil {
		return result
	}

	result.NetPositionAtEnd = res.NetPositionAtEnd
	result.BreakEvenYear = res.BreakEvenYear
	result.CumulativeCashFlow = res.CumulativeCashFlow
	result.TotalInterestSaved = res.TotalInterestSaved
	result.LoanTermReduction = res.LoanTermReduction.Years*12 + res.LoanTermReduction.Months
	result.FinalPropertyValue = res.FinalPropertyValue
	result.FinalCGTPayable = res.FinalCGTPayable
	result.AverageROI = res.AverageROI
	result.MonthlyPayment = res.MonthlyMortgagePayment
	result.PurchaseCosts = res.PurchaseCosts.Total

	if first := res.ProjectionForYear(1); first != nil {
		result.FirstYearCashFlow = first.CashFlow
	}
	if last := res.FinalYear(); last != nil {
		result.TotalInterestPaid = last.CumulativeInterestPaid
	}
	return result
}

// CalculateComparison computes comparison metrics between a scenario and a base
func (mc *MetricsCalculator) CalculateComparison(scenario, base ComparisonResult) ComparisonResult {
	scenario.NetPositionDiffFromBase = scenario.NetPositionAtEnd.Sub(base.NetPositionAtEnd)
	if !base.NetPositionAtEnd.IsZero() {
		scenario.NetPositionPctFromBase = scenario.NetPositionDiffFromBase.
			Div(base.NetPositionAtEnd.Abs()).
			Mul(decimal.NewFromInt(100))
	}

	scenario.CashFlowDiffFromBase = scenario.CumulativeCashFlow.Sub(base.CumulativeCashFlow)
	scenario.InterestDiffFromBase = scenario.TotalInterestPaid.Sub(base.TotalInterestPaid)

	scenario.BreakEvenDiff = 0
	if scenario.BreaksEven() && base.BreaksEven() {
		scenario.BreakEvenDiff = scenario.BreakEvenYear - base.BreakEvenYear
	}
	return scenario
}

// GenerateRecommendations creates recommendations based on comparison results
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if len(compSet.AlternativeResults) == 0 {
		return recommendations
	}
	base := compSet.BaseResult

	// Find best scenario by final net position
	best := base
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.NetPositionAtEnd.GreaterThan(best.NetPositionAtEnd) {
			best = alt
		}
	}
	if best != base {
		diff := best.NetPositionAtEnd.Sub(base.NetPositionAtEnd)
		recommendations = append(recommendations,
			"Best Net Position: "+best.ScenarioName+" finishes $"+diff.StringFixed(0)+
				" ahead of the base scenario")
	}

	// Earliest break-even
	earliest := base
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if !alt.BreaksEven() {
			continue
		}
		if !earliest.BreaksEven() || alt.BreakEvenYear < earliest.BreakEvenYear {
			earliest = alt
		}
	}
	if earliest != base {
		if base.BreaksEven() {
			recommendations = append(recommendations,
				fmt.Sprintf("Earliest Break-Even: %s breaks even in year %d, %d years sooner",
					earliest.ScenarioName, earliest.BreakEvenYear, base.BreakEvenYear-earliest.BreakEvenYear))
		} else {
			recommendations = append(recommendations,
				fmt.Sprintf("Earliest Break-Even: %s breaks even in year %d; the base scenario never does",
					earliest.ScenarioName, earliest.BreakEvenYear))
		}
	}

	// Least interest paid
	cheapest := base
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.TotalInterestPaid.LessThan(cheapest.TotalInterestPaid) {
			cheapest = alt
		}
	}
	if cheapest != base {
		savings := base.TotalInterestPaid.Sub(cheapest.TotalInterestPaid)
		recommendations = append(recommendations,
			"Lowest Interest: "+cheapest.ScenarioName+" pays $"+savings.StringFixed(0)+
				" less interest over the loan")
	}

	// Flag alternatives that cost more out of pocket each year
	for _, alt := range compSet.AlternativeResults {
		if alt.FirstYearCashFlow.LessThan(base.FirstYearCashFlow) && alt.NetPositionAtEnd.GreaterThan(base.NetPositionAtEnd) {
			extra := base.FirstYearCashFlow.Sub(alt.FirstYearCashFlow)
			recommendations = append(recommendations,
				"Cash Flow Trade-off: "+alt.ScenarioName+" needs $"+extra.StringFixed(0)+
					" more in year one to get its better outcome")
		}
	}

	return recommendations
}
