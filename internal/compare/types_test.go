package compare

import (
	"strings"
	"testing"

	"github.com/rgehrsitz/propgo/internal/domain"
	"github.com/shopspring/decimal"
)

func TestMetricsCalculator_CalculateMetrics(t *testing.T) {
	calc := NewMetricsCalculator()

	summary := &domain.ScenarioSummary{
		Name: "Test Scenario",
		Results: &domain.CalculationResults{
			YearlyProjections: []domain.YearlyProjection{
				{Year: 0},
				{Year: 1, CashFlow: decimal.NewFromInt(-12000), CumulativeInterestPaid: decimal.NewFromInt(30000)},
				{Year: 2, CashFlow: decimal.NewFromInt(-9000), CumulativeInterestPaid: decimal.NewFromInt(59000)},
			},
			MonthlyMortgagePayment: decimal.NewFromInt(3500),
			NetPositionAtEnd:       decimal.NewFromInt(42000),
			BreakEvenYear:          2,
			CumulativeCashFlow:     decimal.NewFromInt(-21000),
			TotalInterestSaved:     decimal.NewFromInt(4000),
			LoanTermReduction:      domain.LoanTermReduction{Years: 1, Months: 3},
			PurchaseCosts:          domain.PurchaseCosts{Total: decimal.NewFromInt(40000)},
		},
	}

	result := calc.CalculateMetrics(summary)

	if result.ScenarioName != "Test Scenario" {
		t.Errorf("Expected scenario name 'Test Scenario', got %s", result.ScenarioName)
	}

	if !result.NetPositionAtEnd.Equal(decimal.NewFromInt(42000)) {
		t.Errorf("Expected net position 42000, got %s", result.NetPositionAtEnd.String())
	}

	if result.BreakEvenYear != 2 {
		t.Errorf("Expected break-even year 2, got %d", result.BreakEvenYear)
	}

	if !result.FirstYearCashFlow.Equal(decimal.NewFromInt(-12000)) {
		t.Errorf("Expected first year cash flow -12000, got %s", result.FirstYearCashFlow.String())
	}

	// Interest paid comes from the final row's running total
	if !result.TotalInterestPaid.Equal(decimal.NewFromInt(59000)) {
		t.Errorf("Expected total interest 59000, got %s", result.TotalInterestPaid.String())
	}

	if result.LoanTermReduction != 15 {
		t.Errorf("Expected 15 months of term reduction, got %d", result.LoanTermReduction)
	}

	if !result.PurchaseCosts.Equal(decimal.NewFromInt(40000)) {
		t.Errorf("Expected purchase costs 40000, got %s", result.PurchaseCosts.String())
	}
}

func TestMetricsCalculator_CalculateMetrics_NoResults(t *testing.T) {
	result := NewMetricsCalculator().CalculateMetrics(&domain.ScenarioSummary{Name: "Empty"})

	if result.BreaksEven() {
		t.Error("Expected a summary without results to report no break-even")
	}
}

func TestMetricsCalculator_CalculateComparison(t *testing.T) {
	calc := NewMetricsCalculator()

	base := ComparisonResult{
		ScenarioName:       "Base",
		NetPositionAtEnd:   decimal.NewFromInt(200000),
		BreakEvenYear:      6,
		CumulativeCashFlow: decimal.NewFromInt(-80000),
		TotalInterestPaid:  decimal.NewFromInt(600000),
	}

	scenario := ComparisonResult{
		ScenarioName:       "Alternative",
		NetPositionAtEnd:   decimal.NewFromInt(250000),
		BreakEvenYear:      4,
		CumulativeCashFlow: decimal.NewFromInt(-60000),
		TotalInterestPaid:  decimal.NewFromInt(520000),
	}

	result := calc.CalculateComparison(scenario, base)

	if !result.NetPositionDiffFromBase.Equal(decimal.NewFromInt(50000)) {
		t.Errorf("Expected net position diff 50000, got %s", result.NetPositionDiffFromBase.String())
	}

	// 50000 / 200000 * 100 = 25%
	if !result.NetPositionPctFromBase.Equal(decimal.NewFromInt(25)) {
		t.Errorf("Expected 25%% improvement, got %s", result.NetPositionPctFromBase.String())
	}

	if !result.CashFlowDiffFromBase.Equal(decimal.NewFromInt(20000)) {
		t.Errorf("Expected cash flow diff 20000, got %s", result.CashFlowDiffFromBase.String())
	}

	if !result.InterestDiffFromBase.Equal(decimal.NewFromInt(-80000)) {
		t.Errorf("Expected interest diff -80000, got %s", result.InterestDiffFromBase.String())
	}

	if result.BreakEvenDiff != -2 {
		t.Errorf("Expected break-even diff -2, got %d", result.BreakEvenDiff)
	}
}

func TestMetricsCalculator_CalculateComparison_NegativeBase(t *testing.T) {
	calc := NewMetricsCalculator()

	base := ComparisonResult{NetPositionAtEnd: decimal.NewFromInt(-100000), BreakEvenYear: domain.NoBreakEven}
	scenario := ComparisonResult{NetPositionAtEnd: decimal.NewFromInt(-50000), BreakEvenYear: 8}

	result := calc.CalculateComparison(scenario, base)

	// An improvement on a negative base is still a positive percentage
	if !result.NetPositionPctFromBase.Equal(decimal.NewFromInt(50)) {
		t.Errorf("Expected +50%%, got %s", result.NetPositionPctFromBase.String())
	}

	if result.BreakEvenDiff != 0 {
		t.Errorf("Expected no break-even diff when the base never breaks even, got %d", result.BreakEvenDiff)
	}
}

func TestGenerateRecommendations(t *testing.T) {
	baseResult := &ComparisonResult{
		ScenarioName:      "Base",
		NetPositionAtEnd:  decimal.NewFromInt(200000),
		BreakEvenYear:     6,
		FirstYearCashFlow: decimal.NewFromInt(-15000),
		TotalInterestPaid: decimal.NewFromInt(600000),
	}

	alt1 := ComparisonResult{
		ScenarioName:      "Alternative 1",
		NetPositionAtEnd:  decimal.NewFromInt(260000),
		BreakEvenYear:     6,
		FirstYearCashFlow: decimal.NewFromInt(-20000),
		TotalInterestPaid: decimal.NewFromInt(610000),
	}

	alt2 := ComparisonResult{
		ScenarioName:      "Alternative 2",
		NetPositionAtEnd:  decimal.NewFromInt(210000),
		BreakEvenYear:     4,
		FirstYearCashFlow: decimal.NewFromInt(-15000),
		TotalInterestPaid: decimal.NewFromInt(500000),
	}

	compSet := &ComparisonSet{
		BaseScenarioName:   "Base",
		BaseResult:         baseResult,
		AlternativeResults: []ComparisonResult{alt1, alt2},
	}

	recommendations := GenerateRecommendations(compSet)

	if len(recommendations) != 4 {
		t.Fatalf("Expected 4 recommendations, got %d: %v", len(recommendations), recommendations)
	}

	if !contains(recommendations[0], "Best Net Position: Alternative 1") || !contains(recommendations[0], "$60000") {
		t.Errorf("Unexpected net position recommendation: %s", recommendations[0])
	}

	if !contains(recommendations[1], "Alternative 2 breaks even in year 4, 2 years sooner") {
		t.Errorf("Unexpected break-even recommendation: %s", recommendations[1])
	}

	if !contains(recommendations[2], "Lowest Interest: Alternative 2 pays $100000 less") {
		t.Errorf("Unexpected interest recommendation: %s", recommendations[2])
	}

	if !contains(recommendations[3], "Cash Flow Trade-off: Alternative 1 needs $5000") {
		t.Errorf("Unexpected trade-off recommendation: %s", recommendations[3])
	}
}

func TestGenerateRecommendations_BaseNeverBreaksEven(t *testing.T) {
	compSet := &ComparisonSet{
		BaseResult: &ComparisonResult{ScenarioName: "Base", BreakEvenYear: domain.NoBreakEven},
		AlternativeResults: []ComparisonResult{
			{ScenarioName: "Alt", BreakEvenYear: 9},
		},
	}

	recommendations := GenerateRecommendations(compSet)

	found := false
	for _, rec := range recommendations {
		if contains(rec, "the base scenario never does") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected a break-even recommendation, got %v", recommendations)
	}
}

func TestGenerateRecommendations_EmptyAlternatives(t *testing.T) {
	compSet := &ComparisonSet{
		BaseScenarioName:   "Base",
		BaseResult:         &ComparisonResult{ScenarioName: "Base"},
		AlternativeResults: []ComparisonResult{},
	}

	recommendations := GenerateRecommendations(compSet)

	if len(recommendations) != 0 {
		t.Errorf("Expected no recommendations with no alternatives, got %d", len(recommendations))
	}
}

func TestGenerateRecommendations_NoBetterThanBase(t *testing.T) {
	baseResult := &ComparisonResult{
		ScenarioName:      "Base",
		NetPositionAtEnd:  decimal.NewFromInt(300000),
		BreakEvenYear:     3,
		TotalInterestPaid: decimal.NewFromInt(500000),
	}

	worse := ComparisonResult{
		ScenarioName:      "Worse",
		NetPositionAtEnd:  decimal.NewFromInt(250000),
		BreakEvenYear:     5,
		TotalInterestPaid: decimal.NewFromInt(550000),
	}

	compSet := &ComparisonSet{
		BaseResult:         baseResult,
		AlternativeResults: []ComparisonResult{worse},
	}

	recommendations := GenerateRecommendations(compSet)

	if len(recommendations) > 0 {
		t.Logf("Recommendations: %v", recommendations)
		t.Error("Expected no recommendations when alternatives are worse than base")
	}
}

func TestComparisonSet_Summaries(t *testing.T) {
	compSet := &ComparisonSet{
		BaseResult: &ComparisonResult{
			ScenarioName: "Base",
			Summary:      &domain.ScenarioSummary{Name: "Base"},
		},
		AlternativeResults: []ComparisonResult{
			{ScenarioName: "Alt", Summary: &domain.ScenarioSummary{Name: "Alt"}},
			{ScenarioName: "NoSummary"},
		},
	}

	summaries := compSet.Summaries()

	if len(summaries) != 2 {
		t.Fatalf("Expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].Name != "Base" || summaries[1].Name != "Alt" {
		t.Errorf("Expected base first, got %s then %s", summaries[0].Name, summaries[1].Name)
	}

	if got := (&ComparisonSet{}).Summaries(); len(got) != 0 {
		t.Errorf("Expected no summaries for an empty set, got %d", len(got))
	}
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}
