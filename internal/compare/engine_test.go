package compare

import (
	"context"
	"testing"

	"github.com/rgehrsitz/propgo/internal/calculation"
	"github.com/rgehrsitz/propgo/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func testScenario(name string) domain.Scenario {
	return domain.Scenario{
		Name:         name,
		OffsetAmount: d(50000),
		Property: domain.PropertyDetails{
			State:             domain.StateNSW,
			PurchasePrice:     d(750000),
			DepositAmount:     d(75000),
			InterestRate:      d(6),
			LoanTerm:          30,
			LoanType:          domain.LoanPrincipalAndInterest,
			WeeklyRent:        d(750),
			ManagementFeeType: domain.FeePercentage,
			ManagementFee:     d(7),
			TaxableIncome:     d(100000),
			LandTaxMode:       domain.LandTaxNone,
		},
		Market: domain.MarketData{
			PropertyGrowthRate:          d(3),
			RentIncreaseRate:            d(3),
			OperatingExpensesGrowthRate: d(3),
			OpportunityCostRate:         d(5),
		},
		Costs: domain.CostStructure{
			WaterCost:                 d(1000),
			RatesCost:                 d(2000),
			InsuranceCost:             d(1500),
			MaintenancePercentage:     d(1),
			FutureSellCostsPercentage: decimal.NewFromFloat(2.5),
		},
	}
}

func testConfig() *domain.Configuration {
	cheaper := testScenario("Cheaper")
	cheaper.Property.PurchasePrice = d(650000)
	cheaper.Property.DepositAmount = d(65000)
	cheaper.Property.WeeklyRent = d(680)
	return &domain.Configuration{Scenarios: []domain.Scenario{testScenario("Base"), cheaper}}
}

func TestNewCompareEngine(t *testing.T) {
	ce := NewCompareEngine(calculation.NewCalculationEngine())

	require.NotNil(t, ce.MetricsCalculator)
	require.NotNil(t, ce.TemplateRegistry)
	_, ok := ce.TemplateRegistry.Get("double_offset")
	assert.True(t, ok, "built-in templates are registered")
}

func TestCompare_WithTemplates(t *testing.T) {
	ce := NewCompareEngine(calculation.NewCalculationEngine())

	compSet, err := ce.Compare(context.Background(), testConfig(), CompareOptions{
		BaseScenarioName: "Base",
		Templates:        []string{"no_offset", "double_offset", "rate_rise_2pct"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Base", compSet.BaseScenarioName)
	require.NotNil(t, compSet.BaseResult)
	require.Len(t, compSet.AlternativeResults, 3)

	noOffset := compSet.AlternativeResults[0]
	doubled := compSet.AlternativeResults[1]
	rateRise := compSet.AlternativeResults[2]

	assert.Equal(t, "Base_no_offset", noOffset.ScenarioName)
	assert.Equal(t, "No money held in the offset account", noOffset.Description)
	assert.True(t, noOffset.TotalInterestSaved.IsZero())
	assert.True(t, noOffset.InterestDiffFromBase.IsPositive(), "no offset means more interest")

	assert.True(t, doubled.TotalInterestSaved.GreaterThan(compSet.BaseResult.TotalInterestSaved))
	assert.Greater(t, doubled.LoanTermReduction, compSet.BaseResult.LoanTermReduction)

	assert.True(t, rateRise.MonthlyPayment.GreaterThan(compSet.BaseResult.MonthlyPayment))
	assert.True(t, rateRise.NetPositionDiffFromBase.IsNegative())

	// the base projection itself is unchanged by the alternatives
	summaries := compSet.Summaries()
	require.Len(t, summaries, 4)
	assert.Equal(t, "Base", summaries[0].Name)
}

func TestCompare_DefaultsToFirstScenario(t *testing.T) {
	ce := NewCompareEngine(calculation.NewCalculationEngine())

	compSet, err := ce.Compare(context.Background(), testConfig(), CompareOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Base", compSet.BaseScenarioName)
	assert.Empty(t, compSet.AlternativeResults)
	assert.Empty(t, compSet.Recommendations)
}

func TestCompare_Errors(t *testing.T) {
	ce := NewCompareEngine(calculation.NewCalculationEngine())

	_, err := ce.Compare(context.Background(), testConfig(), CompareOptions{BaseScenarioName: "Missing"})
	assert.ErrorContains(t, err, "base scenario Missing not found")

	_, err = ce.Compare(context.Background(), testConfig(), CompareOptions{
		BaseScenarioName: "Base",
		Templates:        []string{"no_such_template"},
	})
	assert.ErrorContains(t, err, "template no_such_template not found")

	_, err = ce.Compare(context.Background(), &domain.Configuration{}, CompareOptions{})
	assert.ErrorContains(t, err, "no scenarios")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ce.Compare(ctx, testConfig(), CompareOptions{BaseScenarioName: "Base"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCompareScenarios(t *testing.T) {
	ce := NewCompareEngine(calculation.NewCalculationEngine())

	compSet, err := ce.CompareScenarios(context.Background(), testConfig(), "Base", []string{"Cheaper"})
	require.NoError(t, err)
	require.Len(t, compSet.AlternativeResults, 1)

	cheaper := compSet.AlternativeResults[0]
	assert.Equal(t, "Cheaper", cheaper.ScenarioName)
	assert.True(t, cheaper.MonthlyPayment.LessThan(compSet.BaseResult.MonthlyPayment))
	assert.True(t, cheaper.InterestDiffFromBase.IsNegative())
	assert.True(t, cheaper.NetPositionDiffFromBase.Equal(
		cheaper.NetPositionAtEnd.Sub(compSet.BaseResult.NetPositionAtEnd)))

	_, err = ce.CompareScenarios(context.Background(), testConfig(), "Base", []string{"Nope"})
	assert.ErrorContains(t, err, "alternative scenario Nope not found")

	_, err = ce.CompareScenarios(context.Background(), testConfig(), "", []string{"Base"})
	assert.ErrorContains(t, err, "alternative scenario Base is the base scenario")
}
