package integration

import (
	"context"
	"testing"

	"github.com/rgehrsitz/propgo/internal/calculation"
	"github.com/rgehrsitz/propgo/internal/config"
	"github.com/rgehrsitz/propgo/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = "../testdata/scenarios.yaml"

func loadFixture(t *testing.T) (*domain.Configuration, []domain.ScenarioSummary) {
	t.Helper()
	cfg, err := config.NewInputParser().LoadFromFile(fixture)
	require.NoError(t, err)

	engine := calculation.NewCalculationEngine(calculation.WithTaxCalculator(config.TaxCalculator(cfg)))
	summaries, err := engine.RunScenarios(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, summaries, len(cfg.Scenarios))
	return cfg, summaries
}

func TestEndToEndCalculation(t *testing.T) {
	cfg, summaries := loadFixture(t)

	assert.Len(t, cfg.Scenarios, 2)
	assert.Equal(t, "Base", summaries[0].Name)
	assert.Equal(t, "Cheaper", summaries[1].Name)

	base := summaries[0].Results
	require.NotNil(t, base)
	assert.InDelta(t, 4046.97, base.MonthlyMortgagePayment.InexactFloat64(), 0.01)
	assert.Equal(t, 4, base.BreakEvenYear)
	assert.Equal(t, 309, base.PayoffMonth)
	assert.Equal(t, domain.LoanTermReduction{Years: 4, Months: 3}, base.LoanTermReduction)
	assert.InDelta(t, 182035.73, base.TotalInterestSaved.InexactFloat64(), 1)
	assert.InDelta(t, 621433.19, base.NetPositionAtEnd.InexactFloat64(), 1)

	first := base.ProjectionForYear(1)
	require.NotNil(t, first)
	assert.InDelta(t, -20094.39, first.CashFlow.InexactFloat64(), 0.5)

	cheaper := summaries[1].Results
	assert.InDelta(t, 3507.37, cheaper.MonthlyMortgagePayment.InexactFloat64(), 0.01)
	assert.InDelta(t, 615917.80, cheaper.NetPositionAtEnd.InexactFloat64(), 1)
}

func TestProjectionInvariants(t *testing.T) {
	_, summaries := loadFixture(t)

	for _, summary := range summaries {
		t.Run(summary.Name, func(t *testing.T) {
			res := summary.Results
			require.Len(t, res.YearlyProjections, 31, "purchase snapshot plus one row per loan year")
			assert.Equal(t, 0, res.YearlyProjections[0].Year)

			cumulative := decimal.Zero
			previous := res.YearlyProjections[0]
			for _, row := range res.YearlyProjections[1:] {
				assert.Equal(t, previous.Year+1, row.Year)
				assert.True(t, row.LoanBalance.LessThanOrEqual(previous.LoanBalance), "year %d balance rose", row.Year)
				assert.False(t, row.LoanBalance.IsNegative(), "year %d balance negative", row.Year)
				assert.True(t, row.CumulativeInterestPaid.GreaterThanOrEqual(previous.CumulativeInterestPaid))
				assert.True(t, row.PropertyValue.GreaterThan(previous.PropertyValue), "3%% growth compounds")

				cumulative = cumulative.Add(row.CashFlow)
				assert.InDelta(t, cumulative.InexactFloat64(), row.CumulativeCashFlow.InexactFloat64(), 0.01, "year %d", row.Year)
				previous = row
			}

			final := res.FinalYear()
			assert.True(t, final.LoanBalance.IsZero(), "offset pays the loan off early")
			assert.True(t, res.TotalInterestSaved.IsPositive())
			assert.Equal(t, final.NetPosition, res.NetPositionAtEnd)
			assert.Equal(t, final.PropertyValue, res.FinalPropertyValue)
		})
	}
}

func TestCalculationConsistency(t *testing.T) {
	_, first := loadFixture(t)
	_, second := loadFixture(t)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Name, second[i].Name)
		assert.True(t, first[i].Results.NetPositionAtEnd.Equal(second[i].Results.NetPositionAtEnd), "runs must be deterministic")
		assert.Equal(t, first[i].Results.BreakEvenYear, second[i].Results.BreakEvenYear)
	}
}
