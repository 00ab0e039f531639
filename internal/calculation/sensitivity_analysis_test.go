package calculation

import (
	"context"
	"testing"

	"github.com/rgehrsitz/propgo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sensitivityConfig() *domain.Configuration {
	details, market, costs := fixtureInputs()
	return &domain.Configuration{Scenarios: []domain.Scenario{{
		Name:         "Base",
		OffsetAmount: dec("50000"),
		Property:     *details,
		Market:       *market,
		Costs:        *costs,
	}}}
}

func TestSensitivityAnalyzer_PropertyGrowth(t *testing.T) {
	sa := NewSensitivityAnalyzer(nil)
	analysis, err := sa.AnalyzeSingleParameter(context.Background(), sensitivityConfig(), domain.PropertyGrowthParam, "")
	require.NoError(t, err)

	assert.Equal(t, "Base", analysis.BaseScenarioName)
	assert.Equal(t, "single", analysis.AnalysisType)
	assert.True(t, analysis.Parameters[0].BaseValue.Equal(dec("3")))
	assert.InDelta(t, 621433.19, analysis.BaseMetrics.NetPositionAtEnd.InexactFloat64(), 1)
	require.Len(t, analysis.Results, 5)

	for i := 1; i < len(analysis.Results); i++ {
		prev := analysis.Results[i-1].KeyMetrics.NetPositionAtEnd
		assert.True(t, analysis.Results[i].KeyMetrics.NetPositionAtEnd.GreaterThan(prev),
			"net position should rise with growth")
	}
	assert.InDelta(t, -422252, analysis.Results[0].KeyMetrics.NetPositionAtEnd.InexactFloat64(), 5)
	assert.InDelta(t, 6204815, analysis.Results[4].KeyMetrics.NetPositionAtEnd.InexactFloat64(), 5)
	assert.True(t, analysis.Results[0].KeyMetrics.NetPositionChange.IsNegative())

	assert.Equal(t, "property_growth_rate", analysis.Summary.MostSensitiveParameter)
	assert.Len(t, analysis.Summary.SensitivityScores, 5)
	assert.InDelta(t, 5.39, analysis.Summary.SensitivityScores["Base_property_growth_rate_8.00"].InexactFloat64(), 0.01)
	assert.Equal(t, "MEDIUM", analysis.Summary.RiskLevel)
	assert.Contains(t, analysis.Summary.Recommendations[0], "Moderate sensitivity")
}

func TestSensitivityAnalyzer_InterestRateSkipsBase(t *testing.T) {
	sa := NewSensitivityAnalyzer(NewCalculationEngine())
	analysis, err := sa.AnalyzeSingleParameter(context.Background(), sensitivityConfig(), domain.InterestRateParam, "Base")
	require.NoError(t, err)

	require.Len(t, analysis.Results, 6)
	for i := 1; i < len(analysis.Results); i++ {
		prev := analysis.Results[i-1].KeyMetrics.NetPositionAtEnd
		assert.True(t, analysis.Results[i].KeyMetrics.NetPositionAtEnd.LessThan(prev),
			"net position should fall as the rate rises")
	}

	// 6% is the base rate, so it is swept but not scored
	assert.Len(t, analysis.Summary.SensitivityScores, 5)
	assert.NotContains(t, analysis.Summary.SensitivityScores, "Base_interest_rate_6.00")
	assert.True(t, analysis.Results[2].KeyMetrics.NetPositionChange.Abs().LessThan(dec("0.01")))
	assert.Equal(t, "LOW", analysis.Summary.RiskLevel)
}

func TestSensitivityAnalyzer_InterestRateShiftsSchedule(t *testing.T) {
	cfg := sensitivityConfig()
	cfg.Scenarios[0].Property.InterestRateChanges = []domain.RateChange{{Year: 3, Rate: dec("1")}}

	s := cfg.Scenarios[0].Clone()
	require.NoError(t, SetScenarioParameter(&s, "interest_rate", dec("4")))
	assert.True(t, s.Property.InterestRate.Equal(dec("4")))
	assert.True(t, s.Property.InterestRateChanges[0].Rate.IsZero(), "scheduled rate clamps at zero")
	assert.True(t, cfg.Scenarios[0].Property.InterestRateChanges[0].Rate.Equal(dec("1")), "base scenario untouched")
}

func TestSensitivityAnalyzer_MultipleParameters(t *testing.T) {
	sa := NewSensitivityAnalyzer(nil)
	params := []domain.SensitivityParameter{domain.InterestRateParam, domain.PropertyGrowthParam}
	analysis, err := sa.AnalyzeMultipleParameters(context.Background(), sensitivityConfig(), params, "")
	require.NoError(t, err)

	assert.Equal(t, "multi", analysis.AnalysisType)
	assert.Len(t, analysis.Results, 11)
	assert.Len(t, analysis.Summary.SensitivityScores, 2)
	assert.Equal(t, "property_growth_rate", analysis.Summary.MostSensitiveParameter)
	assert.True(t, analysis.Summary.SensitivityScores["property_growth_rate"].GreaterThan(
		analysis.Summary.SensitivityScores["interest_rate"]))
	assert.Equal(t, "MEDIUM", analysis.Summary.RiskLevel)
}

func TestSensitivityAnalyzer_Matrix(t *testing.T) {
	growth := domain.PropertyGrowthParam
	growth.MinValue, growth.MaxValue, growth.Steps = dec("2"), dec("4"), 3
	rate := domain.InterestRateParam
	rate.MinValue, rate.MaxValue, rate.Steps = dec("5"), dec("7"), 3

	sa := NewSensitivityAnalyzer(nil)
	matrix, err := sa.AnalyzeParameterMatrix(context.Background(), sensitivityConfig(), growth, rate, "")
	require.NoError(t, err)

	require.Len(t, matrix.MatrixResults, 3)
	require.Len(t, matrix.MatrixResults[0], 3)
	assert.InDelta(t, 621433.19, matrix.MatrixResults[1][1].KeyMetrics.NetPositionAtEnd.InexactFloat64(), 1)
	assert.InDelta(t, 1454509, matrix.MatrixResults[2][0].KeyMetrics.NetPositionAtEnd.InexactFloat64(), 5)
	assert.InDelta(t, -49411, matrix.MatrixResults[0][2].KeyMetrics.NetPositionAtEnd.InexactFloat64(), 5)

	// Growth and rate act on separate parts of the projection
	assert.InDelta(t, 0, matrix.Summary.InteractionEffect.InexactFloat64(), 100)
	assert.Equal(t, "property_growth_rate=4.00, interest_rate=5.00", matrix.Summary.MostSensitiveCombination)
	assert.Equal(t, "CRITICAL", matrix.Summary.RiskLevel)
	assert.NotContains(t, matrix.Summary.Recommendations, "Parameters are not independent")
}

func TestSensitivityAnalyzer_Errors(t *testing.T) {
	sa := NewSensitivityAnalyzer(nil)
	ctx := context.Background()

	_, err := sa.AnalyzeSingleParameter(ctx, sensitivityConfig(), domain.PropertyGrowthParam, "Missing")
	assert.ErrorContains(t, err, "scenario 'Missing' not found")

	_, err = sa.AnalyzeSingleParameter(ctx, &domain.Configuration{}, domain.PropertyGrowthParam, "")
	assert.ErrorContains(t, err, "no scenarios")

	_, err = sa.AnalyzeSingleParameter(ctx, sensitivityConfig(), domain.SensitivityParameter{Name: "vacancy", Steps: 2}, "")
	assert.ErrorContains(t, err, "unknown sensitivity parameter: vacancy")

	_, err = sa.AnalyzeParameterMatrix(ctx, sensitivityConfig(), domain.InterestRateParam, domain.InterestRateParam, "")
	assert.ErrorContains(t, err, "must differ")

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = sa.AnalyzeSingleParameter(cancelled, sensitivityConfig(), domain.PropertyGrowthParam, "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerateParameterValues(t *testing.T) {
	sa := NewSensitivityAnalyzer(nil)

	values := sa.generateParameterValues(domain.InterestRateParam)
	require.Len(t, values, 6)
	assert.True(t, values[0].Equal(dec("4")))
	assert.True(t, values[5].Equal(dec("9")))

	single := domain.SensitivityParameter{Steps: 1, BaseValue: dec("3")}
	assert.Equal(t, 1, len(sa.generateParameterValues(single)))
}
