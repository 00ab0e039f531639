package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rgehrsitz/propgo/internal/breakeven"
	"github.com/rgehrsitz/propgo/internal/calculation"
	"github.com/rgehrsitz/propgo/internal/compare"
	"github.com/rgehrsitz/propgo/internal/config"
	"github.com/rgehrsitz/propgo/internal/domain"
	"github.com/rgehrsitz/propgo/internal/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputGeneration(t *testing.T) {
	cfg, summaries := loadFixture(t)
	report := output.NewReport(cfg, summaries)
	report.Source = fixture

	registry := output.DefaultRegistry()
	for _, name := range registry.Names() {
		t.Run(name, func(t *testing.T) {
			f, ok := registry.Get(name)
			require.True(t, ok)

			var buf bytes.Buffer
			require.NoError(t, output.Write(&buf, f, report))
			assert.Contains(t, buf.String(), "Cheaper")
		})
	}

	var buf bytes.Buffer
	require.NoError(t, output.Write(&buf, output.JSONFormatter{}, report))
	var decoded struct {
		Scenarios []struct {
			Name    string                    `json:"name"`
			Results domain.CalculationResults `json:"results"`
		} `json:"scenarios"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Scenarios, 2)
	assert.True(t, decoded.Scenarios[0].Results.NetPositionAtEnd.Equal(summaries[0].Results.NetPositionAtEnd),
		"decimals survive the JSON report")
}

func TestCompareTemplatesAgainstFixture(t *testing.T) {
	cfg, err := config.NewInputParser().LoadFromFile(fixture)
	require.NoError(t, err)

	ce := compare.NewCompareEngine(calculation.NewCalculationEngine())
	compSet, err := ce.Compare(context.Background(), cfg, compare.CompareOptions{
		Templates: []string{"rate_rise_2pct", "double_offset"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Base", compSet.BaseScenarioName, "the first scenario is the default base")
	require.Len(t, compSet.AlternativeResults, 2)

	rateRise := compSet.AlternativeResults[0]
	assert.True(t, rateRise.NetPositionDiffFromBase.IsNegative())
	assert.True(t, rateRise.MonthlyPayment.GreaterThan(compSet.BaseResult.MonthlyPayment))

	doubled := compSet.AlternativeResults[1]
	assert.True(t, doubled.TotalInterestSaved.GreaterThan(compSet.BaseResult.TotalInterestSaved))
	assert.Greater(t, doubled.LoanTermReduction, compSet.BaseResult.LoanTermReduction)

	text := (&compare.TableFormatter{}).Format(compSet)
	assert.Contains(t, text, "Base_rate_rise_2pct")
	assert.NotEmpty(t, compSet.Recommendations)
}

func TestBreakEvenAgainstFixture(t *testing.T) {
	cfg, err := config.NewInputParser().LoadFromFile(fixture)
	require.NoError(t, err)

	engine := calculation.NewCalculationEngine()
	solver := breakeven.NewDefaultSolver(engine)

	result, err := solver.Solve(context.Background(), breakeven.SolveRequest{
		BaseScenario: &cfg.Scenarios[0],
		Target:       breakeven.TargetGrowthRate,
		Goal:         breakeven.GoalNetPosition,
		TargetYear:   5,
	})
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.True(t, result.AlreadyMet, "the base scenario breaks even in year 4")
	assert.InDelta(t, 2.6615, result.RequiredValue.InexactFloat64(), 0.01)

	// Re-running at the boundary value lands on a near-zero net position
	row := result.ScenarioSummary.Results.ProjectionForYear(5)
	require.NotNil(t, row)
	assert.False(t, row.NetPosition.IsNegative())
	assert.Less(t, row.NetPosition.InexactFloat64(), 500.0)
}

func TestErrorHandling(t *testing.T) {
	dir := t.TempDir()
	parser := config.NewInputParser()

	t.Run("missing file", func(t *testing.T) {
		_, err := parser.LoadFromFile(filepath.Join(dir, "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid scenario", func(t *testing.T) {
		data, err := os.ReadFile(fixture)
		require.NoError(t, err)
		broken := strings.Replace(string(data), "deposit_amount: 75000", "deposit_amount: 900000", 1)
		path := filepath.Join(dir, "broken.yaml")
		require.NoError(t, os.WriteFile(path, []byte(broken), 0644))

		_, err = parser.LoadFromFile(path)
		require.Error(t, err)

		var ve *domain.ValidationError
		assert.ErrorAs(t, err, &ve)
		assert.Equal(t, "deposit_amount", ve.Field)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cfg, err := parser.LoadFromFile(fixture)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = calculation.NewCalculationEngine().RunScenarios(ctx, cfg)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
