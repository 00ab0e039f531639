package calculation

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/propgo/internal/domain"
	"github.com/shopspring/decimal"
)

// SensitivityAnalyzer performs parameter sweep analysis
type SensitivityAnalyzer struct {
	calculationEngine *CalculationEngine
}

// NewSensitivityAnalyzer creates a sensitivity analyzer; a nil engine uses the defaults
func NewSensitivityAnalyzer(engine *CalculationEngine) *SensitivityAnalyzer {
	if engine == nil {
		engine = NewCalculationEngine()
	}
	return &SensitivityAnalyzer{calculationEngine: engine}
}

// AnalyzeSingleParameter performs a single parameter sensitivity analysis
func (sa *SensitivityAnalyzer) AnalyzeSingleParameter(
	ctx context.Context,
	config *domain.Configuration,
	parameter domain.SensitivityParameter,
	baseScenarioName string,
) (*domain.ParameterSensitivityAnalysis, error) {

	base, err := sa.getBaseScenario(config, baseScenarioName)
	if err != nil {
		return nil, fmt.Errorf("failed to get base scenario: %w", err)
	}
	baseMetrics, err := sa.runBase(ctx, base)
	if err != nil {
		return nil, err
	}

	results, parameter, err := sa.sweep(ctx, base, parameter, baseMetrics)
	if err != nil {
		return nil, err
	}

	return &domain.ParameterSensitivityAnalysis{
		BaseScenarioName: base.Name,
		BaseMetrics:      baseMetrics,
		Parameters:       []domain.SensitivityParameter{parameter},
		Results:          results,
		Summary:          sa.calculateSensitivitySummary(results, parameter),
		AnalysisType:     "single",
	}, nil
}

// AnalyzeMultipleParameters sweeps each parameter in turn, holding the others at their base values
func (sa *SensitivityAnalyzer) AnalyzeMultipleParameters(
	ctx context.Context,
	config *domain.Configuration,
	parameters []domain.SensitivityParameter,
	baseScenarioName string,
) (*domain.ParameterSensitivityAnalysis, error) {

	base, err := sa.getBaseScenario(config, baseScenarioName)
	if err != nil {
		return nil, fmt.Errorf("failed to get base scenario: %w", err)
	}
	baseMetrics, err := sa.runBase(ctx, base)
	if err != nil {
		return nil, err
	}

	allResults := make([]domain.SensitivityResult, 0)
	allParameters := make([]domain.SensitivityParameter, 0, len(parameters))
	for _, param := range parameters {
		results, resolved, err := sa.sweep(ctx, base, param, baseMetrics)
		if err != nil {
			return nil, fmt.Errorf("failed to analyze parameter %s: %w", param.Name, err)
		}
		allResults = append(allResults, results...)
		allParameters = append(allParameters, resolved)
	}

	return &domain.ParameterSensitivityAnalysis{
		BaseScenarioName: base.Name,
		BaseMetrics:      baseMetrics,
		Parameters:       allParameters,
		Results:          allResults,
		Summary:          sa.calculateMultiParameterSensitivitySummary(allResults, allParameters),
		AnalysisType:     "multi",
	}, nil
}

// AnalyzeParameterMatrix performs a 2D parameter matrix analysis
func (sa *SensitivityAnalyzer) AnalyzeParameterMatrix(
	ctx context.Context,
	config *domain.Configuration,
	param1, param2 domain.SensitivityParameter,
	baseScenarioName string,
) (*domain.SensitivityMatrix, error) {

	if param1.Name == param2.Name {
		return nil, fmt.Errorf("matrix parameters must differ, got %s twice", param1.Name)
	}
	base, err := sa.getBaseScenario(config, baseScenarioName)
	if err != nil {
		return nil, fmt.Errorf("failed to get base scenario: %w", err)
	}
	baseMetrics, err := sa.runBase(ctx, base)
	if err != nil {
		return nil, err
	}
	if param1.BaseValue, err = ScenarioParameter(base, param1.Name); err != nil {
		return nil, err
	}
	if param2.BaseValue, err = ScenarioParameter(base, param2.Name); err != nil {
		return nil, err
	}

	values1 := sa.generateParameterValues(param1)
	values2 := sa.generateParameterValues(param2)
	matrixResults := make([][]domain.SensitivityResult, len(values1))

	for i, value1 := range values1 {
		matrixResults[i] = make([]domain.SensitivityResult, len(values2))

		for j, value2 := range values2 {
			modified := base.Clone()
			if err := SetScenarioParameter(&modified, param1.Name, value1); err != nil {
				return nil, err
			}
			if err := SetScenarioParameter(&modified, param2.Name, value2); err != nil {
				return nil, err
			}

			summary, err := sa.calculationEngine.RunScenario(ctx, &modified)
			if err != nil {
				return nil, fmt.Errorf("failed to run scenario for %s=%s, %s=%s: %w",
					param1.Name, value1.StringFixed(2), param2.Name, value2.StringFixed(2), err)
			}

			matrixResults[i][j] = domain.SensitivityResult{
				ParameterValues: map[string]decimal.Decimal{
					param1.Name: value1,
					param2.Name: value2,
				},
				ScenarioName: fmt.Sprintf("%s_%s_%s_%s_%s",
					base.Name, param1.Name, value1.StringFixed(2), param2.Name, value2.StringFixed(2)),
				KeyMetrics: sa.calculateSensitivityMetrics(summary.Results, baseMetrics),
				Results:    summary.Results,
			}
		}
	}

	return &domain.SensitivityMatrix{
		BaseScenarioName: base.Name,
		Parameter1:       param1,
		Parameter2:       param2,
		MatrixResults:    matrixResults,
		Summary:          sa.calculateMatrixSummary(matrixResults, param1, param2, values1, values2, baseMetrics),
	}, nil
}

// sweep runs the base scenario at every value of one parameter
func (sa *SensitivityAnalyzer) sweep(
	ctx context.Context,
	base *domain.Scenario,
	parameter domain.SensitivityParameter,
	baseMetrics domain.SensitivityMetrics,
) ([]domain.SensitivityResult, domain.SensitivityParameter, error) {

	baseValue, err := ScenarioParameter(base, parameter.Name)
	if err != nil {
		return nil, parameter, err
	}
	parameter.BaseValue = baseValue

	values := sa.generateParameterValues(parameter)
	results := make([]domain.SensitivityResult, 0, len(values))

	for _, value := range values {
		modified := base.Clone()
		if err := SetScenarioParameter(&modified, parameter.Name, value); err != nil {
			return nil, parameter, err
		}

		summary, err := sa.calculationEngine.RunScenario(ctx, &modified)
		if err != nil {
			return nil, parameter, fmt.Errorf("failed to run scenario for %s=%s: %w", parameter.Name, value.StringFixed(2), err)
		}

		results = append(results, domain.SensitivityResult{
			ParameterValues: map[string]decimal.Decimal{parameter.Name: value},
			ScenarioName:    fmt.Sprintf("%s_%s_%s", base.Name, parameter.Name, value.StringFixed(2)),
			KeyMetrics:      sa.calculateSensitivityMetrics(summary.Results, baseMetrics),
			Results:         summary.Results,
		})
	}
	return results, parameter, nil
}

func (sa *SensitivityAnalyzer) runBase(ctx context.Context, base *domain.Scenario) (domain.SensitivityMetrics, error) {
	summary, err := sa.calculationEngine.RunScenario(ctx, base)
	if err != nil {
		return domain.SensitivityMetrics{}, fmt.Errorf("failed to calculate base scenario: %w", err)
	}
	return sa.calculateSensitivityMetrics(summary.Results, domain.SensitivityMetrics{}), nil
}

// generateParameterValues generates evenly spaced values for a parameter sweep
func (sa *SensitivityAnalyzer) generateParameterValues(param domain.SensitivityParameter) []decimal.Decimal {
	if param.Steps <= 1 {
		return []decimal.Decimal{param.BaseValue}
	}

	values := make([]decimal.Decimal, 0, param.Steps)
	stepSize := param.MaxValue.Sub(param.MinValue).Div(decimal.NewFromInt(int64(param.Steps - 1)))
	for i := 0; i < param.Steps; i++ {
		values = append(values, param.MinValue.Add(stepSize.Mul(decimal.NewFromInt(int64(i)))))
	}
	return values
}

// ScenarioParameter reads a sweepable parameter from a scenario
func ScenarioParameter(s *domain.Scenario, name string) (decimal.Decimal, error) {
	switch name {
	case "property_growth_rate":
		return s.Market.PropertyGrowthRate, nil
	case "interest_rate":
		return s.Property.InterestRate, nil
	case "rent_increase_rate":
		return s.Market.RentIncreaseRate, nil
	case "operating_expenses_growth_rate":
		return s.Market.OperatingExpensesGrowthRate, nil
	}
	return decimal.Zero, fmt.Errorf("unknown sensitivity parameter: %s", name)
}

// SetScenarioParameter writes a sweepable parameter. Scheduled rate changes shift with
// the starting interest rate and never go below zero.
func SetScenarioParameter(s *domain.Scenario, name string, value decimal.Decimal) error {
	switch name {
	case "property_growth_rate":
		s.Market.PropertyGrowthRate = value
	case "interest_rate":
		delta := value.Sub(s.Property.InterestRate)
		s.Property.InterestRate = decimal.Max(decimal.Zero, value)
		for i := range s.Property.InterestRateChanges {
			s.Property.InterestRateChanges[i].Rate = decimal.Max(decimal.Zero, s.Property.InterestRateChanges[i].Rate.Add(delta))
		}
	case "rent_increase_rate":
		s.Market.RentIncreaseRate = value
	case "operating_expenses_growth_rate":
		s.Market.OperatingExpensesGrowthRate = value
	default:
		return fmt.Errorf("unknown sensitivity parameter: %s", name)
	}
	return nil
}

// getBaseScenario gets the named scenario, or the first one when name is empty
func (sa *SensitivityAnalyzer) getBaseScenario(config *domain.Configuration, scenarioName string) (*domain.Scenario, error) {
	if config == nil || len(config.Scenarios) == 0 {
		return nil, fmt.Errorf("configuration has no scenarios")
	}
	if scenarioName == "" {
		return &config.Scenarios[0], nil
	}
	if s, ok := config.ScenarioByName(scenarioName); ok {
		return s, nil
	}
	return nil, fmt.Errorf("scenario '%s' not found", scenarioName)
}

// calculateSensitivityMetrics extracts the headline metrics and their change from base
func (sa *SensitivityAnalyzer) calculateSensitivityMetrics(results *domain.CalculationResults, base domain.SensitivityMetrics) domain.SensitivityMetrics {
	m := domain.SensitivityMetrics{
		NetPositionAtEnd:   results.NetPositionAtEnd,
		CumulativeCashFlow: results.CumulativeCashFlow,
		BreakEvenYear:      results.BreakEvenYear,
	}
	if row := results.ProjectionForYear(1); row != nil {
		m.FirstYearCashFlow = row.CashFlow
	}
	if final := results.FinalYear(); final != nil {
		m.TotalInterestPaid = final.CumulativeInterestPaid
	}

	m.NetPositionChange = m.NetPositionAtEnd.Sub(base.NetPositionAtEnd)
	if !base.NetPositionAtEnd.IsZero() {
		m.NetPositionChangePct = m.NetPositionChange.Div(base.NetPositionAtEnd.Abs()).Mul(hundred)
	}
	return m
}

// parameterChangePct is the relative move from the base value; a zero base falls back to points
func parameterChangePct(value, base decimal.Decimal) decimal.Decimal {
	if base.IsZero() {
		return value.Sub(base)
	}
	return value.Sub(base).Div(base.Abs()).Mul(hundred)
}

// calculateSensitivitySummary scores every sweep point against the base scenario
func (sa *SensitivityAnalyzer) calculateSensitivitySummary(results []domain.SensitivityResult, parameter domain.SensitivityParameter) domain.SensitivitySummary {
	if len(results) == 0 {
		return domain.SensitivitySummary{}
	}

	sensitivityScores := make(map[string]decimal.Decimal)
	maxScore := decimal.Zero
	for _, result := range results {
		value, ok := result.ParameterValues[parameter.Name]
		if !ok || value.Equal(parameter.BaseValue) {
			continue
		}
		score := result.KeyMetrics.CalculateSensitivityScore(parameterChangePct(value, parameter.BaseValue))
		sensitivityScores[result.ScenarioName] = score
		if score.GreaterThan(maxScore) {
			maxScore = score
		}
	}

	summary := domain.SensitivitySummary{
		MostSensitiveParameter: parameter.Name,
		SensitivityScores:      sensitivityScores,
	}
	summary.RiskLevel = summary.DetermineRiskLevel()

	var lead string
	switch {
	case maxScore.GreaterThan(decimal.NewFromFloat(10.0)):
		lead = fmt.Sprintf("⚠️ High sensitivity to %s changes", parameter.Name)
	case maxScore.GreaterThan(decimal.NewFromFloat(5.0)):
		lead = fmt.Sprintf("Moderate sensitivity to %s changes", parameter.Name)
	default:
		lead = fmt.Sprintf("Low sensitivity to %s changes", parameter.Name)
	}
	summary.Recommendations = append([]string{lead}, summary.GenerateRecommendations()...)
	return summary
}

// calculateMultiParameterSensitivitySummary ranks parameters by their highest score
func (sa *SensitivityAnalyzer) calculateMultiParameterSensitivitySummary(results []domain.SensitivityResult, parameters []domain.SensitivityParameter) domain.SensitivitySummary {
	sensitivityScores := make(map[string]decimal.Decimal)
	maxScore := decimal.Zero
	mostSensitiveParam := ""

	for _, param := range parameters {
		var paramResults []domain.SensitivityResult
		for _, result := range results {
			if _, ok := result.ParameterValues[param.Name]; ok {
				paramResults = append(paramResults, result)
			}
		}

		paramScore := decimal.Zero
		for _, score := range sa.calculateSensitivitySummary(paramResults, param).SensitivityScores {
			if score.GreaterThan(paramScore) {
				paramScore = score
			}
		}

		sensitivityScores[param.Name] = paramScore
		if mostSensitiveParam == "" || paramScore.GreaterThan(maxScore) {
			maxScore = paramScore
			mostSensitiveParam = param.Name
		}
	}

	summary := domain.SensitivitySummary{
		MostSensitiveParameter: mostSensitiveParam,
		SensitivityScores:      sensitivityScores,
	}
	summary.RiskLevel = summary.DetermineRiskLevel()
	summary.Recommendations = summary.GenerateRecommendations()
	return summary
}

// calculateMatrixSummary finds the largest move from base and the largest interaction.
// The interaction at a cell is its net position less what each parameter explains alone,
// measured along the row and column through the value nearest each base value.
func (sa *SensitivityAnalyzer) calculateMatrixSummary(
	matrixResults [][]domain.SensitivityResult,
	param1, param2 domain.SensitivityParameter,
	values1, values2 []decimal.Decimal,
	baseMetrics domain.SensitivityMetrics,
) domain.SensitivityMatrixSummary {

	bi := nearestIndex(values1, param1.BaseValue)
	bj := nearestIndex(values2, param2.BaseValue)
	anchor := matrixResults[bi][bj].KeyMetrics.NetPositionAtEnd

	interactionEffect := decimal.Zero
	maxChangePct := decimal.Zero
	mostSensitiveCombination := ""

	for i := range matrixResults {
		for j := range matrixResults[i] {
			metrics := matrixResults[i][j].KeyMetrics

			interaction := metrics.NetPositionAtEnd.
				Sub(matrixResults[i][bj].KeyMetrics.NetPositionAtEnd).
				Sub(matrixResults[bi][j].KeyMetrics.NetPositionAtEnd).
				Add(anchor)
			if interaction.Abs().GreaterThan(interactionEffect.Abs()) {
				interactionEffect = interaction
			}

			if metrics.NetPositionChangePct.Abs().GreaterThan(maxChangePct) {
				maxChangePct = metrics.NetPositionChangePct.Abs()
				mostSensitiveCombination = fmt.Sprintf("%s=%s, %s=%s",
					param1.Name, values1[i].StringFixed(2), param2.Name, values2[j].StringFixed(2))
			}
		}
	}

	riskLevel := "CRITICAL"
	switch {
	case maxChangePct.LessThan(decimal.NewFromInt(10)):
		riskLevel = "LOW"
	case maxChangePct.LessThan(decimal.NewFromInt(25)):
		riskLevel = "MEDIUM"
	case maxChangePct.LessThan(decimal.NewFromInt(50)):
		riskLevel = "HIGH"
	}

	recommendations := []string{}
	switch riskLevel {
	case "CRITICAL", "HIGH":
		recommendations = append(recommendations, "⚠️ High sensitivity to parameter combinations")
		recommendations = append(recommendations, "Consider conservative assumptions for both parameters")
	case "MEDIUM":
		recommendations = append(recommendations, "Moderate sensitivity to parameter combinations")
		recommendations = append(recommendations, "Monitor both parameters regularly")
	default:
		recommendations = append(recommendations, "Low sensitivity to parameter combinations")
		recommendations = append(recommendations, "Outcome appears robust to parameter interactions")
	}

	// Material when it exceeds 10% of the base net position
	if !baseMetrics.NetPositionAtEnd.IsZero() &&
		interactionEffect.Abs().GreaterThan(baseMetrics.NetPositionAtEnd.Abs().Div(decimal.NewFromInt(10))) {
		recommendations = append(recommendations, "⚠️ Significant interaction effects detected")
		recommendations = append(recommendations, "Parameters are not independent")
	}

	return domain.SensitivityMatrixSummary{
		MostSensitiveCombination: mostSensitiveCombination,
		InteractionEffect:        interactionEffect,
		Recommendations:          recommendations,
		RiskLevel:                riskLevel,
	}
}

func nearestIndex(values []decimal.Decimal, target decimal.Decimal) int {
	best := 0
	for i := range values {
		if values[i].Sub(target).Abs().LessThan(values[best].Sub(target).Abs()) {
			best = i
		}
	}
	return best
}
