package domain

import (
	"github.com/shopspring/decimal"
)

// SensitivityParameter represents a market or loan rate to sweep in sensitivity analysis.
// Values are percents, like the rates they replace.
type SensitivityParameter struct {
	Name        string          `yaml:"name" json:"name"`
	MinValue    decimal.Decimal `yaml:"min_value" json:"minValue"`
	MaxValue    decimal.Decimal `yaml:"max_value" json:"maxValue"`
	Steps       int             `yaml:"steps" json:"steps"`
	BaseValue   decimal.Decimal `yaml:"base_value" json:"baseValue"` // read from the base scenario
	Unit        string          `yaml:"unit" json:"unit"`
	Description string          `yaml:"description" json:"description"`
}

// ParameterSensitivityAnalysis represents a complete parameter sensitivity analysis
type ParameterSensitivityAnalysis struct {
	BaseScenarioName string                 `json:"baseScenarioName"`
	BaseMetrics      SensitivityMetrics     `json:"baseMetrics"`
	Parameters       []SensitivityParameter `json:"parameters"`
	Results          []SensitivityResult    `json:"results"`
	Summary          SensitivitySummary     `json:"summary"`
	AnalysisType     string                 `json:"analysisType"` // "single", "multi"
}

// SensitivityResult represents the outcome at one point of a sweep
type SensitivityResult struct {
	ParameterValues map[string]decimal.Decimal `json:"parameterValues"`
	ScenarioName    string                     `json:"scenarioName"`
	KeyMetrics      SensitivityMetrics         `json:"keyMetrics"`
	Results         *CalculationResults        `json:"-"`
}

// SensitivityMetrics represents key metrics for sensitivity analysis
type SensitivityMetrics struct {
	NetPositionAtEnd     decimal.Decimal `json:"netPositionAtEnd"`
	CumulativeCashFlow   decimal.Decimal `json:"cumulativeCashFlow"`
	FirstYearCashFlow    decimal.Decimal `json:"firstYearCashFlow"`
	TotalInterestPaid    decimal.Decimal `json:"totalInterestPaid"`
	BreakEvenYear        int             `json:"breakEvenYear"`
	NetPositionChange    decimal.Decimal `json:"netPositionChange"`
	NetPositionChangePct decimal.Decimal `json:"netPositionChangePct"`
}

// SensitivitySummary provides overall analysis summary
type SensitivitySummary struct {
	MostSensitiveParameter string                     `json:"mostSensitiveParameter"`
	SensitivityScores      map[string]decimal.Decimal `json:"sensitivityScores"`
	Recommendations        []string                   `json:"recommendations"`
	RiskLevel              string                     `json:"riskLevel"` // "LOW", "MEDIUM", "HIGH", "CRITICAL"
}

// SensitivityMatrix represents a 2D parameter sweep
type SensitivityMatrix struct {
	BaseScenarioName string                   `json:"baseScenarioName"`
	Parameter1       SensitivityParameter     `json:"parameter1"`
	Parameter2       SensitivityParameter     `json:"parameter2"`
	MatrixResults    [][]SensitivityResult    `json:"matrixResults"`
	Summary          SensitivityMatrixSummary `json:"summary"`
}

// SensitivityMatrixSummary provides matrix analysis summary
type SensitivityMatrixSummary struct {
	MostSensitiveCombination string          `json:"mostSensitiveCombination"`
	InteractionEffect        decimal.Decimal `json:"interactionEffect"` // dollars of net position not explained by either parameter alone
	Recommendations          []string        `json:"recommendations"`
	RiskLevel                string          `json:"riskLevel"`
}

// Common sensitivity parameters
var (
	PropertyGrowthParam = SensitivityParameter{
		Name:        "property_growth_rate",
		MinValue:    decimal.NewFromInt(0),
		MaxValue:    decimal.NewFromInt(8),
		Steps:       5,
		Unit:        "percent",
		Description: "Annual capital growth of the property",
	}

	InterestRateParam = SensitivityParameter{
		Name:        "interest_rate",
		MinValue:    decimal.NewFromInt(4),
		MaxValue:    decimal.NewFromInt(9),
		Steps:       6,
		Unit:        "percent",
		Description: "Loan interest rate; scheduled changes move with it",
	}

	RentIncreaseParam = SensitivityParameter{
		Name:        "rent_increase_rate",
		MinValue:    decimal.NewFromInt(0),
		MaxValue:    decimal.NewFromInt(5),
		Steps:       6,
		Unit:        "percent",
		Description: "Annual rent increase",
	}

	ExpensesGrowthParam = SensitivityParameter{
		Name:        "operating_expenses_growth_rate",
		MinValue:    decimal.NewFromInt(1),
		MaxValue:    decimal.NewFromInt(5),
		Steps:       5,
		Unit:        "percent",
		Description: "Annual growth of rates, water, insurance and fees",
	}
)

// GetCommonParameters returns a list of common sensitivity parameters
func GetCommonParameters() []SensitivityParameter {
	return []SensitivityParameter{
		PropertyGrowthParam,
		InterestRateParam,
		RentIncreaseParam,
		ExpensesGrowthParam,
	}
}

// CommonParameter looks a common parameter up by name
func CommonParameter(name string) (SensitivityParameter, bool) {
	for _, p := range GetCommonParameters() {
		if p.Name == name {
			return p, true
		}
	}
	return SensitivityParameter{}, false
}

// CalculateSensitivityScore is the elasticity of net position to the parameter:
// percent change in net position per percent change in the parameter
func (sm *SensitivityMetrics) CalculateSensitivityScore(parameterChangePct decimal.Decimal) decimal.Decimal {
	if parameterChangePct.IsZero() {
		return decimal.Zero
	}
	return sm.NetPositionChangePct.Abs().Div(parameterChangePct.Abs())
}

// DetermineRiskLevel determines the risk level based on sensitivity scores
func (ss *SensitivitySummary) DetermineRiskLevel() string {
	maxScore := decimal.Zero
	for _, score := range ss.SensitivityScores {
		if score.GreaterThan(maxScore) {
			maxScore = score
		}
	}

	if maxScore.LessThan(decimal.NewFromFloat(5.0)) {
		return "LOW"
	} else if maxScore.LessThan(decimal.NewFromFloat(15.0)) {
		return "MEDIUM"
	} else if maxScore.LessThan(decimal.NewFromFloat(30.0)) {
		return "HIGH"
	}
	return "CRITICAL"
}

// GenerateRecommendations generates recommendations based on sensitivity analysis
func (ss *SensitivitySummary) GenerateRecommendations() []string {
	recommendations := []string{}

	switch ss.DetermineRiskLevel() {
	case "LOW":
		recommendations = append(recommendations, "Outcome is robust to parameter changes")
		recommendations = append(recommendations, "Current assumptions appear reasonable")
	case "MEDIUM":
		recommendations = append(recommendations, "Monitor key parameters regularly")
		recommendations = append(recommendations, "Consider conservative assumptions for critical parameters")
	case "HIGH":
		recommendations = append(recommendations, "Outcome is sensitive to parameter changes")
		recommendations = append(recommendations, "Stress test with the break-even solver before committing")
	case "CRITICAL":
		recommendations = append(recommendations, "⚠️ Outcome is highly sensitive to parameter changes")
		recommendations = append(recommendations, "Consider more conservative assumptions")
		recommendations = append(recommendations, "Hold a larger cash buffer in the offset account")
	}

	switch ss.MostSensitiveParameter {
	case "property_growth_rate":
		recommendations = append(recommendations, "Returns rest on capital growth; check long-run growth for the suburb")
	case "interest_rate":
		recommendations = append(recommendations, "Consider fixing part of the loan or building offset savings")
	case "rent_increase_rate":
		recommendations = append(recommendations, "Review comparable rents before relying on rent increases")
	case "operating_expenses_growth_rate":
		recommendations = append(recommendations, "Budget for rates and insurance rising faster than rent")
	}

	return recommendations
}
