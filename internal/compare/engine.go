package compare

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/propgo/internal/calculation"
	"github.com/rgehrsitz/propgo/internal/domain"
	"github.com/rgehrsitz/propgo/internal/transform"
)

// CompareEngine orchestrates scenario comparison
type CompareEngine struct {
	CalcEngine        *calculation.CalculationEngine
	MetricsCalculator *MetricsCalculator
	TemplateRegistry  *transform.TemplateRegistry
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(calcEngine *calculation.CalculationEngine) *CompareEngine {
	return &CompareEngine{
		CalcEngine:        calcEngine,
		MetricsCalculator: NewMetricsCalculator(),
		TemplateRegistry:  transform.CreateBuiltInTemplates(),
	}
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	BaseScenarioName string   // Name of the base scenario to compare against; empty means the first
	Templates        []string // List of template names to apply
}

func baseScenario(config *domain.Configuration, name string) (*domain.Scenario, error) {
	if name == "" {
		if len(config.Scenarios) == 0 {
			return nil, fmt.Errorf("configuration has no scenarios")
		}
		return &config.Scenarios[0], nil
	}
	scenario, ok := config.ScenarioByName(name)
	if !ok {
		return nil, fmt.Errorf("base scenario %s not found in configuration", name)
	}
	return scenario, nil
}

// Compare runs the base scenario alongside one alternative per template
func (ce *CompareEngine) Compare(
	ctx context.Context,
	config *domain.Configuration,
	options CompareOptions,
) (*ComparisonSet, error) {

	base, baseResult, err := ce.prepareBase(ctx, config, options.BaseScenarioName)
	if err != nil {
		return nil, err
	}

	alternatives := make([]ComparisonResult, 0, len(options.Templates))
	for _, name := range options.Templates {
		template, ok := ce.TemplateRegistry.Get(name)
		if !ok {
			return nil, fmt.Errorf("template %s not found", name)
		}

		modified, err := transform.ApplyTemplate(base, template)
		if err != nil {
			return nil, fmt.Errorf("failed to apply template %s: %w", name, err)
		}
		modified.Name = base.Name + "_" + template.Name

		description := template.Description
		if description == "" {
			description = transform.Describe(template.Transforms)
		}
		alt, err := ce.evaluate(ctx, modified, description, baseResult)
		if err != nil {
			return nil, err
		}
		alternatives = append(alternatives, alt)
	}

	return assemble(base.Name, baseResult, alternatives), nil
}

// CompareScenarios compares named scenarios from the configuration against the base
func (ce *CompareEngine) CompareScenarios(
	ctx context.Context,
	config *domain.Configuration,
	baseScenarioName string,
	alternativeScenarioNames []string,
) (*ComparisonSet, error) {

	base, baseResult, err := ce.prepareBase(ctx, config, baseScenarioName)
	if err != nil {
		return nil, err
	}

	alternatives := make([]ComparisonResult, 0, len(alternativeScenarioNames))
	for _, name := range alternativeScenarioNames {
		scenario, ok := config.ScenarioByName(name)
		if !ok {
			return nil, fmt.Errorf("alternative scenario %s not found", name)
		}
		if scenario.Name == base.Name {
			return nil, fmt.Errorf("alternative scenario %s is the base scenario", name)
		}
		alt, err := ce.evaluate(ctx, scenario, "", baseResult)
		if err != nil {
			return nil, err
		}
		alternatives = append(alternatives, alt)
	}

	return assemble(base.Name, baseResult, alternatives), nil
}

func (ce *CompareEngine) prepareBase(ctx context.Context, config *domain.Configuration, name string) (*domain.Scenario, ComparisonResult, error) {
	base, err := baseScenario(config, name)
	if err != nil {
		return nil, ComparisonResult{}, err
	}
	summary, err := ce.CalcEngine.RunScenario(ctx, base)
	if err != nil {
		return nil, ComparisonResult{}, fmt.Errorf("failed to calculate base scenario: %w", err)
	}
	return base, ce.MetricsCalculator.CalculateMetrics(summary), nil
}

// evaluate projects one alternative and measures it against the base
func (ce *CompareEngine) evaluate(ctx context.Context, scenario *domain.Scenario, description string, baseResult ComparisonResult) (ComparisonResult, error) {
	summary, err := ce.CalcEngine.RunScenario(ctx, scenario)
	if err != nil {
		return ComparisonResult{}, fmt.Errorf("failed to calculate scenario %s: %w", scenario.Name, err)
	}
	result := ce.MetricsCalculator.CalculateMetrics(summary)
	result.Description = description
	return ce.MetricsCalculator.CalculateComparison(result, baseResult), nil
}

func assemble(baseName string, baseResult ComparisonResult, alternatives []ComparisonResult) *ComparisonSet {
	compSet := &ComparisonSet{
		BaseScenarioName:   baseName,
		BaseResult:         &baseResult,
		AlternativeResults: alternatives,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)
	return compSet
}
