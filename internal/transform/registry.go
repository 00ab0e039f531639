package transform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rgehrsitz/propgo/internal/domain"
	"github.com/shopspring/decimal"
)

// TransformRegistry provides a central registry for all available transforms.
// It enables creation of transforms from string parameters, useful for CLI commands.
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// TransformFactory is a function that creates a transform from parameters.
type TransformFactory func(params map[string]string) (ScenarioTransform, error)

// NewTransformRegistry creates a new registry with all built-in transforms registered.
func NewTransformRegistry() *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
	}

	registry.Register("adjust_interest_rate", createAdjustInterestRate)
	registry.Register("set_loan_type", createSetLoanType)
	registry.Register("set_deposit_percent", createSetDepositPercent)
	registry.Register("set_offset", createSetOffset)
	registry.Register("scale_offset", createScaleOffset)
	registry.Register("set_offset_contribution", createSetOffsetContribution)
	registry.Register("quarantine_losses", createQuarantineLosses)
	registry.Register("owner_occupier", func(map[string]string) (ScenarioTransform, error) {
		return &OwnerOccupier{}, nil
	})
	registry.Register("set_growth_rate", createSetGrowthRate)
	registry.Register("adjust_rent", createAdjustRent)
	registry.Register("set_weekly_rent", createSetWeeklyRent)

	return registry
}

// Register adds a transform factory to the registry.
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters.
func (r *TransformRegistry) Create(name string, params map[string]string) (ScenarioTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown transform: %s", name)
	}

	return factory(params)
}

// List returns the names of all registered transforms, sorted.
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTransformSpec parses a transform specification string.
// Format: "transform_name:param1=value1,param2=value2"
// Example: "adjust_interest_rate:delta=1.5"
func (r *TransformRegistry) ParseTransformSpec(spec string) (ScenarioTransform, error) {
	parts := strings.SplitN(spec, ":", 2)
	name := strings.TrimSpace(parts[0])
	if name == "" {
		return nil, fmt.Errorf("invalid transform spec format, expected 'name:params', got: %s", spec)
	}

	params := make(map[string]string)
	if len(parts) == 2 && strings.TrimSpace(parts[1]) != "" {
		for _, paramPair := range strings.Split(parts[1], ",") {
			kv := strings.SplitN(paramPair, "=", 2)
			if len(kv) != 2 {
				return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", paramPair)
			}
			params[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}

	return r.Create(name, params)
}

// decimalParam reads a required decimal parameter
func decimalParam(transform string, params map[string]string, key string) (decimal.Decimal, error) {
	raw, ok := params[key]
	if !ok {
		return decimal.Zero, fmt.Errorf("%s requires '%s' parameter", transform, key)
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return value, nil
}

// Factory functions for each transform

func createAdjustInterestRate(params map[string]string) (ScenarioTransform, error) {
	delta, err := decimalParam("adjust_interest_rate", params, "delta")
	if err != nil {
		return nil, err
	}
	return &AdjustInterestRate{Delta: delta}, nil
}

func createSetLoanType(params map[string]string) (ScenarioTransform, error) {
	loanType, ok := params["type"]
	if !ok {
		return nil, fmt.Errorf("set_loan_type requires 'type' parameter")
	}
	return &SetLoanType{LoanType: domain.LoanType(loanType)}, nil
}

func createSetDepositPercent(params map[string]string) (ScenarioTransform, error) {
	percent, err := decimalParam("set_deposit_percent", params, "percent")
	if err != nil {
		return nil, err
	}
	return &SetDepositPercent{Percent: percent}, nil
}

func createSetOffset(params map[string]string) (ScenarioTransform, error) {
	amount, err := decimalParam("set_offset", params, "amount")
	if err != nil {
		return nil, err
	}
	return &SetOffset{Amount: amount}, nil
}

func createScaleOffset(params map[string]string) (ScenarioTransform, error) {
	factor, err := decimalParam("scale_offset", params, "factor")
	if err != nil {
		return nil, err
	}
	return &ScaleOffset{Factor: factor}, nil
}

func createSetOffsetContribution(params map[string]string) (ScenarioTransform, error) {
	amount, err := decimalParam("set_offset_contribution", params, "amount")
	if err != nil {
		return nil, err
	}
	frequency := domain.FrequencyMonthly
	if f, ok := params["frequency"]; ok {
		frequency = domain.Frequency(f)
	}
	return &SetOffsetContribution{Amount: amount, Frequency: frequency}, nil
}

func createQuarantineLosses(params map[string]string) (ScenarioTransform, error) {
	start := 0
	if raw, ok := params["start_year"]; ok {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid start_year value: %w", err)
		}
		start = year
	}
	return &QuarantineLosses{StartYear: start}, nil
}

func createSetGrowthRate(params map[string]string) (ScenarioTransform, error) {
	rate, err := decimalParam("set_growth_rate", params, "rate")
	if err != nil {
		return nil, err
	}
	return &SetGrowthRate{Rate: rate}, nil
}

func createAdjustRent(params map[string]string) (ScenarioTransform, error) {
	percent, err := decimalParam("adjust_rent", params, "percent")
	if err != nil {
		return nil, err
	}
	return &AdjustRent{Percent: percent}, nil
}

func createSetWeeklyRent(params map[string]string) (ScenarioTransform, error) {
	amount, err := decimalParam("set_weekly_rent", params, "amount")
	if err != nil {
		return nil, err
	}
	return &SetWeeklyRent{Amount: amount}, nil
}
