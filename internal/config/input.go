package config

import (
	"fmt"
	"os"

	"github.com/rgehrsitz/propgo/internal/calculation"
	"github.com/rgehrsitz/propgo/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var hundred = decimal.NewFromInt(100)

// InputParser handles parsing of input configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads configuration from a YAML file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes and validates a YAML document
func (ip *InputParser) Parse(data []byte) (*domain.Configuration, error) {
	var config domain.Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	applyDefaults(&config)

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// applyDefaults fills enum fields left empty in the file
func applyDefaults(config *domain.Configuration) {
	for i := range config.Scenarios {
		p := &config.Scenarios[i].Property
		if p.LoanType == "" {
			p.LoanType = domain.LoanPrincipalAndInterest
		}
		if p.ManagementFeeType == "" {
			p.ManagementFeeType = domain.FeePercentage
		}
		if p.DepreciationMode == "" {
			p.DepreciationMode = domain.DepreciationFixed
		}
		if p.OffsetContributionFrequency == "" {
			p.OffsetContributionFrequency = domain.FrequencyMonthly
		}
		if p.LMIMode == "" {
			p.LMIMode = domain.LMIAuto
		}
		if p.LandTaxMode == "" {
			p.LandTaxMode = domain.LandTaxAuto
		}
	}
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if len(config.Scenarios) == 0 {
		return fmt.Errorf("no scenarios provided")
	}

	names := make(map[string]bool, len(config.Scenarios))
	for i := range config.Scenarios {
		scenario := &config.Scenarios[i]
		if err := ip.validateScenario(scenario); err != nil {
			return fmt.Errorf("scenario %d validation failed: %w", i, err)
		}
		if names[scenario.Name] {
			return fmt.Errorf("duplicate scenario name: %s", scenario.Name)
		}
		names[scenario.Name] = true
	}

	if config.Tax != nil {
		if err := ip.validateTax(config.Tax); err != nil {
			return fmt.Errorf("tax validation failed: %w", err)
		}
	}
	return nil
}

// validateScenario validates a single scenario
func (ip *InputParser) validateScenario(scenario *domain.Scenario) error {
	if scenario.Name == "" {
		return fmt.Errorf("scenario name is required")
	}

	p := &scenario.Property
	if p.State != "" && !p.State.IsKnown() {
		return fmt.Errorf("unknown state %q", p.State)
	}
	if p.LoanTerm < 0 || p.LoanTerm > 50 {
		return fmt.Errorf("loan term must be between 0 and 50 years")
	}
	if err := validateEnums(p); err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if err := scenario.Market.Validate(p.LoanTerm); err != nil {
		return err
	}
	if scenario.OffsetAmount.IsNegative() {
		return domain.NewValidationError("offset_amount", 0, "cannot be negative")
	}
	if scenario.ConveyancingFee.IsNegative() || scenario.BuildingAndPestFee.IsNegative() {
		return fmt.Errorf("purchase fees cannot be negative")
	}
	return nil
}

func validateEnums(p *domain.PropertyDetails) error {
	switch p.LoanType {
	case domain.LoanPrincipalAndInterest, domain.LoanInterestOnly:
	default:
		return fmt.Errorf("loan_type must be '%s' or '%s'", domain.LoanPrincipalAndInterest, domain.LoanInterestOnly)
	}
	switch p.ManagementFeeType {
	case domain.FeePercentage, domain.FeeFixed:
	default:
		return fmt.Errorf("management_fee_type must be 'percentage' or 'fixed'")
	}
	switch p.DepreciationMode {
	case domain.DepreciationFixed, domain.DepreciationManual, domain.DepreciationUploaded:
	default:
		return fmt.Errorf("depreciation_mode must be 'fixed', 'manual' or 'uploaded'")
	}
	switch p.OffsetContributionFrequency {
	case domain.FrequencyWeekly, domain.FrequencyMonthly, domain.FrequencyYearly:
	default:
		return fmt.Errorf("offset_contribution_frequency must be 'weekly', 'monthly' or 'yearly'")
	}
	switch p.LMIMode {
	case domain.LMIAuto, domain.LMIManual:
	default:
		return fmt.Errorf("lmi_mode must be 'auto' or 'manual'")
	}
	switch p.LandTaxMode {
	case domain.LandTaxAuto, domain.LandTaxManual, domain.LandTaxNone:
	default:
		return fmt.Errorf("land_tax_mode must be 'auto', 'manual' or 'none'")
	}
	return nil
}

// validateTax checks brackets are ordered and rates are sane
func (ip *InputParser) validateTax(tax *domain.TaxConfig) error {
	if tax.MedicareLevy != nil && (tax.MedicareLevy.IsNegative() || tax.MedicareLevy.GreaterThan(hundred)) {
		return fmt.Errorf("medicare levy must be between 0 and 100%%")
	}
	for i, b := range tax.Brackets {
		if b.Rate.IsNegative() || b.Rate.GreaterThan(hundred) {
			return fmt.Errorf("bracket %d: rate must be between 0 and 100%%", i)
		}
		if !b.Max.IsZero() && b.Max.LessThanOrEqual(b.Min) {
			return fmt.Errorf("bracket %d: max must exceed min", i)
		}
		if i > 0 && b.Min.LessThan(tax.Brackets[i-1].Min) {
			return fmt.Errorf("bracket %d: brackets must be in ascending order", i)
		}
	}
	return nil
}

// TaxCalculator builds the calculator described by the configuration,
// falling back to the default resident schedule
func TaxCalculator(config *domain.Configuration) *calculation.TaxCalculator {
	if config == nil || config.Tax == nil {
		return calculation.NewDefaultTaxCalculator()
	}

	var brackets []calculation.TaxBracket
	for _, b := range config.Tax.Brackets {
		brackets = append(brackets, calculation.TaxBracket{
			Min:  b.Min,
			Max:  b.Max,
			Rate: b.Rate.Div(hundred),
			Base: b.Base,
		})
	}
	levy := calculation.DefaultMedicareLevy
	if config.Tax.MedicareLevy != nil {
		levy = config.Tax.MedicareLevy.Div(hundred)
	}
	return calculation.NewTaxCalculator(brackets, levy)
}
