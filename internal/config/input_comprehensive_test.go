package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rgehrsitz/propgo/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
tax:
  medicare_levy: 2.0
scenarios:
  - name: "Sydney unit"
    offset_amount: 50000
    conveyancing_fee: 1500
    building_and_pest_fee: 600
    auto_purchase_costs: true
    property:
      state: NSW
      purchase_price: 750000
      deposit_amount: 75000
      interest_rate: 6.0
      interest_rate_changes:
        - year: 3
          rate: 6.5
      loan_term: 30
      weekly_rent: 750
      management_fee: 7
      taxable_income: 100000
      land_value: 400000
      offset_contribution: 250
      offset_contribution_frequency: weekly
    market:
      property_growth_rate: 3
      rent_increase_rate: 3
      operating_expenses_growth_rate: 3
      opportunity_cost_rate: 5
      property_value_corrections:
        - year: 2
          percent: -10
      current_value_year: 5
      current_property_value: 900000
    costs:
      water_cost: 1000
      rates_cost: 2000
      insurance_cost: 1500
      maintenance_percentage: 1
      future_sell_costs_percentage: 2.5
  - name: "Brisbane first home"
    property:
      state: QLD
      purchase_price: 650000
      deposit_amount: 65000
      interest_rate: 6.2
      loan_term: 25
      loan_type: interest_only
      is_ppor: true
      is_first_home_buyer: true
      is_new_home: true
      land_tax_mode: none
      precision:
        is_citizen_or_permanent_resident: true
        will_occupy_within_12_months: true
        applicant_age: 29
    market:
      property_growth_rate: 4
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewInputParser(t *testing.T) {
	parser := NewInputParser()
	assert.NotNil(t, parser, "Should create input parser")
}

func TestInputParser_LoadFromFile_FileNotFound(t *testing.T) {
	parser := NewInputParser()

	config, err := parser.LoadFromFile("nonexistent.yaml")

	assert.Error(t, err, "Should error for nonexistent file")
	assert.Nil(t, config, "Should return nil config")
	assert.Contains(t, err.Error(), "failed to read file", "Should have specific error message")
}

func TestInputParser_LoadFromFile_InvalidYAML(t *testing.T) {
	invalidFile := writeFile(t, "invalid.yaml", "invalid: yaml: content: [unclosed")

	parser := NewInputParser()
	config, err := parser.LoadFromFile(invalidFile)

	assert.Error(t, err, "Should error for invalid YAML")
	assert.Nil(t, config, "Should return nil config")
	assert.Contains(t, err.Error(), "failed to parse YAML", "Should have specific error message")
}

func TestInputParser_LoadFromFile_ValidYAML(t *testing.T) {
	parser := NewInputParser()
	config, err := parser.LoadFromFile(writeFile(t, "valid.yaml", sampleYAML))
	require.NoError(t, err)
	require.Len(t, config.Scenarios, 2)

	require.NotNil(t, config.Tax)
	require.NotNil(t, config.Tax.MedicareLevy)
	assert.True(t, config.Tax.MedicareLevy.Equal(decimal.NewFromInt(2)))

	sydney := config.Scenarios[0]
	assert.Equal(t, "Sydney unit", sydney.Name)
	assert.True(t, sydney.AutoPurchaseCosts)
	assert.True(t, sydney.OffsetAmount.Equal(decimal.NewFromInt(50000)))
	assert.Equal(t, domain.StateNSW, sydney.Property.State)
	assert.True(t, sydney.Property.PurchasePrice.Equal(decimal.NewFromInt(750000)))
	assert.Equal(t, 30, sydney.Property.LoanTerm)
	require.Len(t, sydney.Property.InterestRateChanges, 1)
	assert.True(t, sydney.Property.InterestRateChanges[0].Rate.Equal(decimal.NewFromFloat(6.5)))
	assert.Equal(t, domain.FrequencyWeekly, sydney.Property.OffsetContributionFrequency)
	require.Len(t, sydney.Market.PropertyValueCorrections, 1)
	assert.True(t, sydney.Market.PropertyValueCorrections[0].Percent.Equal(decimal.NewFromInt(-10)))
	require.True(t, sydney.Market.HasValuationAnchor())
	assert.Equal(t, 5, *sydney.Market.CurrentValueYear)
	assert.True(t, sydney.Costs.FutureSellCostsPercentage.Equal(decimal.NewFromFloat(2.5)))

	brisbane := config.Scenarios[1]
	assert.Equal(t, domain.LoanInterestOnly, brisbane.Property.LoanType)
	assert.True(t, brisbane.Property.IsPPOR)
	assert.Equal(t, domain.LandTaxNone, brisbane.Property.LandTaxMode)
	require.NotNil(t, brisbane.Property.Precision)
	assert.Equal(t, 29, brisbane.Property.Precision.ApplicantAge)
}

func TestInputParser_LoadFromFile_AppliesDefaults(t *testing.T) {
	parser := NewInputParser()
	config, err := parser.LoadFromFile(writeFile(t, "valid.yaml", sampleYAML))
	require.NoError(t, err)

	p := config.Scenarios[0].Property
	assert.Equal(t, domain.LoanPrincipalAndInterest, p.LoanType)
	assert.Equal(t, domain.FeePercentage, p.ManagementFeeType)
	assert.Equal(t, domain.DepreciationFixed, p.DepreciationMode)
	assert.Equal(t, domain.LMIAuto, p.LMIMode)
	assert.Equal(t, domain.LandTaxAuto, p.LandTaxMode)
	assert.Equal(t, domain.FrequencyMonthly, config.Scenarios[1].Property.OffsetContributionFrequency)
}

func TestInputParser_LoadFromFile_ValidationFailure(t *testing.T) {
	yaml := `
scenarios:
  - name: "bad"
    property:
      state: VIC
      purchase_price: 500000
      deposit_amount: 50000
      loan_term: 10
      interest_rate_changes:
        - year: 12
          rate: 7
`
	config, err := NewInputParser().LoadFromFile(writeFile(t, "bad.yaml", yaml))
	assert.Nil(t, config)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")
	assert.Contains(t, err.Error(), "year 12 is outside the loan term 1-10")
}

func TestConfiguration_ScenarioByName(t *testing.T) {
	config, err := NewInputParser().Parse([]byte(sampleYAML))
	require.NoError(t, err)

	s, ok := config.ScenarioByName("Brisbane first home")
	require.True(t, ok)
	assert.Equal(t, domain.StateQLD, s.Property.State)

	_, ok = config.ScenarioByName("Perth")
	assert.False(t, ok)
}
