package transform

import (
	"errors"
	"strings"
	"testing"

	"github.com/rgehrsitz/propgo/internal/domain"
	"github.com/shopspring/decimal"
)

// Helper function to create a basic test scenario
func createTestScenario() *domain.Scenario {
	return &domain.Scenario{
		Name:         "Base",
		OffsetAmount: decimal.NewFromInt(50000),
		Property: domain.PropertyDetails{
			State:               domain.StateNSW,
			PurchasePrice:       decimal.NewFromInt(750000),
			DepositAmount:       decimal.NewFromInt(75000),
			InterestRate:        decimal.NewFromInt(6),
			InterestRateChanges: []domain.RateChange{{Year: 5, Rate: decimal.NewFromFloat(5.5)}},
			LoanTerm:            30,
			LoanType:            domain.LoanPrincipalAndInterest,
			WeeklyRent:          decimal.NewFromInt(750),
		},
		Market: domain.MarketData{
			PropertyGrowthRate: decimal.NewFromInt(3),
		},
	}
}

func TestApplyTransforms_NilScenario(t *testing.T) {
	transforms := []ScenarioTransform{
		&AdjustInterestRate{Delta: decimal.NewFromInt(1)},
	}

	_, err := ApplyTransforms(nil, transforms)
	if err == nil {
		t.Error("Expected error for nil scenario, got nil")
	}
}

func TestApplyTransforms_EmptyTransforms(t *testing.T) {
	base := createTestScenario()

	result, err := ApplyTransforms(base, nil)
	if err != nil {
		t.Fatalf("Expected no error for empty transforms, got: %v", err)
	}
	if result == base {
		t.Error("Expected a copy, got the base pointer")
	}
	if result.Name != base.Name {
		t.Errorf("Expected name %s, got %s", base.Name, result.Name)
	}
}

func TestDescribe(t *testing.T) {
	got := Describe([]ScenarioTransform{
		&AdjustInterestRate{Delta: decimal.NewFromInt(1)},
		nil,
		&SetOffset{Amount: decimal.NewFromInt(10000)},
	})
	want := (&AdjustInterestRate{Delta: decimal.NewFromInt(1)}).Description() + "; " +
		(&SetOffset{Amount: decimal.NewFromInt(10000)}).Description()
	if got != want {
		t.Errorf("Describe() = %q, want %q", got, want)
	}
	if Describe(nil) != "" {
		t.Error("Expected an empty description for no transforms")
	}
}

func TestApplyTransforms_NilTransform(t *testing.T) {
	_, err := ApplyTransforms(createTestScenario(), []ScenarioTransform{nil})
	if err == nil || !strings.Contains(err.Error(), "index 0 is nil") {
		t.Errorf("Expected nil transform error, got %v", err)
	}
}

func TestApplyTransforms_Chained(t *testing.T) {
	base := createTestScenario()
	result, err := ApplyTransforms(base, []ScenarioTransform{
		&AdjustInterestRate{Delta: decimal.NewFromInt(2)},
		&SetLoanType{LoanType: domain.LoanInterestOnly},
		&SetOffset{Amount: decimal.NewFromInt(10000)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Property.InterestRate.Equal(decimal.NewFromInt(8)) {
		t.Errorf("Expected rate 8, got %s", result.Property.InterestRate)
	}
	if !result.Property.InterestRateChanges[0].Rate.Equal(decimal.NewFromFloat(7.5)) {
		t.Errorf("Expected scheduled rate 7.5, got %s", result.Property.InterestRateChanges[0].Rate)
	}
	if result.Property.LoanType != domain.LoanInterestOnly {
		t.Errorf("Expected interest only, got %s", result.Property.LoanType)
	}
	if !result.OffsetAmount.Equal(decimal.NewFromInt(10000)) {
		t.Errorf("Expected offset 10000, got %s", result.OffsetAmount)
	}

	// Base must be untouched, schedules included
	if !base.Property.InterestRate.Equal(decimal.NewFromInt(6)) {
		t.Errorf("Base rate was modified: %s", base.Property.InterestRate)
	}
	if !base.Property.InterestRateChanges[0].Rate.Equal(decimal.NewFromFloat(5.5)) {
		t.Errorf("Base rate schedule was modified: %s", base.Property.InterestRateChanges[0].Rate)
	}
}

func TestApplyTransforms_ValidationFailure(t *testing.T) {
	_, err := ApplyTransforms(createTestScenario(), []ScenarioTransform{
		&SetDepositPercent{Percent: decimal.NewFromInt(120)},
	})
	if err == nil {
		t.Fatal("Expected validation error")
	}

	var te *TransformError
	if !errors.As(err, &te) {
		t.Fatalf("Expected TransformError in chain, got %T", err)
	}
	if te.TransformName != "set_deposit_percent" || te.Operation != "validate" {
		t.Errorf("unexpected error details: %+v", te)
	}
}

func TestAdjustInterestRate_FloorsAtZero(t *testing.T) {
	result, err := ApplyTransforms(createTestScenario(), []ScenarioTransform{
		&AdjustInterestRate{Delta: decimal.NewFromInt(-10)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Property.InterestRate.IsZero() {
		t.Errorf("Expected rate floored at 0, got %s", result.Property.InterestRate)
	}
}

func TestSetDepositPercent(t *testing.T) {
	result, err := ApplyTransforms(createTestScenario(), []ScenarioTransform{
		&SetDepositPercent{Percent: decimal.NewFromInt(20)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Property.DepositAmount.Equal(decimal.NewFromInt(150000)) {
		t.Errorf("Expected deposit 150000, got %s", result.Property.DepositAmount)
	}
}

func TestScaleOffset_UsesManualOverride(t *testing.T) {
	base := createTestScenario()
	manual := decimal.NewFromInt(20000)
	base.Property.ManualOffsetAmount = &manual

	result, err := ApplyTransforms(base, []ScenarioTransform{&ScaleOffset{Factor: decimal.NewFromInt(2)}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.OffsetAmount.Equal(decimal.NewFromInt(40000)) {
		t.Errorf("Expected offset 40000, got %s", result.OffsetAmount)
	}
	if result.Property.ManualOffsetAmount != nil {
		t.Error("Expected manual override cleared")
	}
	if base.Property.ManualOffsetAmount == nil || !base.Property.ManualOffsetAmount.Equal(manual) {
		t.Error("Base manual override was modified")
	}
}

func TestSetOffsetContribution_Validate(t *testing.T) {
	tr := &SetOffsetContribution{Amount: decimal.NewFromInt(100), Frequency: "fortnightly"}
	if err := tr.Validate(createTestScenario()); err == nil {
		t.Error("Expected unknown frequency to fail validation")
	}
	tr.Frequency = domain.FrequencyWeekly
	if err := tr.Validate(createTestScenario()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestQuarantineLosses(t *testing.T) {
	tr := &QuarantineLosses{StartYear: 31}
	if err := tr.Validate(createTestScenario()); err == nil {
		t.Error("Expected start year beyond the term to fail")
	}

	tr.StartYear = 3
	result, err := tr.Apply(createTestScenario())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Property.NoNegativeGearing || result.Property.NegativeGearingStartYear != 3 {
		t.Errorf("Expected quarantine from year 3, got %+v", result.Property)
	}
	if !strings.Contains(tr.Description(), "year 3") {
		t.Errorf("unexpected description: %s", tr.Description())
	}
}

func TestOwnerOccupier(t *testing.T) {
	base := createTestScenario()
	base.Property.NoNegativeGearing = true

	result, err := (&OwnerOccupier{}).Apply(base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Property.IsPPOR || !result.Property.IsCGTExempt {
		t.Error("Expected owner-occupied and CGT exempt")
	}
	if result.Property.NoNegativeGearing {
		t.Error("Expected quarantine switched off")
	}
}

func TestMarketTransforms(t *testing.T) {
	base := createTestScenario()

	result, err := ApplyTransforms(base, []ScenarioTransform{
		&SetGrowthRate{Rate: decimal.NewFromFloat(4.5)},
		&AdjustRent{Percent: decimal.NewFromInt(10)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Market.PropertyGrowthRate.Equal(decimal.NewFromFloat(4.5)) {
		t.Errorf("Expected growth 4.5, got %s", result.Market.PropertyGrowthRate)
	}
	if !result.Property.WeeklyRent.Equal(decimal.NewFromInt(825)) {
		t.Errorf("Expected rent 825, got %s", result.Property.WeeklyRent)
	}

	if err := (&SetGrowthRate{Rate: decimal.NewFromInt(-100)}).Validate(base); err == nil {
		t.Error("Expected -100% growth to fail validation")
	}
	if err := (&SetWeeklyRent{Amount: decimal.NewFromInt(-1)}).Validate(base); err == nil {
		t.Error("Expected negative rent to fail validation")
	}
}

func TestTransformError_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	err := NewTransformError("set_offset", "apply", "failed", inner)
	if !errors.Is(err, inner) {
		t.Error("Expected errors.Is to find the wrapped error")
	}
	if err.Error() != "transform set_offset (apply): failed: boom" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestTransformRegistry(t *testing.T) {
	registry := NewTransformRegistry()

	tests := []struct {
		spec     string
		wantName string
		wantErr  bool
	}{
		{"adjust_interest_rate:delta=1.5", "adjust_interest_rate", false},
		{"set_loan_type:type=interest_only", "set_loan_type", false},
		{"set_offset:amount=0", "set_offset", false},
		{"set_offset_contribution:amount=500,frequency=weekly", "set_offset_contribution", false},
		{"quarantine_losses", "quarantine_losses", false},
		{"quarantine_losses:start_year=4", "quarantine_losses", false},
		{"owner_occupier", "owner_occupier", false},
		{"set_growth_rate:rate=abc", "", true},
		{"set_weekly_rent", "", true},
		{"unknown:x=1", "", true},
		{"adjust_rent:percent", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			tr, err := registry.ParseTransformSpec(tt.spec)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for %s", tt.spec)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tr.Name() != tt.wantName {
				t.Errorf("Expected %s, got %s", tt.wantName, tr.Name())
			}
		})
	}

	names := registry.List()
	if len(names) != 11 || names[0] != "adjust_interest_rate" {
		t.Errorf("unexpected registry listing: %v", names)
	}
}
