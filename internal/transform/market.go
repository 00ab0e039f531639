package transform

import (
	"fmt"

	"github.com/rgehrsitz/propgo/internal/domain"
	"github.com/shopspring/decimal"
)

// SetGrowthRate replaces the annual property growth assumption
type SetGrowthRate struct {
	Rate decimal.Decimal // percent
}

func (sg *SetGrowthRate) Name() string {
	return "set_growth_rate"
}

func (sg *SetGrowthRate) Description() string {
	return fmt.Sprintf("Set property growth to %s%% a year", sg.Rate.StringFixed(2))
}

func (sg *SetGrowthRate) Validate(base *domain.Scenario) error {
	if base == nil {
		return NewTransformError(sg.Name(), "validate", "base scenario cannot be nil", nil)
	}
	if sg.Rate.LessThanOrEqual(hundred.Neg()) {
		return NewTransformError(sg.Name(), "validate", fmt.Sprintf("growth rate must exceed -100%%, got %s", sg.Rate), nil)
	}
	return nil
}

func (sg *SetGrowthRate) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified, err := clone(sg.Name(), base)
	if err != nil {
		return nil, err
	}
	modified.Market.PropertyGrowthRate = sg.Rate
	return modified, nil
}

// AdjustRent scales the weekly rent by a percentage
type AdjustRent struct {
	Percent decimal.Decimal // 10 raises rent by 10%
}

func (ar *AdjustRent) Name() string {
	return "adjust_rent"
}

func (ar *AdjustRent) Description() string {
	return fmt.Sprintf("Change weekly rent by %s%%", ar.Percent.StringFixed(1))
}

func (ar *AdjustRent) Validate(base *domain.Scenario) error {
	if base == nil {
		return NewTransformError(ar.Name(), "validate", "base scenario cannot be nil", nil)
	}
	if ar.Percent.LessThan(hundred.Neg()) {
		return NewTransformError(ar.Name(), "validate", "rent cannot fall by more than 100%", nil)
	}
	return nil
}

func (ar *AdjustRent) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified, err := clone(ar.Name(), base)
	if err != nil {
		return nil, err
	}
	factor := decimal.NewFromInt(1).Add(ar.Percent.Div(hundred))
	modified.Property.WeeklyRent = modified.Property.WeeklyRent.Mul(factor).Round(2)
	return modified, nil
}

// SetWeeklyRent replaces the weekly rent
type SetWeeklyRent struct {
	Amount decimal.Decimal
}

func (sr *SetWeeklyRent) Name() string {
	return "set_weekly_rent"
}

func (sr *SetWeeklyRent) Description() string {
	return fmt.Sprintf("Set weekly rent to $%s", sr.Amount.StringFixed(2))
}

func (sr *SetWeeklyRent) Validate(base *domain.Scenario) error {
	if base == nil {
		return NewTransformError(sr.Name(), "validate", "base scenario cannot be nil", nil)
	}
	if sr.Amount.IsNegative() {
		return NewTransformError(sr.Name(), "validate", "weekly rent cannot be negative", nil)
	}
	return nil
}

func (sr *SetWeeklyRent) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified, err := clone(sr.Name(), base)
	if err != nil {
		return nil, err
	}
	modified.Property.WeeklyRent = sr.Amount
	return modified, nil
}
