package transform

import (
	"fmt"

	"github.com/rgehrsitz/propgo/internal/domain"
	"github.com/shopspring/decimal"
)

// SetOffset replaces the opening offset balance. A manual override on the property is cleared
// so the new amount takes effect.
type SetOffset struct {
	Amount decimal.Decimal
}

func (so *SetOffset) Name() string {
	return "set_offset"
}

func (so *SetOffset) Description() string {
	return fmt.Sprintf("Set the offset balance to $%s", so.Amount.StringFixed(0))
}

func (so *SetOffset) Validate(base *domain.Scenario) error {
	if base == nil {
		return NewTransformError(so.Name(), "validate", "base scenario cannot be nil", nil)
	}
	if so.Amount.IsNegative() {
		return NewTransformError(so.Name(), "validate", "offset amount cannot be negative", nil)
	}
	return nil
}

func (so *SetOffset) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified, err := clone(so.Name(), base)
	if err != nil {
		return nil, err
	}
	modified.OffsetAmount = so.Amount
	modified.Property.ManualOffsetAmount = nil
	return modified, nil
}

// ScaleOffset multiplies the effective opening offset balance
type ScaleOffset struct {
	Factor decimal.Decimal
}

func (so *ScaleOffset) Name() string {
	return "scale_offset"
}

func (so *ScaleOffset) Description() string {
	return fmt.Sprintf("Scale the offset balance by %sx", so.Factor.String())
}

func (so *ScaleOffset) Validate(base *domain.Scenario) error {
	if base == nil {
		return NewTransformError(so.Name(), "validate", "base scenario cannot be nil", nil)
	}
	if so.Factor.IsNegative() {
		return NewTransformError(so.Name(), "validate", "factor cannot be negative", nil)
	}
	return nil
}

func (so *ScaleOffset) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified, err := clone(so.Name(), base)
	if err != nil {
		return nil, err
	}
	current := modified.Property.InitialOffset(modified.OffsetAmount)
	modified.OffsetAmount = current.Mul(so.Factor)
	modified.Property.ManualOffsetAmount = nil
	return modified, nil
}

// SetOffsetContribution sets the regular deposit into the offset account
type SetOffsetContribution struct {
	Amount    decimal.Decimal
	Frequency domain.Frequency
}

func (sc *SetOffsetContribution) Name() string {
	return "set_offset_contribution"
}

func (sc *SetOffsetContribution) Description() string {
	return fmt.Sprintf("Contribute $%s %s to the offset account", sc.Amount.StringFixed(0), sc.Frequency)
}

func (sc *SetOffsetContribution) Validate(base *domain.Scenario) error {
	if base == nil {
		return NewTransformError(sc.Name(), "validate", "base scenario cannot be nil", nil)
	}
	if sc.Amount.IsNegative() {
		return NewTransformError(sc.Name(), "validate", "contribution cannot be negative", nil)
	}
	switch sc.Frequency {
	case domain.FrequencyWeekly, domain.FrequencyMonthly, domain.FrequencyYearly:
	default:
		return NewTransformError(sc.Name(), "validate", fmt.Sprintf("unknown frequency %q", sc.Frequency), nil)
	}
	return nil
}

func (sc *SetOffsetContribution) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified, err := clone(sc.Name(), base)
	if err != nil {
		return nil, err
	}
	modified.Property.OffsetContribution = sc.Amount
	modified.Property.OffsetContributionFrequency = sc.Frequency
	return modified, nil
}
