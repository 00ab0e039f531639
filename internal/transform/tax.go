package transform

import (
	"fmt"

	"github.com/rgehrsitz/propgo/internal/domain"
)

// QuarantineLosses models the loss of negative gearing: losses from StartYear onward are
// carried forward against future property income instead of reducing other income.
type QuarantineLosses struct {
	StartYear int // 0 or 1 quarantines from the first year
}

func (ql *QuarantineLosses) Name() string {
	return "quarantine_losses"
}

func (ql *QuarantineLosses) Description() string {
	if ql.StartYear > 1 {
		return fmt.Sprintf("Quarantine rental losses from year %d", ql.StartYear)
	}
	return "Quarantine rental losses (no negative gearing)"
}

func (ql *QuarantineLosses) Validate(base *domain.Scenario) error {
	if base == nil {
		return NewTransformError(ql.Name(), "validate", "base scenario cannot be nil", nil)
	}
	if ql.StartYear < 0 || (base.Property.LoanTerm > 0 && ql.StartYear > base.Property.LoanTerm) {
		return NewTransformError(ql.Name(), "validate",
			fmt.Sprintf("start year %d is outside the loan term 1-%d", ql.StartYear, base.Property.LoanTerm), nil)
	}
	return nil
}

func (ql *QuarantineLosses) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified, err := clone(ql.Name(), base)
	if err != nil {
		return nil, err
	}
	modified.Property.NoNegativeGearing = true
	modified.Property.NegativeGearingStartYear = ql.StartYear
	return modified, nil
}

// OwnerOccupier turns the property into the buyer's home: rent becomes rent saved,
// there is no negative gearing and no CGT.
type OwnerOccupier struct{}

func (oo *OwnerOccupier) Name() string {
	return "owner_occupier"
}

func (oo *OwnerOccupier) Description() string {
	return "Live in the property instead of renting it out"
}

func (oo *OwnerOccupier) Validate(base *domain.Scenario) error {
	if base == nil {
		return NewTransformError(oo.Name(), "validate", "base scenario cannot be nil", nil)
	}
	return nil
}

func (oo *OwnerOccupier) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified, err := clone(oo.Name(), base)
	if err != nil {
		return nil, err
	}
	p := &modified.Property
	p.IsPPOR = true
	p.IsCGTExempt = true
	p.NoNegativeGearing = false
	p.NegativeGearingStartYear = 0
	return modified, nil
}
