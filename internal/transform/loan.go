package transform

import (
	"fmt"

	"github.com/rgehrsitz/propgo/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// AdjustInterestRate shifts the starting rate and every scheduled rate change by Delta
// percentage points. Rates never go below zero.
type AdjustInterestRate struct {
	Delta decimal.Decimal // percentage points, e.g. 2 for +2%
}

func (ar *AdjustInterestRate) Name() string {
	return "adjust_interest_rate"
}

func (ar *AdjustInterestRate) Description() string {
	sign := "+"
	if ar.Delta.IsNegative() {
		sign = ""
	}
	return fmt.Sprintf("Shift interest rates by %s%s percentage points", sign, ar.Delta.StringFixed(2))
}

func (ar *AdjustInterestRate) Validate(base *domain.Scenario) error {
	if base == nil {
		return NewTransformError(ar.Name(), "validate", "base scenario cannot be nil", nil)
	}
	if ar.Delta.Abs().GreaterThan(decimal.NewFromInt(20)) {
		return NewTransformError(ar.Name(), "validate", fmt.Sprintf("delta must be within 20 points, got %s", ar.Delta), nil)
	}
	return nil
}

func (ar *AdjustInterestRate) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified, err := clone(ar.Name(), base)
	if err != nil {
		return nil, err
	}

	p := &modified.Property
	p.InterestRate = decimal.Max(decimal.Zero, p.InterestRate.Add(ar.Delta))
	for i := range p.InterestRateChanges {
		p.InterestRateChanges[i].Rate = decimal.Max(decimal.Zero, p.InterestRateChanges[i].Rate.Add(ar.Delta))
	}
	return modified, nil
}

// SetLoanType switches between principal and interest and interest-only repayments
type SetLoanType struct {
	LoanType domain.LoanType
}

func (sl *SetLoanType) Name() string {
	return "set_loan_type"
}

func (sl *SetLoanType) Description() string {
	return fmt.Sprintf("Switch the loan to %s repayments", sl.LoanType)
}

func (sl *SetLoanType) Validate(base *domain.Scenario) error {
	if base == nil {
		return NewTransformError(sl.Name(), "validate", "base scenario cannot be nil", nil)
	}
	if sl.LoanType != domain.LoanPrincipalAndInterest && sl.LoanType != domain.LoanInterestOnly {
		return NewTransformError(sl.Name(), "validate", fmt.Sprintf("unknown loan type %q", sl.LoanType), nil)
	}
	return nil
}

func (sl *SetLoanType) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified, err := clone(sl.Name(), base)
	if err != nil {
		return nil, err
	}
	modified.Property.LoanType = sl.LoanType
	return modified, nil
}

// SetDepositPercent sets the deposit to a percentage of the purchase price
type SetDepositPercent struct {
	Percent decimal.Decimal // 20 for a 20% deposit
}

func (sd *SetDepositPercent) Name() string {
	return "set_deposit_percent"
}

func (sd *SetDepositPercent) Description() string {
	return fmt.Sprintf("Set the deposit to %s%% of the purchase price", sd.Percent.StringFixed(1))
}

func (sd *SetDepositPercent) Validate(base *domain.Scenario) error {
	if base == nil {
		return NewTransformError(sd.Name(), "validate", "base scenario cannot be nil", nil)
	}
	if sd.Percent.IsNegative() || sd.Percent.GreaterThan(hundred) {
		return NewTransformError(sd.Name(), "validate", fmt.Sprintf("percent must be between 0 and 100, got %s", sd.Percent), nil)
	}
	return nil
}

func (sd *SetDepositPercent) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified, err := clone(sd.Name(), base)
	if err != nil {
		return nil, err
	}
	p := &modified.Property
	p.DepositAmount = p.PurchasePrice.Mul(sd.Percent).Div(hundred).Round(2)
	return modified, nil
}
