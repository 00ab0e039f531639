package transform

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/propgo/internal/domain"
)

// ScenarioTransform is one what-if edit to a property scenario: a rate rise, a bigger
// deposit, a different loan type. Implementations never modify the scenario they are given.
type ScenarioTransform interface {
	// Apply returns an edited copy of base.
	Apply(base *domain.Scenario) (*domain.Scenario, error)

	// Name is the registry key, e.g. "adjust_interest_rate".
	Name() string

	Description() string

	// Validate rejects parameters that would produce an unprojectable scenario.
	Validate(base *domain.Scenario) error
}

// ApplyTransforms runs transforms left to right, each seeing the previous result.
// With no transforms it returns a copy of base.
func ApplyTransforms(base *domain.Scenario, transforms []ScenarioTransform) (*domain.Scenario, error) {
	if base == nil {
		return nil, fmt.Errorf("base scenario cannot be nil")
	}

	current := base
	for i, t := range transforms {
		if t == nil {
			return nil, fmt.Errorf("transform at index %d is nil", i)
		}
		if err := t.Validate(current); err != nil {
			return nil, fmt.Errorf("transform %s validation failed: %w", t.Name(), err)
		}
		next, err := t.Apply(current)
		if err != nil {
			return nil, fmt.Errorf("transform %s failed: %w", t.Name(), err)
		}
		current = next
	}

	if current == base {
		c := base.Clone()
		return &c, nil
	}
	return current, nil
}

// Describe joins the descriptions of a transform chain for report headers
func Describe(transforms []ScenarioTransform) string {
	parts := make([]string, 0, len(transforms))
	for _, t := range transforms {
		if t != nil {
			parts = append(parts, t.Description())
		}
	}
	return strings.Join(parts, "; ")
}

// TransformError carries the transform and step ("validate" or "apply") that failed
type TransformError struct {
	TransformName string
	Operation     string
	Reason        string
	Err           error
}

func (e *TransformError) Error() string {
	msg := fmt.Sprintf("transform %s (%s): %s", e.TransformName, e.Operation, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// NewTransformError creates a new TransformError.
func NewTransformError(transformName, operation, reason string, err error) error {
	return &TransformError{
		TransformName: transformName,
		Operation:     operation,
		Reason:        reason,
		Err:           err,
	}
}

// clone copies base after a nil check shared by every transform
func clone(name string, base *domain.Scenario) (*domain.Scenario, error) {
	if base == nil {
		return nil, NewTransformError(name, "apply", "base scenario cannot be nil", nil)
	}
	modified := base.Clone()
	return &modified, nil
}
