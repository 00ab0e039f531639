package breakeven

import (
	"fmt"

	"github.com/rgehrsitz/propgo/internal/domain"
	"github.com/shopspring/decimal"
)

// SolveTarget defines which assumption the solver varies
type SolveTarget string

const (
	TargetGrowthRate   SolveTarget = "growth_rate"   // lowest annual growth that meets the goal
	TargetWeeklyRent   SolveTarget = "weekly_rent"   // lowest weekly rent that meets the goal
	TargetInterestRate SolveTarget = "interest_rate" // highest interest rate that still meets the goal
)

// AllTargets lists every target in display order
var AllTargets = []SolveTarget{TargetGrowthRate, TargetWeeklyRent, TargetInterestRate}

// SolveGoal defines which outcome has to reach zero
type SolveGoal string

const (
	GoalNetPosition SolveGoal = "net_position" // net position at the target year >= 0
	GoalCashFlow    SolveGoal = "cash_flow"    // cash flow in the target year >= 0
)

// increasing reports whether the goal metric rises with the target value.
// Growth, rent and rate all move the metrics monotonically over their bounds.
func (t SolveTarget) increasing() bool {
	return t != TargetInterestRate
}

// Label is the human readable name of the target
func (t SolveTarget) Label() string {
	switch t {
	case TargetGrowthRate:
		return "property growth"
	case TargetWeeklyRent:
		return "weekly rent"
	case TargetInterestRate:
		return "interest rate"
	}
	return string(t)
}

// FormatValue renders a target value in its natural unit
func (t SolveTarget) FormatValue(v decimal.Decimal) string {
	if t == TargetWeeklyRent {
		return "$" + v.StringFixed(2) + "/week"
	}
	return v.StringFixed(2) + "%"
}

// DefaultBounds returns the search range for a target
func DefaultBounds(target SolveTarget) (min, max decimal.Decimal) {
	switch target {
	case TargetGrowthRate:
		return decimal.NewFromInt(-10), decimal.NewFromInt(20)
	case TargetWeeklyRent:
		return decimal.Zero, decimal.NewFromInt(5000)
	default:
		return decimal.Zero, decimal.NewFromInt(20)
	}
}

// DefaultTolerance returns the bracket width at which the search stops
func DefaultTolerance(target SolveTarget) decimal.Decimal {
	if target == TargetWeeklyRent {
		return decimal.NewFromFloat(0.5)
	}
	return decimal.NewFromFloat(0.001)
}

// SolveRequest defines the parameters for a solver run
type SolveRequest struct {
	BaseScenario  *domain.Scenario
	Target        SolveTarget
	Goal          SolveGoal
	TargetYear    int              // 0 means the final loan year
	Min           *decimal.Decimal // defaults from DefaultBounds
	Max           *decimal.Decimal
	MaxIterations int             // 0 uses the solver options
	Tolerance     decimal.Decimal // zero uses DefaultTolerance
}

// Validate checks the request is internally consistent
func (r *SolveRequest) Validate() error {
	if r.BaseScenario == nil {
		return &SolverError{Operation: "validate_request", Message: "base scenario is required"}
	}
	switch r.Target {
	case TargetGrowthRate, TargetWeeklyRent, TargetInterestRate:
	default:
		return &SolverError{Operation: "validate_request", Message: fmt.Sprintf("unsupported target: %s", r.Target)}
	}
	switch r.Goal {
	case GoalNetPosition, GoalCashFlow:
	default:
		return &SolverError{Operation: "validate_request", Message: fmt.Sprintf("unsupported goal: %s", r.Goal)}
	}
	// Maintenance scales with value, so growth never helps cash flow
	if r.Goal == GoalCashFlow && r.Target == TargetGrowthRate {
		return &SolverError{Operation: "validate_request", Message: "cash flow does not improve with property growth"}
	}

	term := r.BaseScenario.Property.LoanTerm
	if term < 1 {
		return &SolverError{Operation: "validate_request", Message: "scenario has no loan years to solve over"}
	}
	if r.TargetYear < 0 || r.TargetYear > term {
		return &SolverError{
			Operation: "validate_request",
			Message:   fmt.Sprintf("target year %d is outside the loan term 1-%d", r.TargetYear, term),
		}
	}

	min, max := r.bounds()
	if !min.LessThan(max) {
		return &SolverError{Operation: "validate_request", Message: "min bound must be below max bound"}
	}
	if r.Target == TargetWeeklyRent && min.IsNegative() {
		return &SolverError{Operation: "validate_request", Message: "weekly rent bounds cannot be negative"}
	}
	if r.Target == TargetInterestRate && (min.IsNegative() || max.Sub(r.BaseScenario.Property.InterestRate).Abs().GreaterThan(decimal.NewFromInt(20))) {
		return &SolverError{Operation: "validate_request", Message: "interest rate bounds must stay within 0 and 20 points of the base rate"}
	}
	return nil
}

func (r *SolveRequest) bounds() (decimal.Decimal, decimal.Decimal) {
	min, max := DefaultBounds(r.Target)
	if r.Min != nil {
		min = *r.Min
	}
	if r.Max != nil {
		max = *r.Max
	}
	return min, max
}

func (r *SolveRequest) year() int {
	if r.TargetYear == 0 && r.BaseScenario != nil {
		return r.BaseScenario.Property.LoanTerm
	}
	return r.TargetYear
}

// SolveResult contains the outcome of a solver run
type SolveResult struct {
	Target     SolveTarget `json:"target"`
	Goal       SolveGoal   `json:"goal"`
	TargetYear int         `json:"targetYear"`

	Success         bool   `json:"success"`
	AlreadyMet      bool   `json:"alreadyMet"` // the base assumption meets the goal
	Iterations      int    `json:"iterations"`
	ConvergenceInfo string `json:"convergenceInfo"`

	BaseValue     decimal.Decimal  `json:"baseValue"`
	BaseMetric    decimal.Decimal  `json:"baseMetric"`
	RequiredValue *decimal.Decimal `json:"requiredValue,omitempty"` // nil when no value within bounds meets the goal
	Metric        decimal.Decimal  `json:"metric"`                  // goal metric at RequiredValue

	ScenarioSummary *domain.ScenarioSummary `json:"-"`
}

// Headroom is how far the base assumption sits from the required value, in the target's
// favourable direction. Negative means the base assumption falls short.
func (r *SolveResult) Headroom() decimal.Decimal {
	if r.RequiredValue == nil {
		return decimal.Zero
	}
	if r.Target.increasing() {
		return r.BaseValue.Sub(*r.RequiredValue)
	}
	return r.RequiredValue.Sub(r.BaseValue)
}

// MultiTargetResult contains one result per target for the same goal
type MultiTargetResult struct {
	Goal            SolveGoal     `json:"goal"`
	TargetYear      int           `json:"targetYear"`
	Results         []SolveResult `json:"results"`
	Recommendations []string      `json:"recommendations"`
}

// SolverOptions configures the solver algorithm
type SolverOptions struct {
	MaxIterations int // Maximum bisection steps
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		MaxIterations: 60,
	}
}

// SolverError represents errors from the break-even solver
type SolverError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *SolverError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *SolverError) Unwrap() error {
	return e.Cause
}
