package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/propgo/internal/calculation"
	"github.com/rgehrsitz/propgo/internal/domain"
	"github.com/rgehrsitz/propgo/internal/transform"
	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)

// Solver finds the assumption value at which a scenario breaks even
type Solver struct {
	CalcEngine *calculation.CalculationEngine
	Options    SolverOptions
}

// NewSolver creates a new break-even solver
func NewSolver(calcEngine *calculation.CalculationEngine, options SolverOptions) *Solver {
	return &Solver{
		CalcEngine: calcEngine,
		Options:    options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(calcEngine *calculation.CalculationEngine) *Solver {
	return NewSolver(calcEngine, DefaultSolverOptions())
}

// evaluation is one projection at a trial value
type evaluation struct {
	value   decimal.Decimal
	metric  decimal.Decimal
	summary *domain.ScenarioSummary
}

func (e evaluation) meetsGoal() bool {
	return !e.metric.IsNegative()
}

// Solve bisects the target's bounds for the boundary value where the goal metric turns
// non-negative. The metric is monotone in every supported target.
func (s *Solver) Solve(ctx context.Context, req SolveRequest) (*SolveResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.MaxIterations == 0 {
		req.MaxIterations = s.Options.MaxIterations
	}
	if req.Tolerance.IsZero() {
		req.Tolerance = DefaultTolerance(req.Target)
	}
	lo, hi := req.bounds()

	result := &SolveResult{
		Target:     req.Target,
		Goal:       req.Goal,
		TargetYear: req.year(),
		BaseValue:  baseValue(req.BaseScenario, req.Target),
	}

	base, err := s.evaluate(ctx, req, result.BaseValue)
	if err != nil {
		return nil, err
	}
	result.BaseMetric = base.metric
	result.AlreadyMet = base.meetsGoal()

	// good is the bound where the goal is easiest to meet, bad the other one
	goodValue, badValue := hi, lo
	if !req.Target.increasing() {
		goodValue, badValue = lo, hi
	}

	good, err := s.evaluate(ctx, req, goodValue)
	if err != nil {
		return nil, err
	}
	result.Iterations = 1
	if !good.meetsGoal() {
		result.ConvergenceInfo = fmt.Sprintf("goal not reachable: %s of %s still misses it",
			req.Target.Label(), req.Target.FormatValue(goodValue))
		result.Metric = good.metric
		result.ScenarioSummary = good.summary
		return result, nil
	}

	bad, err := s.evaluate(ctx, req, badValue)
	if err != nil {
		return nil, err
	}
	result.Iterations++
	if bad.meetsGoal() {
		result.finish(bad, "goal met across the whole search range")
		return result, nil
	}

	for result.Iterations < req.MaxIterations {
		if good.value.Sub(bad.value).Abs().LessThanOrEqual(req.Tolerance) {
			result.finish(good, fmt.Sprintf("converged within %s", req.Tolerance.String()))
			return result, nil
		}

		mid, err := s.evaluate(ctx, req, good.value.Add(bad.value).Div(two))
		if err != nil {
			return nil, err
		}
		result.Iterations++

		if mid.meetsGoal() {
			good = mid
		} else {
			bad = mid
		}
	}

	result.finish(good, fmt.Sprintf("max iterations (%d) reached", req.MaxIterations))
	return result, nil
}

func (r *SolveResult) finish(e evaluation, info string) {
	value := e.value
	r.Success = true
	r.RequiredValue = &value
	r.Metric = e.metric
	r.ScenarioSummary = e.summary
	r.ConvergenceInfo = info
}

// evaluate projects the base scenario with the target set to value
func (s *Solver) evaluate(ctx context.Context, req SolveRequest, value decimal.Decimal) (evaluation, error) {
	select {
	case <-ctx.Done():
		return evaluation{}, ctx.Err()
	default:
	}

	modified, err := transform.ApplyTransforms(req.BaseScenario, []transform.ScenarioTransform{
		targetTransform(req.BaseScenario, req.Target, value),
	})
	if err != nil {
		return evaluation{}, &SolverError{
			Operation: "solve_" + string(req.Target),
			Message:   "failed to apply transform",
			Cause:     err,
		}
	}

	summary, err := s.CalcEngine.RunScenario(ctx, modified)
	if err != nil {
		return evaluation{}, &SolverError{
			Operation: "solve_" + string(req.Target),
			Message:   fmt.Sprintf("failed to calculate scenario at %s", req.Target.FormatValue(value)),
			Cause:     err,
		}
	}

	row := summary.Results.ProjectionForYear(req.year())
	if row == nil {
		return evaluation{}, &SolverError{
			Operation: "solve_" + string(req.Target),
			Message:   fmt.Sprintf("projection has no year %d", req.year()),
		}
	}

	metric := row.NetPosition
	if req.Goal == GoalCashFlow {
		metric = row.CashFlow
	}
	return evaluation{value: value, metric: metric, summary: summary}, nil
}

// targetTransform builds the transform that sets the target to value
func targetTransform(base *domain.Scenario, target SolveTarget, value decimal.Decimal) transform.ScenarioTransform {
	switch target {
	case TargetGrowthRate:
		return &transform.SetGrowthRate{Rate: value}
	case TargetWeeklyRent:
		return &transform.SetWeeklyRent{Amount: value}
	default:
		// Scheduled changes move with the starting rate
		return &transform.AdjustInterestRate{Delta: value.Sub(base.Property.InterestRate)}
	}
}

func baseValue(base *domain.Scenario, target SolveTarget) decimal.Decimal {
	switch target {
	case TargetGrowthRate:
		return base.Market.PropertyGrowthRate
	case TargetWeeklyRent:
		return base.Property.WeeklyRent
	default:
		return base.Property.InterestRate
	}
}
