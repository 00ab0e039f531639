package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/propgo/internal/domain"
)

// SolveAllTargets runs the solver for every target compatible with the goal and collects
// the results with plain-language recommendations
func (s *Solver) SolveAllTargets(
	ctx context.Context,
	baseScenario *domain.Scenario,
	goal SolveGoal,
	targetYear int,
) (*MultiTargetResult, error) {

	multi := &MultiTargetResult{Goal: goal}

	for _, target := range AllTargets {
		if goal == GoalCashFlow && target == TargetGrowthRate {
			continue
		}

		result, err := s.Solve(ctx, SolveRequest{
			BaseScenario: baseScenario,
			Target:       target,
			Goal:         goal,
			TargetYear:   targetYear,
		})
		if err != nil {
			return nil, &SolverError{
				Operation: "solve_all_targets",
				Message:   fmt.Sprintf("solving for %s", target),
				Cause:     err,
			}
		}
		multi.TargetYear = result.TargetYear
		multi.Results = append(multi.Results, *result)
	}

	multi.Recommendations = generateRecommendations(multi)
	return multi, nil
}

func goalPhrase(goal SolveGoal, year int) string {
	if goal == GoalCashFlow {
		return fmt.Sprintf("a non-negative cash flow in year %d", year)
	}
	return fmt.Sprintf("break-even by year %d", year)
}

// generateRecommendations describes each result relative to the base assumption
func generateRecommendations(multi *MultiTargetResult) []string {
	recommendations := []string{}
	goal := goalPhrase(multi.Goal, multi.TargetYear)

	for _, r := range multi.Results {
		if !r.Success {
			recommendations = append(recommendations,
				fmt.Sprintf("No %s within the search range gives %s", r.Target.Label(), goal))
			continue
		}

		required := r.Target.FormatValue(*r.RequiredValue)
		assumed := r.Target.FormatValue(r.BaseValue)

		var rec string
		switch {
		case r.Target.increasing() && r.AlreadyMet:
			rec = fmt.Sprintf("%s could fall to %s and still give %s (assumed %s)",
				capitalise(r.Target.Label()), required, goal, assumed)
		case r.Target.increasing():
			rec = fmt.Sprintf("%s of at least %s is needed for %s (assumed %s)",
				capitalise(r.Target.Label()), required, goal, assumed)
		case r.AlreadyMet:
			rec = fmt.Sprintf("Rates could rise to %s and still give %s (assumed %s)", required, goal, assumed)
		default:
			rec = fmt.Sprintf("Rates would need to fall to %s for %s (assumed %s)", required, goal, assumed)
		}
		recommendations = append(recommendations, rec)
	}

	return recommendations
}

func capitalise(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
