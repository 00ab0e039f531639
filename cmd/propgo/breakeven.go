package main

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/propgo/internal/breakeven"
	"github.com/spf13/cobra"
)

func newBreakEvenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "break-even [input-file]",
		Short: "Find the growth, rent or rate at which a scenario breaks even",
		Long: `Search for the boundary value of one assumption at which the scenario's net
position (or cash flow) reaches zero by the target year.

Targets: growth_rate, weekly_rent, interest_rate
Goals:   net_position, cash_flow

Examples:
  propgo break-even scenarios.yaml --target growth_rate --year 10
  propgo break-even scenarios.yaml --goal cash_flow --year 1 --all
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, engine, err := loadEngine(cmd, args[0])
			if err != nil {
				return err
			}

			name, _ := cmd.Flags().GetString("scenario")
			scenario := &cfg.Scenarios[0]
			if name != "" {
				var ok bool
				if scenario, ok = cfg.ScenarioByName(name); !ok {
					return fmt.Errorf("scenario %s not found in configuration", name)
				}
			}

			target, _ := cmd.Flags().GetString("target")
			goal, _ := cmd.Flags().GetString("goal")
			year, _ := cmd.Flags().GetInt("year")
			all, _ := cmd.Flags().GetBool("all")
			format, _ := cmd.Flags().GetString("format")

			solver := breakeven.NewDefaultSolver(engine)
			out := cmd.OutOrStdout()
			jsonOut := strings.EqualFold(format, "json")
			if !jsonOut && !strings.EqualFold(format, "table") {
				return fmt.Errorf("unknown output format: %s (valid: table, json)", format)
			}

			if all {
				multi, err := solver.SolveAllTargets(cmd.Context(), scenario, breakeven.SolveGoal(goal), year)
				if err != nil {
					return err
				}
				if jsonOut {
					text, err := (&breakeven.JSONFormatter{Pretty: true}).FormatMulti(multi)
					if err != nil {
						return err
					}
					fmt.Fprintln(out, text)
					return nil
				}
				fmt.Fprint(out, (&breakeven.TableFormatter{}).FormatMulti(multi))
				return nil
			}

			result, err := solver.Solve(cmd.Context(), breakeven.SolveRequest{
				BaseScenario: scenario,
				Target:       breakeven.SolveTarget(target),
				Goal:         breakeven.SolveGoal(goal),
				TargetYear:   year,
			})
			if err != nil {
				return err
			}
			if jsonOut {
				text, err := (&breakeven.JSONFormatter{Pretty: true}).Format(result)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, text)
				return nil
			}
			fmt.Fprint(out, (&breakeven.TableFormatter{}).Format(result))
			return nil
		},
	}
	cmd.Flags().StringP("scenario", "s", "", "Scenario to solve (default: first scenario)")
	cmd.Flags().StringP("target", "t", string(breakeven.TargetGrowthRate), "Assumption to solve for")
	cmd.Flags().StringP("goal", "g", string(breakeven.GoalNetPosition), "Metric that must reach zero")
	cmd.Flags().IntP("year", "y", 0, "Target year (default: final loan year)")
	cmd.Flags().Bool("all", false, "Solve every target compatible with the goal")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	return cmd
}
