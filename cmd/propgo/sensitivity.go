package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rgehrsitz/propgo/internal/calculation"
	"github.com/rgehrsitz/propgo/internal/domain"
	"github.com/rgehrsitz/propgo/internal/output"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newSensitivityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sensitivity [input-file]",
		Short: "Sweep growth, rent, expense or interest rates and measure the effect",
		Long: `Re-run a scenario across a range of values for one or more rates and report
how the final net position responds.

Parameters: property_growth_rate, interest_rate, rent_increase_rate,
            operating_expenses_growth_rate

Examples:
  propgo sensitivity scenarios.yaml --parameter property_growth_rate
  propgo sensitivity scenarios.yaml --parameter interest_rate:4-9:6
  propgo sensitivity scenarios.yaml --parameter-set common
  propgo sensitivity scenarios.yaml --parameter property_growth_rate:2-4:3 --parameter interest_rate:5-7:3 --matrix`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			formatter, err := output.NewSensitivityFormatter(format)
			if err != nil {
				return err
			}

			raw, _ := cmd.Flags().GetStringSlice("parameter")
			set, _ := cmd.Flags().GetString("parameter-set")
			parameters, err := resolveParameters(raw, set)
			if err != nil {
				return err
			}
			matrix, _ := cmd.Flags().GetBool("matrix")
			if matrix && len(parameters) != 2 {
				return fmt.Errorf("--matrix needs exactly two parameters, got %d", len(parameters))
			}

			cfg, engine, err := loadEngine(cmd, args[0])
			if err != nil {
				return err
			}
			scenario, _ := cmd.Flags().GetString("scenario")
			analyzer := calculation.NewSensitivityAnalyzer(engine)

			var analysis interface{}
			switch {
			case matrix:
				analysis, err = analyzer.AnalyzeParameterMatrix(cmd.Context(), cfg, parameters[0], parameters[1], scenario)
			case len(parameters) == 1:
				analysis, err = analyzer.AnalyzeSingleParameter(cmd.Context(), cfg, parameters[0], scenario)
			default:
				analysis, err = analyzer.AnalyzeMultipleParameters(cmd.Context(), cfg, parameters, scenario)
			}
			if err != nil {
				return fmt.Errorf("sensitivity analysis failed: %w", err)
			}

			text, err := formatter.FormatSensitivityAnalysis(analysis)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}
	cmd.Flags().StringSliceP("parameter", "p", nil, "Parameter to sweep, as name or name:min-max:steps (repeatable)")
	cmd.Flags().String("parameter-set", "", "Use a predefined parameter set (common)")
	cmd.Flags().Bool("matrix", false, "Sweep two parameters against each other")
	cmd.Flags().StringP("scenario", "s", "", "Base scenario (default: first scenario)")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	return cmd
}

func resolveParameters(raw []string, set string) ([]domain.SensitivityParameter, error) {
	if set != "" {
		if len(raw) > 0 {
			return nil, fmt.Errorf("--parameter and --parameter-set cannot be combined")
		}
		if set != "common" {
			return nil, fmt.Errorf("unknown parameter set: %s", set)
		}
		return domain.GetCommonParameters(), nil
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("--parameter or --parameter-set is required")
	}

	parameters := make([]domain.SensitivityParameter, 0, len(raw))
	for _, s := range raw {
		p, err := parseParameter(s)
		if err != nil {
			return nil, err
		}
		parameters = append(parameters, p)
	}
	return parameters, nil
}

// parseParameter reads name or name:min-max:steps, starting from the common definition
func parseParameter(s string) (domain.SensitivityParameter, error) {
	parts := strings.Split(s, ":")
	param, ok := domain.CommonParameter(parts[0])
	if !ok {
		return domain.SensitivityParameter{}, fmt.Errorf("unknown sensitivity parameter: %s", parts[0])
	}
	if len(parts) == 1 {
		return param, nil
	}
	if len(parts) != 3 {
		return domain.SensitivityParameter{}, fmt.Errorf("invalid parameter format: %s (expected name:min-max:steps)", s)
	}

	minMax := strings.Split(parts[1], "-")
	if len(minMax) != 2 {
		return domain.SensitivityParameter{}, fmt.Errorf("invalid range format: %s (expected min-max)", parts[1])
	}
	minValue, err := decimal.NewFromString(minMax[0])
	if err != nil {
		return domain.SensitivityParameter{}, fmt.Errorf("invalid min value: %w", err)
	}
	maxValue, err := decimal.NewFromString(minMax[1])
	if err != nil {
		return domain.SensitivityParameter{}, fmt.Errorf("invalid max value: %w", err)
	}
	if maxValue.LessThan(minValue) {
		return domain.SensitivityParameter{}, fmt.Errorf("invalid range %s: max is below min", parts[1])
	}
	steps, err := strconv.Atoi(parts[2])
	if err != nil || steps < 2 {
		return domain.SensitivityParameter{}, fmt.Errorf("invalid steps value: %s (need at least 2)", parts[2])
	}

	param.MinValue = minValue
	param.MaxValue = maxValue
	param.Steps = steps
	return param, nil
}
