package main

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/propgo/internal/domain"
	"github.com/rgehrsitz/propgo/internal/output"
	"github.com/spf13/cobra"
)

func newCalculateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calculate [input-file]",
		Short: "Project every scenario in a configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, engine, err := loadEngine(cmd, args[0])
			if err != nil {
				return err
			}

			if name, _ := cmd.Flags().GetString("scenario"); name != "" {
				scenario, ok := cfg.ScenarioByName(name)
				if !ok {
					return fmt.Errorf("scenario %s not found in configuration", name)
				}
				cfg = &domain.Configuration{Tax: cfg.Tax, Scenarios: []domain.Scenario{*scenario}}
			}

			summaries, err := engine.RunScenarios(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			registry := output.DefaultRegistry()
			step, _ := cmd.Flags().GetInt("year-step")
			registry.Register(output.ConsoleFormatter{YearStep: step})

			format, _ := cmd.Flags().GetString("format")
			formatter, ok := registry.Get(strings.ToLower(format))
			if !ok {
				return fmt.Errorf("unknown output format: %s (valid: %s)", format, strings.Join(registry.Names(), ", "))
			}

			report := output.NewReport(cfg, summaries)
			report.Source = args[0]
			return output.Write(cmd.OutOrStdout(), formatter, report)
		},
	}
	cmd.Flags().StringP("format", "f", "console", "Output format (console, summary, json)")
	cmd.Flags().StringP("scenario", "s", "", "Only project the named scenario")
	cmd.Flags().Int("year-step", 5, "Console report prints every Nth year")
	return cmd
}
