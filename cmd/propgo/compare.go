package main

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/propgo/internal/compare"
	"github.com/rgehrsitz/propgo/internal/transform"
	"github.com/spf13/cobra"
)

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [input-file]",
		Short: "Compare a base scenario against templates or other scenarios",
		Long: `Compare a base scenario against built-in strategy templates or other scenarios
from the same file.

Examples:
  propgo compare scenarios.yaml --with rate_rise_2pct,no_offset
  propgo compare scenarios.yaml --scenario Base --against Cheaper --format json
  propgo compare --list-templates
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if list, _ := cmd.Flags().GetBool("list-templates"); list {
				fmt.Fprint(cmd.OutOrStdout(), transform.GetTemplateHelp(transform.CreateBuiltInTemplates()))
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("input file required for comparison (use --list-templates to see available templates)")
			}

			base, _ := cmd.Flags().GetString("scenario")
			with, _ := cmd.Flags().GetString("with")
			against, _ := cmd.Flags().GetString("against")
			templates := transform.ParseTemplateList(with)
			others := transform.ParseTemplateList(against)
			if len(templates) == 0 && len(others) == 0 {
				return fmt.Errorf("--with or --against is required (use --list-templates to see available templates)")
			}
			if len(templates) > 0 && len(others) > 0 {
				return fmt.Errorf("--with and --against cannot be combined")
			}

			cfg, engine, err := loadEngine(cmd, args[0])
			if err != nil {
				return err
			}
			compareEngine := compare.NewCompareEngine(engine)

			var compSet *compare.ComparisonSet
			if len(templates) > 0 {
				compSet, err = compareEngine.Compare(cmd.Context(), cfg, compare.CompareOptions{
					BaseScenarioName: base,
					Templates:        templates,
				})
			} else {
				compSet, err = compareEngine.CompareScenarios(cmd.Context(), cfg, base, others)
			}
			if err != nil {
				return fmt.Errorf("comparison failed: %w", err)
			}
			compSet.ConfigPath = args[0]

			format, _ := cmd.Flags().GetString("format")
			out := cmd.OutOrStdout()
			switch strings.ToLower(format) {
			case "json":
				text, err := (&compare.JSONFormatter{Pretty: true}).Format(compSet)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, text)
			case "compact":
				fmt.Fprintln(out, (&compare.TableFormatter{}).FormatCompact(compSet))
			case "table", "console", "":
				fmt.Fprint(out, (&compare.TableFormatter{}).Format(compSet))
			default:
				return fmt.Errorf("unknown output format: %s (valid: table, compact, json)", format)
			}
			return nil
		},
	}
	cmd.Flags().StringP("scenario", "s", "", "Base scenario name (default: first scenario)")
	cmd.Flags().String("with", "", "Comma-separated list of templates to compare")
	cmd.Flags().String("against", "", "Comma-separated list of configured scenarios to compare")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, compact, json)")
	cmd.Flags().Bool("list-templates", false, "List all available scenario templates")
	return cmd
}
