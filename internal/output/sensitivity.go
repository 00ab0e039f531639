package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rgehrsitz/propgo/internal/domain"
)

// SensitivityFormatter renders a *domain.ParameterSensitivityAnalysis or *domain.SensitivityMatrix
type SensitivityFormatter interface {
	FormatSensitivityAnalysis(analysis interface{}) (string, error)
	Name() string
}

// NewSensitivityFormatter returns the formatter for table or json output
func NewSensitivityFormatter(format string) (SensitivityFormatter, error) {
	switch strings.ToLower(format) {
	case "", "table", "console":
		return SensitivityConsoleFormatter{}, nil
	case "json":
		return SensitivityJSONFormatter{Pretty: true}, nil
	}
	return nil, fmt.Errorf("unknown output format: %s (valid: table, json)", format)
}

// SensitivityConsoleFormatter formats sensitivity analysis output for the terminal
type SensitivityConsoleFormatter struct{}

func (scf SensitivityConsoleFormatter) Name() string { return "console" }

func (scf SensitivityConsoleFormatter) FormatSensitivityAnalysis(analysis interface{}) (string, error) {
	var buf bytes.Buffer

	switch a := analysis.(type) {
	case *domain.ParameterSensitivityAnalysis:
		if err := scf.formatAnalysis(&buf, a); err != nil {
			return "", err
		}
	case *domain.SensitivityMatrix:
		if err := scf.formatMatrix(&buf, a); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("unsupported analysis type: %T", analysis)
	}
	return buf.String(), nil
}

func parameterTitle(name string) string {
	return strings.ToUpper(strings.ReplaceAll(name, "_", " "))
}

func (scf SensitivityConsoleFormatter) formatAnalysis(buf *bytes.Buffer, analysis *domain.ParameterSensitivityAnalysis) error {
	if len(analysis.Parameters) == 0 || len(analysis.Results) == 0 {
		return fmt.Errorf("no parameters or results in analysis")
	}

	fmt.Fprintln(buf, strings.Repeat("=", 65))
	fmt.Fprintln(buf, headerStyle.Render("SENSITIVITY ANALYSIS"))
	fmt.Fprintln(buf, strings.Repeat("=", 65))
	fmt.Fprintf(buf, "Base Scenario: %s\n", analysis.BaseScenarioName)
	fmt.Fprintf(buf, "Base Net Position: %s\n\n", FormatCurrency(analysis.BaseMetrics.NetPositionAtEnd))

	for _, param := range analysis.Parameters {
		fmt.Fprintln(buf, sectionStyle.Render(parameterTitle(param.Name)))
		fmt.Fprintf(buf, "Base Case: %s\n", FormatPercentage(param.BaseValue))
		fmt.Fprintf(buf, "Range: %s to %s (%d steps)\n",
			FormatPercentage(param.MinValue), FormatPercentage(param.MaxValue), param.Steps)
		if param.Description != "" {
			fmt.Fprintf(buf, "Description: %s\n", param.Description)
		}

		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("Value", "Net Position", "Change", "Year 1 Cash Flow", "Interest Paid", "Break-Even").
			StyleFunc(func(row, col int) lipgloss.Style {
				if col == 0 {
					return lipgloss.NewStyle().Padding(0, 1)
				}
				return cellStyle
			})

		for _, result := range analysis.Results {
			value, ok := result.ParameterValues[param.Name]
			if !ok {
				continue
			}
			label := FormatPercentage(value)
			if value.Equal(param.BaseValue) {
				label += " ← BASE"
			}
			m := result.KeyMetrics
			t.Row(
				label,
				FormatCurrency(m.NetPositionAtEnd),
				FormatCurrency(m.NetPositionChange),
				FormatCurrency(m.FirstYearCashFlow),
				FormatCurrency(m.TotalInterestPaid),
				FormatBreakEven(m.BreakEvenYear),
			)
		}
		fmt.Fprintln(buf, t.String())
		fmt.Fprintln(buf)
	}

	writeSensitivitySummary(buf, analysis.Summary)
	return nil
}

func writeSensitivitySummary(buf *bytes.Buffer, summary domain.SensitivitySummary) {
	fmt.Fprintln(buf, sectionStyle.Render("SUMMARY"))
	fmt.Fprintf(buf, "Most Sensitive Parameter: %s\n", summary.MostSensitiveParameter)
	fmt.Fprintf(buf, "Risk Level: %s\n", summary.RiskLevel)

	names := make([]string, 0, len(summary.SensitivityScores))
	for name := range summary.SensitivityScores {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) > 0 {
		fmt.Fprintln(buf, "Sensitivity Scores:")
		for _, name := range names {
			fmt.Fprintf(buf, "  %-40s %s\n", name, summary.SensitivityScores[name].StringFixed(2))
		}
	}

	if len(summary.Recommendations) > 0 {
		fmt.Fprintln(buf)
		fmt.Fprintln(buf, "RECOMMENDATIONS:")
		for _, rec := range summary.Recommendations {
			fmt.Fprintf(buf, "• %s\n", rec)
		}
	}
}

func (scf SensitivityConsoleFormatter) formatMatrix(buf *bytes.Buffer, matrix *domain.SensitivityMatrix) error {
	if len(matrix.MatrixResults) == 0 || len(matrix.MatrixResults[0]) == 0 {
		return fmt.Errorf("no results in matrix")
	}
	p1, p2 := matrix.Parameter1, matrix.Parameter2

	fmt.Fprintln(buf, strings.Repeat("=", 65))
	fmt.Fprintf(buf, "%s\n", headerStyle.Render(fmt.Sprintf("SENSITIVITY MATRIX: %s × %s", parameterTitle(p1.Name), parameterTitle(p2.Name))))
	fmt.Fprintln(buf, strings.Repeat("=", 65))
	fmt.Fprintf(buf, "Base Scenario: %s\n", matrix.BaseScenarioName)
	fmt.Fprintf(buf, "Base Case: %s = %s, %s = %s\n",
		p1.Name, FormatPercentage(p1.BaseValue), p2.Name, FormatPercentage(p2.BaseValue))
	fmt.Fprintln(buf, "Net position at end of loan term:")

	headers := []string{p1.Name + " \\ " + p2.Name}
	for _, cell := range matrix.MatrixResults[0] {
		headers = append(headers, FormatPercentage(cell.ParameterValues[p2.Name]))
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return lipgloss.NewStyle().Padding(0, 1)
			}
			return cellStyle
		})
	for _, row := range matrix.MatrixResults {
		cells := []string{FormatPercentage(row[0].ParameterValues[p1.Name])}
		for _, cell := range row {
			cells = append(cells, FormatCurrency(cell.KeyMetrics.NetPositionAtEnd))
		}
		t.Row(cells...)
	}
	fmt.Fprintln(buf, t.String())
	fmt.Fprintln(buf)

	s := matrix.Summary
	fmt.Fprintln(buf, sectionStyle.Render("SUMMARY"))
	fmt.Fprintf(buf, "Largest Change: %s\n", s.MostSensitiveCombination)
	fmt.Fprintf(buf, "Interaction Effect: %s\n", FormatCurrency(s.InteractionEffect))
	fmt.Fprintf(buf, "Risk Level: %s\n", s.RiskLevel)
	if len(s.Recommendations) > 0 {
		fmt.Fprintln(buf)
		fmt.Fprintln(buf, "RECOMMENDATIONS:")
		for _, rec := range s.Recommendations {
			fmt.Fprintf(buf, "• %s\n", rec)
		}
	}
	return nil
}

// SensitivityJSONFormatter formats sensitivity analysis as JSON
type SensitivityJSONFormatter struct {
	Pretty bool
}

func (sjf SensitivityJSONFormatter) Name() string { return "json" }

func (sjf SensitivityJSONFormatter) FormatSensitivityAnalysis(analysis interface{}) (string, error) {
	switch analysis.(type) {
	case *domain.ParameterSensitivityAnalysis, *domain.SensitivityMatrix:
	default:
		return "", fmt.Errorf("unsupported analysis type: %T", analysis)
	}

	var data []byte
	var err error
	if sjf.Pretty {
		data, err = json.MarshalIndent(analysis, "", "  ")
	} else {
		data, err = json.Marshal(analysis)
	}
	if err != nil {
		return "", fmt.Errorf("failed to marshal sensitivity analysis: %w", err)
	}
	return string(data) + "\n", nil
}
