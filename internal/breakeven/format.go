package breakeven

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

var headingStyle = lipgloss.NewStyle().Bold(true)

// TableFormatter formats solver results as console text
type TableFormatter struct{}

// Format generates a formatted report for one solver result
func (tf *TableFormatter) Format(result *SolveResult) string {
	var sb strings.Builder

	sb.WriteString(headingStyle.Render("BREAK-EVEN SOLVER RESULTS") + "\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")

	sb.WriteString(fmt.Sprintf("Solve For:     %s\n", result.Target.Label()))
	sb.WriteString(fmt.Sprintf("Goal:          %s\n", goalPhrase(result.Goal, result.TargetYear)))
	sb.WriteString(fmt.Sprintf("Status:        %s\n", tf.formatStatus(result.Success)))
	sb.WriteString(fmt.Sprintf("Iterations:    %d\n", result.Iterations))
	if result.ConvergenceInfo != "" {
		sb.WriteString(fmt.Sprintf("Convergence:   %s\n", result.ConvergenceInfo))
	}
	sb.WriteString("\n")

	sb.WriteString(headingStyle.Render("RESULT") + "\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Assumed %-14s %s\n", result.Target.Label()+":", result.Target.FormatValue(result.BaseValue)))
	sb.WriteString(fmt.Sprintf("%-22s %s\n", tf.metricLabel(result.Goal)+" (assumed):", tf.formatCurrency(result.BaseMetric)))
	if result.RequiredValue != nil {
		label := "Required"
		if !result.Target.increasing() {
			label = "Maximum"
		}
		sb.WriteString(fmt.Sprintf("%-22s %s\n", label+" "+result.Target.Label()+":", result.Target.FormatValue(*result.RequiredValue)))
		sb.WriteString(fmt.Sprintf("%-22s %s\n", tf.metricLabel(result.Goal)+" (at it):", tf.formatCurrency(result.Metric)))

		headroom := result.Headroom()
		if result.Target == TargetWeeklyRent {
			sb.WriteString(fmt.Sprintf("%-22s %s$%s/week\n", "Headroom:", tf.deltaSymbol(headroom), headroom.Abs().StringFixed(2)))
		} else {
			sb.WriteString(fmt.Sprintf("%-22s %s%s points\n", "Headroom:", tf.deltaSymbol(headroom), headroom.Abs().StringFixed(2)))
		}
	} else {
		sb.WriteString("No value within the search range meets the goal\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

// FormatMulti formats results from every target
func (tf *TableFormatter) FormatMulti(result *MultiTargetResult) string {
	var sb strings.Builder

	sb.WriteString(headingStyle.Render("BREAK-EVEN SOLVER: ALL TARGETS") + "\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Goal: %s\n\n", goalPhrase(result.Goal, result.TargetYear)))

	sb.WriteString(fmt.Sprintf("%-20s %18s %18s %18s\n", "Target", "Assumed", "Boundary", "Headroom"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	for i := range result.Results {
		res := &result.Results[i]
		boundary := "unreachable"
		headroom := "-"
		if res.RequiredValue != nil {
			boundary = res.Target.FormatValue(*res.RequiredValue)
			h := res.Headroom()
			headroom = tf.deltaSymbol(h) + h.Abs().StringFixed(2)
		}
		sb.WriteString(fmt.Sprintf("%-20s %18s %18s %18s\n",
			tf.truncate(res.Target.Label(), 20),
			res.Target.FormatValue(res.BaseValue),
			boundary,
			headroom))
	}
	sb.WriteString("\n")

	if len(result.Recommendations) > 0 {
		sb.WriteString(headingStyle.Render("RECOMMENDATIONS") + "\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range result.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// JSONFormatter formats results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format generates JSON output
func (jf *JSONFormatter) Format(result *SolveResult) (string, error) {
	return jf.marshal(result)
}

// FormatMulti formats multi-target results as JSON
func (jf *JSONFormatter) FormatMulti(result *MultiTargetResult) (string, error) {
	return jf.marshal(result)
}

func (jf *JSONFormatter) marshal(v interface{}) (string, error) {
	var data []byte
	var err error

	if jf.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return "", err
	}

	return string(data), nil
}

// Helper methods

func (tf *TableFormatter) formatStatus(success bool) string {
	if success {
		return "✓ Solved"
	}
	return "⚠ Goal not reachable"
}

func (tf *TableFormatter) metricLabel(goal SolveGoal) string {
	if goal == GoalCashFlow {
		return "Cash flow"
	}
	return "Net position"
}

func (tf *TableFormatter) formatCurrency(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + d.Abs().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}

func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return "-"
	}
	return " "
}

func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
