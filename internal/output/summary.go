package output

import (
	"bytes"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// SummaryFormatter renders one headline row per scenario
type SummaryFormatter struct{}

func (s SummaryFormatter) Name() string { return "summary" }

func (s SummaryFormatter) Format(report *Report) ([]byte, error) {
	for _, sr := range report.Scenarios {
		if sr.Results == nil {
			return nil, fmt.Errorf("scenario %q has no results", sr.Name)
		}
	}
	var buf bytes.Buffer
	fmt.Fprintln(&buf, summaryTable(report))
	return buf.Bytes(), nil
}

func summaryTable(report *Report) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Scenario", "Monthly Payment", "Net Position", "Break-Even", "Cash Flow", "Interest Saved").
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return lipgloss.NewStyle().Padding(0, 1)
			}
			return cellStyle
		})

	for _, sr := range report.Scenarios {
		res := sr.Results
		t.Row(
			sr.Name,
			FormatCurrency(res.MonthlyMortgagePayment),
			FormatCurrency(res.NetPositionAtEnd),
			FormatBreakEven(res.BreakEvenYear),
			FormatCurrency(res.CumulativeCashFlow),
			FormatCurrency(res.TotalInterestSaved),
		)
	}
	return t.String()
}
