package output

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/propgo/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ScenarioReport pairs a scenario's results with the assumptions that produced them
type ScenarioReport struct {
	Name        string                     `json:"name"`
	Assumptions []string                   `json:"assumptions"`
	Results     *domain.CalculationResults `json:"results"`
}

// Report is the unit every formatter renders
type Report struct {
	Source    string           `json:"source,omitempty"` // configuration path
	Scenarios []ScenarioReport `json:"scenarios"`
}

// NewReport matches summaries to their scenarios by name. Summaries without a matching
// scenario are reported without assumptions.
func NewReport(config *domain.Configuration, summaries []domain.ScenarioSummary) *Report {
	report := &Report{Scenarios: make([]ScenarioReport, 0, len(summaries))}
	for _, summary := range summaries {
		sr := ScenarioReport{Name: summary.Name, Results: summary.Results}
		if config != nil {
			if scenario, ok := config.ScenarioByName(summary.Name); ok {
				sr.Assumptions = Assumptions(scenario)
			}
		}
		report.Scenarios = append(report.Scenarios, sr)
	}
	return report
}

// Assumptions lists the headline inputs of a scenario in plain language
func Assumptions(s *domain.Scenario) []string {
	p := &s.Property
	m := &s.Market

	out := []string{
		fmt.Sprintf("Purchase price %s in %s with a %s deposit",
			FormatCurrency(p.PurchasePrice), p.State, FormatCurrency(p.DepositAmount)),
	}

	loan := "Principal and interest"
	if p.EffectiveLoanType() == domain.LoanInterestOnly {
		loan = "Interest only"
	}
	line := fmt.Sprintf("%s loan of %s at %s over %d years",
		loan, FormatCurrency(p.LoanAmount()), FormatPercentage(p.InterestRate), p.LoanTerm)
	if n := len(p.InterestRateChanges); n == 1 {
		line += ", 1 scheduled rate change"
	} else if n > 1 {
		line += fmt.Sprintf(", %d scheduled rate changes", n)
	}
	out = append(out, line)

	if p.IsPPOR {
		out = append(out, fmt.Sprintf("Owner occupied, avoiding %s/week rent rising %s a year",
			FormatCurrency(p.WeeklyRent), FormatPercentage(m.RentIncreaseRate)))
	} else {
		out = append(out, fmt.Sprintf("Weekly rent %s rising %s a year",
			FormatCurrency(p.WeeklyRent), FormatPercentage(m.RentIncreaseRate)))
	}

	out = append(out, fmt.Sprintf("Property growth %s a year, expenses growth %s a year",
		FormatPercentage(m.PropertyGrowthRate), FormatPercentage(m.OperatingExpensesGrowthRate)))

	if !s.OffsetAmount.IsZero() || !p.OffsetContribution.IsZero() {
		offset := fmt.Sprintf("Offset account starting at %s", FormatCurrency(s.OffsetAmount))
		if !p.OffsetContribution.IsZero() {
			offset += fmt.Sprintf(" plus %s %s", FormatCurrency(p.OffsetContribution), p.OffsetContributionFrequency)
		}
		out = append(out, offset)
	}

	if !p.IsPPOR {
		tax := fmt.Sprintf("Taxable income %s", FormatCurrency(p.TaxableIncome))
		switch {
		case p.NoNegativeGearing:
			tax += ", losses quarantined"
		case p.NegativeGearingStartYear > 1:
			tax += fmt.Sprintf(", negative gearing from year %d", p.NegativeGearingStartYear)
		}
		out = append(out, tax)
	}

	if !m.OpportunityCostRate.IsZero() {
		out = append(out, fmt.Sprintf("Opportunity cost of cash %s a year", FormatPercentage(m.OpportunityCostRate)))
	}
	return out
}

var printer = message.NewPrinter(language.English)

// FormatCurrency renders an amount with thousands separators and two decimals
func FormatCurrency(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	if rounded.IsNegative() {
		return "-$" + printer.Sprintf("%.2f", rounded.Abs().InexactFloat64())
	}
	return "$" + printer.Sprintf("%.2f", rounded.InexactFloat64())
}

// FormatPercentage renders a percent value such as 6 as "6.00%"
func FormatPercentage(value decimal.Decimal) string {
	return value.StringFixed(2) + "%"
}

// FormatTermReduction renders a loan term reduction as years and months
func FormatTermReduction(r domain.LoanTermReduction) string {
	if r.Years == 0 && r.Months == 0 {
		return "none"
	}
	parts := []string{}
	if r.Years > 0 {
		parts = append(parts, plural(r.Years, "year"))
	}
	if r.Months > 0 {
		parts = append(parts, plural(r.Months, "month"))
	}
	return strings.Join(parts, " ")
}

// FormatBreakEven renders a break-even year or "never"
func FormatBreakEven(year int) string {
	if year == domain.NoBreakEven {
		return "never"
	}
	return fmt.Sprintf("year %d", year)
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
