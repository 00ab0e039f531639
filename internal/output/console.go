package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rgehrsitz/propgo/internal/domain"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	sectionStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
)

// ConsoleFormatter renders the detailed per-scenario report
type ConsoleFormatter struct {
	// YearStep prints every Nth year of the projection; the first and final years are
	// always shown. Zero or one prints every year.
	YearStep int
}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, strings.Repeat("=", 81))
	fmt.Fprintln(&buf, headerStyle.Render("PROPERTY INVESTMENT PROJECTION"))
	fmt.Fprintln(&buf, strings.Repeat("=", 81))
	if report.Source != "" {
		fmt.Fprintf(&buf, "Configuration: %s\n", report.Source)
	}
	fmt.Fprintln(&buf)

	for i := range report.Scenarios {
		sr := &report.Scenarios[i]
		if sr.Results == nil {
			return nil, fmt.Errorf("scenario %q has no results", sr.Name)
		}
		c.writeScenario(&buf, i+1, sr)
	}

	if len(report.Scenarios) > 1 {
		fmt.Fprintln(&buf, sectionStyle.Render("SCENARIO SUMMARY"))
		fmt.Fprintln(&buf, summaryTable(report))
		fmt.Fprintln(&buf)
	}
	return buf.Bytes(), nil
}

func (c ConsoleFormatter) writeScenario(buf *bytes.Buffer, n int, sr *ScenarioReport) {
	res := sr.Results

	fmt.Fprintf(buf, "SCENARIO %d: %s\n", n, sr.Name)
	fmt.Fprintln(buf, strings.Repeat("=", 50))

	if len(sr.Assumptions) > 0 {
		fmt.Fprintln(buf, "KEY ASSUMPTIONS:")
		for _, a := range sr.Assumptions {
			fmt.Fprintf(buf, "• %s\n", a)
		}
		fmt.Fprintln(buf)
	}

	fmt.Fprintln(buf, sectionStyle.Render("PURCHASE COSTS"))
	buf.WriteString(FormatPurchaseCosts(&res.PurchaseCosts))
	fmt.Fprintln(buf)

	fmt.Fprintln(buf, sectionStyle.Render("LOAN"))
	fmt.Fprintf(buf, "  Principal:               %s\n", FormatCurrency(res.Principal))
	fmt.Fprintf(buf, "  Monthly Payment:         %s\n", FormatCurrency(res.MonthlyMortgagePayment))
	if !res.OffsetAmount.IsZero() || !res.TotalInterestSaved.IsZero() {
		fmt.Fprintf(buf, "  Offset Balance:          %s\n", FormatCurrency(res.OffsetAmount))
		fmt.Fprintf(buf, "  Interest Saved:          %s\n", FormatCurrency(res.TotalInterestSaved))
		fmt.Fprintf(buf, "  Term Reduction:          %s\n", FormatTermReduction(res.LoanTermReduction))
	}
	if res.PayoffMonth > 0 {
		fmt.Fprintf(buf, "  Paid Off:                month %d\n", res.PayoffMonth)
	}
	if final := res.FinalYear(); final != nil {
		fmt.Fprintf(buf, "  Total Interest:          %s\n", FormatCurrency(final.CumulativeInterestPaid))
	}
	fmt.Fprintln(buf)

	fmt.Fprintln(buf, sectionStyle.Render("SUMMARY"))
	fmt.Fprintf(buf, "  Net Position at End:     %s\n", FormatCurrency(res.NetPositionAtEnd))
	fmt.Fprintf(buf, "  Break-Even:              %s\n", FormatBreakEven(res.BreakEvenYear))
	fmt.Fprintf(buf, "  Cumulative Cash Flow:    %s\n", FormatCurrency(res.CumulativeCashFlow))
	fmt.Fprintf(buf, "  Final Property Value:    %s\n", FormatCurrency(res.FinalPropertyValue))
	fmt.Fprintf(buf, "  CGT on Sale:             %s\n", FormatCurrency(res.FinalCGTPayable))
	fmt.Fprintf(buf, "  Initial Investment:      %s\n", FormatCurrency(res.InitialInvestment))
	fmt.Fprintf(buf, "  Average ROI:             %s\n", FormatPercentage(res.AverageROI))
	fmt.Fprintf(buf, "  Average ROI (initial):   %s\n", FormatPercentage(res.AverageROIOnInitialInvestment))
	if !res.TotalDepreciation.IsZero() {
		fmt.Fprintf(buf, "  Total Depreciation:      %s\n", FormatCurrency(res.TotalDepreciation))
	}
	if !res.TotalQuarantinedLosses.IsZero() {
		fmt.Fprintf(buf, "  Quarantined Losses:      %s\n", FormatCurrency(res.TotalQuarantinedLosses))
	}
	fmt.Fprintln(buf)

	fmt.Fprintln(buf, sectionStyle.Render("YEARLY PROJECTION"))
	fmt.Fprintln(buf, c.projectionTable(res))
	fmt.Fprintln(buf)
}

func (c ConsoleFormatter) projectionTable(res *domain.CalculationResults) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Year", "Value", "Rent", "Loan", "Offset", "Cash Flow", "Tax Benefit", "Net Position").
		StyleFunc(func(row, col int) lipgloss.Style { return cellStyle })

	last := len(res.YearlyProjections) - 1
	for i, yp := range res.YearlyProjections {
		if yp.Year == 0 || !c.showYear(yp.Year, i == last) {
			continue
		}
		t.Row(
			fmt.Sprintf("%d", yp.Year),
			FormatCurrency(yp.PropertyValue),
			FormatCurrency(yp.RentalIncome),
			FormatCurrency(yp.LoanBalance),
			FormatCurrency(yp.OffsetBalance),
			FormatCurrency(yp.CashFlow),
			FormatCurrency(yp.TaxBenefit),
			FormatCurrency(yp.NetPosition),
		)
	}
	return t.String()
}

func (c ConsoleFormatter) showYear(year int, final bool) bool {
	if c.YearStep <= 1 || year == 1 || final {
		return true
	}
	return year%c.YearStep == 0
}

// FormatPurchaseCosts renders the purchase cost breakdown one line per item
func FormatPurchaseCosts(pc *domain.PurchaseCosts) string {
	var sb strings.Builder

	if pc.State != "" {
		sb.WriteString(fmt.Sprintf("  State:                   %s\n", pc.State))
	}
	sb.WriteString(fmt.Sprintf("  Stamp Duty:              %s\n", FormatCurrency(pc.StampDuty)))
	if !pc.StampDutyConcession.IsZero() {
		sb.WriteString(fmt.Sprintf("    before concessions:    %s\n", FormatCurrency(pc.StampDutyBeforeConcessions)))
		sb.WriteString(fmt.Sprintf("    concession:            %s\n", FormatCurrency(pc.StampDutyConcession)))
	}
	sb.WriteString(fmt.Sprintf("  Transfer Fee:            %s\n", FormatCurrency(pc.TransferFee)))
	sb.WriteString(fmt.Sprintf("  Mortgage Registration:   %s\n", FormatCurrency(pc.MortgageRegistrationFee)))
	sb.WriteString(fmt.Sprintf("  Conveyancing:            %s\n", FormatCurrency(pc.ConveyancingFee)))
	sb.WriteString(fmt.Sprintf("  Building and Pest:       %s\n", FormatCurrency(pc.BuildingAndPestFee)))
	sb.WriteString(fmt.Sprintf("  LMI:                     %s\n", FormatCurrency(pc.LMI)))
	if !pc.HomeBuyerGrant.IsZero() {
		program := pc.GrantProgram
		if program == "" {
			program = "home buyer grant"
		}
		sb.WriteString(fmt.Sprintf("  Less %s: -%s\n", program, FormatCurrency(pc.HomeBuyerGrant)))
	}
	sb.WriteString(fmt.Sprintf("  Total:                   %s\n", FormatCurrency(pc.Total)))
	if !pc.NetBenefit.IsZero() {
		sb.WriteString(fmt.Sprintf("  First Home Benefit:      %s\n", FormatCurrency(pc.NetBenefit)))
	}
	return sb.String()
}
