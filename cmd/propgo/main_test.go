package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

const fixture = "../../test/testdata/scenarios.yaml"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(envDebug, "")
	t.Setenv(envAsOf, "")

	cmd := newRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func mustContain(t *testing.T, output string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(output, w) {
			t.Errorf("expected output to contain %q\n%s", w, output)
		}
	}
}

func TestRootCommand(t *testing.T) {
	cmd := newRootCmd()

	if cmd.Use != "propgo" {
		t.Errorf("Expected root command use to be 'propgo', got %s", cmd.Use)
	}
	if cmd.Short == "" || cmd.Long == "" {
		t.Error("Expected root command to have short and long descriptions")
	}

	expected := []string{"calculate", "validate", "compare", "break-even", "sensitivity", "purchase-costs", "stamp-duty", "land-tax", "version"}
	for _, name := range expected {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected subcommand %s to be registered", name)
		}
	}
}

func TestRootCommand_Help(t *testing.T) {
	out, err := execute(t, "--help")
	if err != nil {
		t.Fatalf("Expected no error for help, got %v", err)
	}
	mustContain(t, out, "propgo", "calculate", "--debug")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	mustContain(t, out, "propgo dev (commit none, built unknown)")
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "validate", fixture)
	if err != nil {
		t.Fatal(err)
	}
	mustContain(t, out, "is valid (2 scenarios)")

	if _, err := execute(t, "validate", "missing.yaml"); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestCalculateCommand_Console(t *testing.T) {
	out, err := execute(t, "calculate", fixture)
	if err != nil {
		t.Fatal(err)
	}
	mustContain(t, out,
		"PROPERTY INVESTMENT PROJECTION",
		"Configuration: "+fixture,
		"SCENARIO 1: Base",
		"SCENARIO 2: Cheaper",
		"Monthly Payment:         $4,046.97",
		"Break-Even:              year 4",
		"Paid Off:                month 309",
		"Term Reduction:          4 years 3 months",
		"SCENARIO SUMMARY",
	)
}

func TestCalculateCommand_JSONSingleScenario(t *testing.T) {
	out, err := execute(t, "calculate", fixture, "--scenario", "Cheaper", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}

	var report struct {
		Scenarios []struct {
			Name        string   `json:"name"`
			Assumptions []string `json:"assumptions"`
		} `json:"scenarios"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if len(report.Scenarios) != 1 || report.Scenarios[0].Name != "Cheaper" {
		t.Fatalf("Expected only the Cheaper scenario, got %+v", report.Scenarios)
	}
	if len(report.Scenarios[0].Assumptions) == 0 {
		t.Error("Expected assumptions for a configured scenario")
	}
}

func TestCalculateCommand_Errors(t *testing.T) {
	_, err := execute(t, "calculate", fixture, "--format", "xml")
	if err == nil || !strings.Contains(err.Error(), "unknown output format: xml (valid: console, json, summary)") {
		t.Errorf("Expected unknown format error, got %v", err)
	}

	_, err = execute(t, "calculate", fixture, "--scenario", "Missing")
	if err == nil || !strings.Contains(err.Error(), "scenario Missing not found") {
		t.Errorf("Expected missing scenario error, got %v", err)
	}
}

func TestCalculateCommand_DebugLogging(t *testing.T) {
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"calculate", fixture, "--format", "summary"})
	t.Setenv(envDebug, "1")
	t.Setenv(envAsOf, "")

	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	mustContain(t, errOut.String(), "level=")
	mustContain(t, out.String(), "Base", "Cheaper")
}

func TestCalculateCommand_InvalidAsOf(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"calculate", fixture})
	t.Setenv(envDebug, "")
	t.Setenv(envAsOf, "last tuesday")

	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), envAsOf+" must be YYYY-MM-DD") {
		t.Errorf("Expected an as-of parse error, got %v", err)
	}
}

func TestCompareCommand(t *testing.T) {
	out, err := execute(t, "compare", "--list-templates")
	if err != nil {
		t.Fatal(err)
	}
	mustContain(t, out, "Available Templates", "double_offset")

	out, err = execute(t, "compare", fixture, "--with", "no_offset,double_offset")
	if err != nil {
		t.Fatal(err)
	}
	mustContain(t, out, "PROPERTY SCENARIO COMPARISON", "Base Scenario: Base", "Base_no_offset", "Base_double_offset", "RECOMMENDATIONS")

	out, err = execute(t, "compare", fixture, "--against", "Cheaper", "--format", "compact")
	if err != nil {
		t.Fatal(err)
	}
	mustContain(t, out, "Base: Base | Cheaper: ")
}

func TestCompareCommand_Errors(t *testing.T) {
	tests := [][]string{
		{"compare"},
		{"compare", fixture},
		{"compare", fixture, "--with", "no_offset", "--against", "Cheaper"},
		{"compare", fixture, "--with", "no_such_template"},
		{"compare", fixture, "--with", "no_offset", "--format", "xml"},
	}
	for _, args := range tests {
		if _, err := execute(t, args...); err == nil {
			t.Errorf("Expected an error for %v", args)
		}
	}
}

func TestBreakEvenCommand(t *testing.T) {
	out, err := execute(t, "break-even", fixture, "--target", "weekly_rent", "--goal", "cash_flow", "--year", "1")
	if err != nil {
		t.Fatal(err)
	}
	mustContain(t, out, "BREAK-EVEN SOLVER RESULTS", "✓ Solved", "Required weekly rent:")

	out, err = execute(t, "break-even", fixture, "--all", "--year", "3", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	var multi struct {
		Results         []json.RawMessage `json:"results"`
		Recommendations []string          `json:"recommendations"`
	}
	if err := json.Unmarshal([]byte(out), &multi); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if len(multi.Results) != 3 || len(multi.Recommendations) != 3 {
		t.Errorf("Expected three targets solved, got %d results", len(multi.Results))
	}
}

func TestBreakEvenCommand_Errors(t *testing.T) {
	tests := [][]string{
		{"break-even", fixture, "--format", "xml"},
		{"break-even", fixture, "--scenario", "Missing"},
		{"break-even", fixture, "--target", "offset"},
		{"break-even", fixture, "--goal", "cash_flow", "--target", "growth_rate"},
		{"break-even", fixture, "--year", "31"},
	}
	for _, args := range tests {
		if _, err := execute(t, args...); err == nil {
			t.Errorf("Expected an error for %v", args)
		}
	}
}

func TestSensitivityCommand(t *testing.T) {
	out, err := execute(t, "sensitivity", fixture, "--parameter", "property_growth_rate")
	if err != nil {
		t.Fatal(err)
	}
	mustContain(t, out, "SENSITIVITY ANALYSIS", "Base Scenario: Base", "PROPERTY GROWTH RATE", "Risk Level: MEDIUM")

	out, err = execute(t, "sensitivity", fixture,
		"-p", "property_growth_rate:2-4:3", "-p", "interest_rate:5-7:3", "--matrix")
	if err != nil {
		t.Fatal(err)
	}
	mustContain(t, out, "SENSITIVITY MATRIX", "property_growth_rate=4.00, interest_rate=5.00")

	out, err = execute(t, "sensitivity", fixture, "--parameter-set", "common", "--scenario", "Cheaper", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	var analysis struct {
		BaseScenarioName string            `json:"baseScenarioName"`
		AnalysisType     string            `json:"analysisType"`
		Parameters       []json.RawMessage `json:"parameters"`
	}
	if err := json.Unmarshal([]byte(out), &analysis); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if analysis.BaseScenarioName != "Cheaper" || analysis.AnalysisType != "multi" || len(analysis.Parameters) != 4 {
		t.Errorf("unexpected analysis: %+v", analysis)
	}
}

func TestSensitivityCommand_Errors(t *testing.T) {
	tests := [][]string{
		{"sensitivity", fixture},
		{"sensitivity", fixture, "-p", "vacancy_rate"},
		{"sensitivity", fixture, "-p", "interest_rate:9-4:3"},
		{"sensitivity", fixture, "-p", "interest_rate:4-9:1"},
		{"sensitivity", fixture, "-p", "interest_rate:4-9"},
		{"sensitivity", fixture, "-p", "interest_rate", "--matrix"},
		{"sensitivity", fixture, "--parameter-set", "critical"},
		{"sensitivity", fixture, "-p", "interest_rate", "--parameter-set", "common"},
		{"sensitivity", fixture, "-p", "interest_rate", "--format", "csv"},
		{"sensitivity", fixture, "-p", "interest_rate", "--scenario", "Missing"},
	}
	for _, args := range tests {
		if _, err := execute(t, args...); err == nil {
			t.Errorf("Expected an error for %v", args)
		}
	}
}

func TestPurchaseCostsCommand(t *testing.T) {
	out, err := execute(t, "purchase-costs", "--state", "nsw", "--price", "750000", "--deposit", "75000")
	if err != nil {
		t.Fatal(err)
	}
	mustContain(t, out,
		"Purchase costs for NSW at $750,000.00",
		"Stamp Duty:              $28,279.00",
		"Transfer Fee:            $165.40",
	)

	out, err = execute(t, "purchase-costs", "--state", "NSW", "--price", "750000", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	mustContain(t, out, `"stampDuty": "28279"`)

	if _, err := execute(t, "purchase-costs", "--price", "750000"); err == nil {
		t.Error("Expected an error without --state")
	}
	if _, err := execute(t, "purchase-costs", "--state", "NSW", "--price", "lots"); err == nil {
		t.Error("Expected an error for an invalid price")
	}
}

func TestStampDutyCommand(t *testing.T) {
	out, err := execute(t, "stamp-duty", "--state", "NSW", "--price", "750,000")
	if err != nil {
		t.Fatal(err)
	}
	mustContain(t, out, "Transfer duty at $750,000.00", "$28,279.00")

	out, err = execute(t, "stamp-duty", "--price", "750000")
	if err != nil {
		t.Fatal(err)
	}
	mustContain(t, out, "NSW", "VIC", "NT", "$40,070.00", "$26,775.00")

	if _, err := execute(t, "stamp-duty"); err == nil {
		t.Error("Expected an error without --price")
	}
}

func TestLandTaxCommand(t *testing.T) {
	out, err := execute(t, "land-tax", "--state", "VIC", "--land-value", "800000")
	if err != nil {
		t.Fatal(err)
	}
	mustContain(t, out, "$4,475.00")

	if _, err := execute(t, "land-tax", "--land-value", "-1"); err == nil {
		t.Error("Expected an error for a negative land value")
	}
}
