package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rgehrsitz/propgo/internal/calculation"
	"github.com/rgehrsitz/propgo/internal/domain"
	"github.com/rgehrsitz/propgo/internal/jurisdiction"
	"github.com/rgehrsitz/propgo/internal/output"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// decimalFlag reads a string flag as a decimal; an empty value is zero
func decimalFlag(cmd *cobra.Command, name string) (decimal.Decimal, error) {
	raw, _ := cmd.Flags().GetString(name)
	if raw == "" {
		return decimal.Zero, nil
	}
	v, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", ""))
	if err != nil {
		return decimal.Zero, fmt.Errorf("--%s: invalid amount %q", name, raw)
	}
	return v, nil
}

// stateFlag reads --state; an empty value means every state
func stateFlag(cmd *cobra.Command) []domain.State {
	raw, _ := cmd.Flags().GetString("state")
	if raw == "" {
		return domain.AllStates()
	}
	return []domain.State{domain.State(strings.ToUpper(raw))}
}

func newPurchaseCostsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "purchase-costs",
		Short: "Break down the upfront costs of a purchase",
		Example: `  propgo purchase-costs --state VIC --price 650000 --deposit 65000 --ppor --first-home`,
		RunE: func(cmd *cobra.Command, args []string) error {
			price, err := decimalFlag(cmd, "price")
			if err != nil {
				return err
			}
			deposit, err := decimalFlag(cmd, "deposit")
			if err != nil {
				return err
			}
			conveyancing, err := decimalFlag(cmd, "conveyancing")
			if err != nil {
				return err
			}
			buildingAndPest, err := decimalFlag(cmd, "building-pest")
			if err != nil {
				return err
			}
			raw, _ := cmd.Flags().GetString("state")
			if raw == "" {
				return fmt.Errorf("--state is required")
			}
			if !price.IsPositive() {
				return fmt.Errorf("--price must be positive")
			}

			details := &domain.PropertyDetails{
				State:         domain.State(strings.ToUpper(raw)),
				PurchasePrice: price,
				DepositAmount: deposit,
				LMIMode:       domain.LMIAuto,
			}
			details.IsPPOR, _ = cmd.Flags().GetBool("ppor")
			details.IsFirstHomeBuyer, _ = cmd.Flags().GetBool("first-home")
			details.IsNewHome, _ = cmd.Flags().GetBool("new-home")

			engine, err := newEngine(cmd, nil)
			if err != nil {
				return err
			}
			costs := engine.CalculatePurchaseCosts(details, conveyancing, buildingAndPest, details.State)

			if format, _ := cmd.Flags().GetString("format"); strings.EqualFold(format, "json") {
				data, err := json.MarshalIndent(costs, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Purchase costs for %s at %s\n", details.State, output.FormatCurrency(price))
			fmt.Fprint(cmd.OutOrStdout(), output.FormatPurchaseCosts(&costs))
			return nil
		},
	}
	cmd.Flags().String("state", "", "State or territory (NSW, VIC, QLD, WA, SA, TAS, ACT, NT)")
	cmd.Flags().String("price", "", "Purchase price")
	cmd.Flags().String("deposit", "", "Deposit amount")
	cmd.Flags().String("conveyancing", "", "Conveyancing fee")
	cmd.Flags().String("building-pest", "", "Building and pest inspection fee")
	cmd.Flags().Bool("ppor", false, "Buyer will live in the property")
	cmd.Flags().Bool("first-home", false, "Buyer is a first home buyer")
	cmd.Flags().Bool("new-home", false, "Property is a newly built home")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	return cmd
}

func newStampDutyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stamp-duty",
		Short: "Show transfer duty for a price in one or every state",
		RunE: func(cmd *cobra.Command, args []string) error {
			price, err := decimalFlag(cmd, "price")
			if err != nil {
				return err
			}
			if !price.IsPositive() {
				return fmt.Errorf("--price must be positive")
			}
			req := jurisdiction.DutyRequest{Price: price}
			req.IsPPOR, _ = cmd.Flags().GetBool("ppor")
			req.IsFirstHomeBuyer, _ = cmd.Flags().GetBool("first-home")
			req.IsNewHome, _ = cmd.Flags().GetBool("new-home")

			t := stateTable("State", "Stamp Duty", "Transfer Fee")
			for _, state := range stateFlag(cmd) {
				rules := jurisdiction.For(state)
				t.Row(string(state),
					output.FormatCurrency(rules.StampDuty(req)),
					output.FormatCurrency(rules.TransferFee(price)))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Transfer duty at %s\n", output.FormatCurrency(price))
			fmt.Fprintln(cmd.OutOrStdout(), t.String())
			return nil
		},
	}
	cmd.Flags().String("state", "", "State or territory (default: every state)")
	cmd.Flags().String("price", "", "Purchase price")
	cmd.Flags().Bool("ppor", false, "Buyer will live in the property")
	cmd.Flags().Bool("first-home", false, "Buyer is a first home buyer")
	cmd.Flags().Bool("new-home", false, "Property is a newly built home")
	return cmd
}

func newLandTaxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "land-tax",
		Short: "Show the annual land tax a property adds to existing holdings",
		RunE: func(cmd *cobra.Command, args []string) error {
			landValue, err := decimalFlag(cmd, "land-value")
			if err != nil {
				return err
			}
			other, err := decimalFlag(cmd, "other-holdings")
			if err != nil {
				return err
			}
			if landValue.IsNegative() || other.IsNegative() {
				return fmt.Errorf("land values cannot be negative")
			}

			t := stateTable("State", "Land Tax", "Total Holdings Tax")
			for _, state := range stateFlag(cmd) {
				t.Row(string(state),
					output.FormatCurrency(calculation.AttributedLandTax(state, landValue, other)),
					output.FormatCurrency(jurisdiction.For(state).LandTax(landValue.Add(other))))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Land tax on %s of land with %s already held\n",
				output.FormatCurrency(landValue), output.FormatCurrency(other))
			fmt.Fprintln(cmd.OutOrStdout(), t.String())
			return nil
		},
	}
	cmd.Flags().String("state", "", "State or territory (default: every state)")
	cmd.Flags().String("land-value", "", "Land value of the property")
	cmd.Flags().String("other-holdings", "", "Taxable land value already held in the state")
	return cmd
}

func stateTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return lipgloss.NewStyle().Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
		})
}
