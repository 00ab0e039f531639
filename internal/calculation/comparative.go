package calculation

import (
	"github.com/rgehrsitz/propgo/internal/domain"
	"github.com/shopspring/decimal"
)

// applyComparativeLayer folds the rent-versus-buy metrics across the rows. The investment
// reserve starts with the cash committed at purchase and earns the opportunity cost rate.
func applyComparativeLayer(rows []domain.YearlyProjection, in projectionInputs) []domain.YearlyProjection {
	out := make([]domain.YearlyProjection, len(rows))
	details := in.details
	oppRate := in.market.OpportunityCostRate.Div(hundred)

	reserve := details.DepositAmount.Add(in.purchaseCostsTotal).Add(in.initialOffset)
	cumOpportunity := decimal.Zero
	cumBuying := decimal.Zero
	cumRental := decimal.Zero

	for i, row := range rows {
		if row.Year > 0 {
			recurring := row.ManagementFees.Add(row.OtherPropertyCosts)
			row.MortgageCashFlow = row.YearlyPrincipalPaid.Add(row.YearlyInterestPaid)
			row.TotalHoldingCost = row.MortgageCashFlow.Add(recurring).Add(row.ExistingPPORCGT)
			if details.IsPPOR {
				row.RentalCost = row.RentSavings
			}

			row.BuyingCosts = row.YearlyInterestPaid.Add(recurring).Add(row.ExistingPPORCGT).
				Sub(row.RentalIncome).Sub(row.TaxBenefit)
			row.CashFlowDelta = row.TotalHoldingCost.Sub(row.RentalIncome).Sub(row.TaxBenefit).Sub(row.RentalCost)

			reserve = reserve.Add(row.CashFlowDelta)
			row.OpportunityCost = reserve.Mul(oppRate)
			reserve = reserve.Add(row.OpportunityCost)

			cumOpportunity = cumOpportunity.Add(row.OpportunityCost)
			cumBuying = cumBuying.Add(row.BuyingCosts)
			cumRental = cumRental.Add(row.RentalCost)
		}

		row.InvestmentReserve = reserve
		row.CumulativeOpportunityCost = cumOpportunity
		row.CumulativeBuyingCosts = cumBuying
		row.CumulativeRentalCosts = cumRental
		row.HouseAppreciation = row.PropertyValue.Sub(details.DepositAmount).Sub(in.loanAmount)
		row.PotentialSaleCosts = in.costs.SaleCosts(row.PropertyValue)
		row.NetPosition = cumRental.
			Sub(cumOpportunity).
			Sub(cumBuying).
			Sub(in.purchaseCostsTotal).
			Add(row.HouseAppreciation).
			Sub(row.PotentialSaleCosts)
		out[i] = row
	}
	return out
}
