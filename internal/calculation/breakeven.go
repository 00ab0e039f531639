package calculation

import (
	"github.com/rgehrsitz/propgo/internal/domain"
)

// findBreakEvenYear returns the first simulated year whose net position is non-negative,
// or domain.NoBreakEven when the position stays negative for the whole term
func findBreakEvenYear(rows []domain.YearlyProjection) int {
	for _, row := range rows {
		if row.Year >= 1 && !row.NetPosition.IsNegative() {
			return row.Year
		}
	}
	return domain.NoBreakEven
}
