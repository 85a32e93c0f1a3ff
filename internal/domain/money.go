package domain

import "github.com/shopspring/decimal"

// MoneyScale is the number of decimal places stored for balances and prices.
const MoneyScale = 2

// ValidAmount reports whether d is positive and fits MoneyScale without rounding.
func ValidAmount(d decimal.Decimal) bool {
	return d.IsPositive() && d.Equal(d.Truncate(MoneyScale))
}
