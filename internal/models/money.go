package models

import "math"

// RoundMoney rounds a currency amount to two decimals. All computed
// amounts (line items, splits, totals) pass through this before storage.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
