package models

import "github.com/shopspring/decimal"

// RoundMoney rounds a currency amount to two decimal places using standard
// arithmetic (half away from zero) rounding.
func RoundMoney(amount float64) float64 {
	return decimal.NewFromFloat(amount).Round(2).InexactFloat64()
}

// Revenue computes quantity * unitPrice as a two-decimal currency amount.
func Revenue(quantity int, unitPrice float64) float64 {
	return decimal.NewFromFloat(unitPrice).
		Mul(decimal.NewFromInt(int64(quantity))).
		Round(2).
		InexactFloat64()
}

// MarginPercent computes (revenue - cost) / revenue * 100 rounded to two
// decimals. A zero revenue yields a zero margin rather than a division error.
func MarginPercent(revenue, cost float64) float64 {
	rev := decimal.NewFromFloat(revenue)
	if rev.IsZero() {
		return 0
	}
	return rev.Sub(decimal.NewFromFloat(cost)).
		Div(rev).
		Mul(decimal.NewFromInt(100)).
		Round(2).
		InexactFloat64()
}
