package domain

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// AfterTax returns the value of a holding after the flat crypto tax deduction.
// Only crypto records with a positive tax rate are adjusted; everything else is
// returned unchanged. Rounding is half away from zero.
func AfterTax(a Asset) int64 {
	if a.Category != CategoryCrypto || a.TaxRate == nil || *a.TaxRate <= 0 {
		return a.Amount
	}
	keep := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(*a.TaxRate).Div(hundred))
	return decimal.NewFromInt(a.Amount).Mul(keep).Round(0).IntPart()
}

// Percentage returns part/total*100, or zero when total is zero.
func Percentage(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	f, _ := decimal.NewFromInt(part).Mul(hundred).Div(decimal.NewFromInt(total)).Float64()
	return f
}
