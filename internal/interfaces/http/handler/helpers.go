package handler

import "github.com/shopspring/decimal"

// toDecimal lifts a bound JSON number into the decimal type the
// domain works with.
func toDecimal(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}
