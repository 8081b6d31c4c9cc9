package service

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// DiscountAmount is floor(subtotal * percent / 100) in whole MAD.
// A percent outside 1..100 yields no discount.
func DiscountAmount(subtotal int64, percent int) int64 {
	if subtotal <= 0 || percent <= 0 || percent > 100 {
		return 0
	}
	return decimal.NewFromInt(subtotal).
		Mul(decimal.NewFromInt(int64(percent))).
		Div(hundred).
		Floor().
		IntPart()
}

// Totals are the money figures of a cart or an order.
type Totals struct {
	SubtotalMAD       int64 `json:"subtotal_mad"`
	DiscountPercent   int   `json:"discount_percent"`
	DiscountAmountMAD int64 `json:"discount_amount_mad"`
	TotalMAD          int64 `json:"total_mad"`
}

// ComputeTotals applies percent to subtotal.
func ComputeTotals(subtotal int64, percent int) Totals {
	if percent < 0 || percent > 100 {
		percent = 0
	}
	discount := DiscountAmount(subtotal, percent)
	return Totals{
		SubtotalMAD:       subtotal,
		DiscountPercent:   percent,
		DiscountAmountMAD: discount,
		TotalMAD:          subtotal - discount,
	}
}
