// Package pricing computes order totals. The cart and the order service both
// call Compute so that the figures shown before checkout are the figures
// stored and returned afterwards.
package pricing

import "github.com/shopspring/decimal"

// TaxRate is the sales tax applied to every order subtotal.
const TaxRate = 0.08

// Rate is TaxRate as an exact decimal.
var Rate = decimal.RequireFromString("0.08")

const centPlaces = 2

type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

func LineTotal(l Line) decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Compute returns subtotal, tax and total for lines. Tax is rounded to cents,
// so Total always carries at most two decimal places when unit prices do.
func Compute(lines []Line) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(LineTotal(l))
	}

	tax := subtotal.Mul(Rate).Round(centPlaces)

	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}

// Price converts a wire amount to a decimal without picking up binary
// floating point noise (10.99 stays 10.99).
func Price(amount float64) decimal.Decimal {
	return decimal.NewFromFloat(amount)
}

func (t Totals) SubtotalFloat() float64 { return t.Subtotal.InexactFloat64() }
func (t Totals) TaxFloat() float64      { return t.Tax.InexactFloat64() }
func (t Totals) TotalFloat() float64    { return t.Total.InexactFloat64() }
