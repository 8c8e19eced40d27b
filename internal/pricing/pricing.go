// Package pricing derives order totals from validated line items.
//
// Tax and shipping are fixed business rules: 8% tax on the subtotal, flat
// 15.99 shipping waived above a 100 subtotal. Arithmetic runs on decimals so
// repeated float accumulation cannot drift the stored totals.
package pricing

import "github.com/shopspring/decimal"

var (
	taxRate           = decimal.NewFromFloat(0.08)
	shippingFlat      = decimal.NewFromFloat(15.99)
	freeShippingAbove = decimal.NewFromInt(100)
)

// LineItem is the minimal shape pricing needs from a validated order item.
type LineItem struct {
	Price    float64
	Quantity int
}

// Totals is the derived money breakdown of an order, each figure rounded to
// two decimal places.
type Totals struct {
	Subtotal float64
	Tax      float64
	Shipping float64
	Total    float64
}

// Compute returns subtotal, tax, shipping, and total for the given items.
func Compute(items []LineItem) Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		line := decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity)))
		subtotal = subtotal.Add(line)
	}

	tax := subtotal.Mul(taxRate)
	shipping := shippingFlat
	if subtotal.GreaterThan(freeShippingAbove) {
		shipping = decimal.Zero
	}
	total := subtotal.Add(tax).Add(shipping)

	return Totals{
		Subtotal: subtotal.Round(2).InexactFloat64(),
		Tax:      tax.Round(2).InexactFloat64(),
		Shipping: shipping.Round(2).InexactFloat64(),
		Total:    total.Round(2).InexactFloat64(),
	}
}
