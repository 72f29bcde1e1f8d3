package quote

import "math"

// Totals is the money summary shown on the review step and stored with a
// submitted quote.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	VAT      float64 `json:"vat"`
	Total    float64 `json:"total"`
}

// ComputeTotals sums the items, applies the discount (never more than the
// subtotal) and adds VAT when the trader is VAT-registered.
func ComputeTotals(items []LineItem, s Settings) Totals {
	var t Totals
	for _, it := range items {
		t.Subtotal += it.TotalPrice
	}
	t.Subtotal = roundPennies(t.Subtotal)

	if s.DiscountValue > 0 {
		switch s.DiscountType {
		case DiscountFixed:
			t.Discount = s.DiscountValue
		default:
			t.Discount = t.Subtotal * s.DiscountValue / 100
		}
		if t.Discount > t.Subtotal {
			t.Discount = t.Subtotal
		}
		t.Discount = roundPennies(t.Discount)
	}

	net := t.Subtotal - t.Discount
	if s.VATRegistered != nil && *s.VATRegistered && s.VATRate > 0 {
		t.VAT = roundPennies(net * s.VATRate / 100)
	}
	t.Total = roundPennies(net + t.VAT)
	return t
}

func roundPennies(v float64) float64 {
	return math.Round(v*100) / 100
}
