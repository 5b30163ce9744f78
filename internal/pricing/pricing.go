// Package pricing holds the single authoritative total-calculation rule for
// the store. Both the checkout preview on the client side and the order
// placement service derive their numbers from Calculate, so the two can never
// disagree on rate or rounding.
package pricing

import "math"

// DeliveryFeeRate is the flat surcharge applied to every order subtotal.
const DeliveryFeeRate = 0.07

// Line is anything priced per unit with a quantity.
type Line struct {
	Price    float64
	Quantity int
}

// Totals is the result of a cart or order total computation.
type Totals struct {
	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"delivery_fee"`
	Total       float64 `json:"total_amount"`
}

// Calculate computes subtotal, delivery fee and grand total for the given
// lines. A non-positive quantity counts as one unit. All three values are
// rounded to two decimals.
func Calculate(lines []Line) Totals {
	var subtotal float64
	for _, l := range lines {
		qty := l.Quantity
		if qty <= 0 {
			qty = 1
		}
		subtotal += l.Price * float64(qty)
	}
	subtotal = Round2(subtotal)
	fee := Round2(subtotal * DeliveryFeeRate)
	return Totals{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Total:       Round2(subtotal + fee),
	}
}

// LineSubtotal is the price of a single line, rounded to two decimals.
func LineSubtotal(price float64, quantity int) float64 {
	if quantity <= 0 {
		quantity = 1
	}
	return Round2(price * float64(quantity))
}

// Round2 rounds to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
