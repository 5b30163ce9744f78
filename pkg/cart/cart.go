// Package cart is the client-side cart and checkout engine. Cart lines live
// in a persistent local key-value store, never on the server; the server
// first sees them as an order payload at checkout. Preview totals come from
// the same pricing rule the order service applies, so the number shown before
// checkout is the number charged.
package cart

import (
	"freshmart/internal/pricing"
)

// Storage keys for the engine's records.
const (
	keyCart      = "cart"
	keyLastOrder = "last_order"
	keyHistory   = "order_history"
)

// Line is one cart entry. ProductID is optional; lines without it still
// check out, they just never touch stock.
type Line struct {
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	ProductID string  `json:"product_id,omitempty"`
}

// Cart manages the persisted line list.
type Cart struct {
	store Store
}

// New creates a Cart over the given store.
func New(store Store) *Cart {
	return &Cart{store: store}
}

// Lines returns the current cart contents in insertion order.
func (c *Cart) Lines() ([]Line, error) {
	var lines []Line
	if _, err := c.store.Get(keyCart, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// Add appends a line to the cart.
func (c *Cart) Add(line Line) error {
	lines, err := c.Lines()
	if err != nil {
		return err
	}
	return c.store.Put(keyCart, append(lines, line))
}

// Remove deletes the line at the given position. An out-of-range index is a
// silent no-op; remaining lines keep their relative order.
func (c *Cart) Remove(index int) error {
	lines, err := c.Lines()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(lines) {
		return nil
	}
	return c.store.Put(keyCart, append(lines[:index], lines[index+1:]...))
}

// Clear empties the cart.
func (c *Cart) Clear() error {
	return c.store.Delete(keyCart)
}

// Count returns the number of lines, for the cart badge.
func (c *Cart) Count() (int, error) {
	lines, err := c.Lines()
	if err != nil {
		return 0, err
	}
	return len(lines), nil
}

// Totals computes the checkout preview for the current cart.
func (c *Cart) Totals() (pricing.Totals, error) {
	lines, err := c.Lines()
	if err != nil {
		return pricing.Totals{}, err
	}
	return pricing.Calculate(toPricingLines(lines)), nil
}

func toPricingLines(lines []Line) []pricing.Line {
	out := make([]pricing.Line, 0, len(lines))
	for _, l := range lines {
		out = append(out, pricing.Line{Price: l.Price, Quantity: l.Quantity})
	}
	return out
}
