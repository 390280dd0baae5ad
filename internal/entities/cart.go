package entities

// DefaultTaxRate is the canteen's flat tax applied once to the cart subtotal.
const DefaultTaxRate = 0.05

const (
	MinLineQuantity = 1
	MaxLineQuantity = 10
)

// CartLine mirrors OrderLine but lives only for the session; zero-quantity
// lines are removed, never kept.
type CartLine struct {
	ItemID   string `json:"item_id"`
	Name     string `json:"name"`
	Price    int    `json:"price"`
	Quantity int    `json:"quantity"`
}

// Cart aggregates a session's pending selection. It is owned by a single
// session and carries no concurrency guarantees of its own.
type Cart struct {
	Lines []CartLine
}

// Totals is the priced view of a cart.
type Totals struct {
	Subtotal int `json:"subtotal"`
	Tax      int `json:"tax"`
	Total    int `json:"total"`
}

// Add inserts an item with quantity 1, or bumps the existing line by 1 up to
// the per-line maximum.
func (c *Cart) Add(itemID, name string, price int) {
	for i := range c.Lines {
		if c.Lines[i].ItemID == itemID {
			if c.Lines[i].Quantity < MaxLineQuantity {
				c.Lines[i].Quantity++
			}
			return
		}
	}
	c.Lines = append(c.Lines, CartLine{ItemID: itemID, Name: name, Price: price, Quantity: 1})
}

// SetQuantity adjusts a line by delta, clamped to MaxLineQuantity. A result
// below MinLineQuantity removes the line; that is policy, not an error.
func (c *Cart) SetQuantity(itemID string, delta int) {
	for i := range c.Lines {
		if c.Lines[i].ItemID != itemID {
			continue
		}
		qty := c.Lines[i].Quantity + delta
		if qty < MinLineQuantity {
			c.Remove(itemID)
			return
		}
		if qty > MaxLineQuantity {
			qty = MaxLineQuantity
		}
		c.Lines[i].Quantity = qty
		return
	}
}

// Remove drops a line entirely.
func (c *Cart) Remove(itemID string) {
	for i := range c.Lines {
		if c.Lines[i].ItemID == itemID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Lines = nil
}

// Totals prices the cart with the given tax rate.
func (c *Cart) Totals(taxRate float64) Totals {
	lines := make([]OrderLine, len(c.Lines))
	for i, l := range c.Lines {
		lines[i] = OrderLine{ItemID: l.ItemID, Name: l.Name, Price: l.Price, Quantity: l.Quantity}
	}
	return ComputeTotals(lines, taxRate)
}

// ComputeTotals is the single pricing formula shared by the cart and the
// server-side recomputation in the order service: subtotal is the sum of
// price times quantity, tax is round-half-up(subtotal*rate) applied once to
// the subtotal (not per line) to avoid cumulative rounding drift.
func ComputeTotals(lines []OrderLine, taxRate float64) Totals {
	subtotal := 0
	for _, l := range lines {
		subtotal += l.Price * l.Quantity
	}
	tax := roundHalfUp(float64(subtotal) * taxRate)
	return Totals{Subtotal: subtotal, Tax: tax, Total: subtotal + tax}
}

func roundHalfUp(v float64) int {
	return int(v + 0.5)
}
