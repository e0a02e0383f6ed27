package catalogue

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Basket is an ordered collection of product lines with an optional order
// number. Lines with the same product code are kept separate: adding a code
// twice yields two lines, never a merged one.
//
// A Basket is not safe for concurrent use; each session owns its own.
type Basket struct {
	orderNumber int
	lines       []Product
}

// NewBasket returns an empty basket with no order number assigned.
func NewBasket() *Basket {
	return &Basket{}
}

// Add appends a product line to the basket.
func (b *Basket) Add(p Product) {
	b.lines = append(b.lines, p)
}

// Lines returns a copy of the basket's product lines in insertion order.
func (b *Basket) Lines() []Product {
	out := make([]Product, len(b.lines))
	copy(out, b.lines)
	return out
}

// Size returns the number of lines in the basket.
func (b *Basket) Size() int {
	return len(b.lines)
}

// Empty reports whether the basket has no lines.
func (b *Basket) Empty() bool {
	return len(b.lines) == 0
}

// OrderNumber returns the assigned order number, or zero if none has been
// assigned yet.
func (b *Basket) OrderNumber() int {
	return b.orderNumber
}

// SetOrderNumber assigns the basket's order number. Once assigned the number
// is permanent; later calls are ignored.
func (b *Basket) SetOrderNumber(n int) {
	if b.orderNumber == 0 {
		b.orderNumber = n
	}
}

// Total returns the sum of all line totals.
func (b *Basket) Total() decimal.Decimal {
	total := decimal.Zero
	for _, p := range b.lines {
		total = total.Add(p.LineTotal())
	}
	return total
}

// Clone returns a deep copy of the basket, order number included.
func (b *Basket) Clone() *Basket {
	c := &Basket{orderNumber: b.orderNumber}
	c.lines = make([]Product, len(b.lines))
	copy(c.lines, b.lines)
	return c
}

// Clear removes all lines. The order number, if assigned, is kept.
func (b *Basket) Clear() {
	b.lines = nil
}

// Describe renders the basket for display: order number, one row per line,
// and the rounded total.
func (b *Basket) Describe() string {
	var sb strings.Builder
	if b.orderNumber != 0 {
		fmt.Fprintf(&sb, "Order number: %d\n", b.orderNumber)
	}
	for _, p := range b.lines {
		fmt.Fprintf(&sb, "%-7s %-14.14s (%3d) £%s\n",
			p.Code, p.Description, p.Quantity, p.LineTotal().StringFixed(2))
	}
	if len(b.lines) > 0 {
		fmt.Fprintf(&sb, "Total £%s\n", b.Total().StringFixed(2))
	}
	return sb.String()
}
