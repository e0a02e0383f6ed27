package catalogue

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Product is a catalogue entry. Quantity is context dependent: in catalogue
// lookups it is the on-hand stock level, inside a basket it is the number of
// units purchased on that line.
type Product struct {
	Code        string
	Description string
	UnitPrice   decimal.Decimal
	Quantity    int
	ImageRef    string
}

// LineTotal returns UnitPrice multiplied by Quantity.
func (p Product) LineTotal() decimal.Decimal {
	return p.UnitPrice.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

// CheckLine renders the action message shown after a successful availability
// check: description, unit price and on-hand quantity.
func (p Product) CheckLine() string {
	price, _ := p.UnitPrice.Round(2).Float64()
	return fmt.Sprintf("%s : %7.2f (%2d) ", p.Description, price, p.Quantity)
}

// FormatSales renders a running sales total for display. Rounding happens
// only here; the underlying total is kept at full precision.
func FormatSales(total decimal.Decimal) string {
	return fmt.Sprintf("Total Sales: £%s", total.StringFixed(2))
}
