package catalogue

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dvd() Product {
	return Product{
		Code:        "0001",
		Description: "DVD",
		UnitPrice:   decimal.RequireFromString("4.99"),
		Quantity:    1,
	}
}

func TestBasketKeepsDuplicateCodesAsSeparateLines(t *testing.T) {
	b := NewBasket()
	b.Add(dvd())
	b.Add(dvd())

	require.Equal(t, 2, b.Size())
	lines := b.Lines()
	assert.Equal(t, "0001", lines[0].Code)
	assert.Equal(t, "0001", lines[1].Code)
}

func TestBasketTotal(t *testing.T) {
	b := NewBasket()
	b.Add(Product{Code: "A", UnitPrice: decimal.RequireFromString("2.00"), Quantity: 1})
	b.Add(Product{Code: "B", UnitPrice: decimal.RequireFromString("1.50"), Quantity: 2})

	assert.True(t, decimal.RequireFromString("5.00").Equal(b.Total()),
		"got %s", b.Total())
}

func TestBasketOrderNumberAssignedOnce(t *testing.T) {
	b := NewBasket()
	assert.Equal(t, 0, b.OrderNumber())

	b.SetOrderNumber(1000)
	b.SetOrderNumber(2000)
	assert.Equal(t, 1000, b.OrderNumber())
}

func TestBasketCloneIsIndependent(t *testing.T) {
	b := NewBasket()
	b.SetOrderNumber(42)
	b.Add(dvd())

	c := b.Clone()
	c.Add(dvd())

	assert.Equal(t, 1, b.Size())
	assert.Equal(t, 2, c.Size())
	assert.Equal(t, 42, c.OrderNumber())
}

func TestBasketClearKeepsOrderNumber(t *testing.T) {
	b := NewBasket()
	b.SetOrderNumber(1000)
	b.Add(dvd())

	b.Clear()

	assert.True(t, b.Empty())
	assert.Equal(t, 1000, b.OrderNumber())
	assert.True(t, b.Total().IsZero())
}

func TestFormatSalesRoundsAtDisplayOnly(t *testing.T) {
	assert.Equal(t, "Total Sales: £0.00", FormatSales(decimal.Zero))
	assert.Equal(t, "Total Sales: £4.99", FormatSales(decimal.RequireFromString("4.99")))
	assert.Equal(t, "Total Sales: £2.01", FormatSales(decimal.RequireFromString("2.005")))
}

func TestProductLineTotal(t *testing.T) {
	p := Product{UnitPrice: decimal.RequireFromString("1.50"), Quantity: 3}
	assert.True(t, decimal.RequireFromString("4.50").Equal(p.LineTotal()))
}
