package customer

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ministore/till/internal/domain/catalogue"
	dorders "github.com/ministore/till/internal/domain/orders"
	olc "github.com/ministore/till/internal/orders"
	"github.com/ministore/till/internal/storage/memory"
)

// fixture wires a customer session to an in-memory catalogue and a facade
// whose remote half is never reached (pending orders are local).
type fixture struct {
	session  *Session
	stock    *memory.Stock
	facade   *olc.Facade
	messages []string
}

func newFixture() *fixture {
	st := memory.New()
	st.Seed(catalogue.Product{
		Code:        "0002",
		Description: "DAB Radio",
		UnitPrice:   decimal.RequireFromString("29.99"),
		Quantity:    3,
		ImageRef:    "images/pic0002.jpg",
	})

	f := &fixture{
		stock: st,
		facade: olc.NewFacade(func(context.Context) (dorders.RemoteService, error) {
			return nil, fmt.Errorf("remote unavailable")
		}, nil),
	}
	f.session = NewSession(st, f.facade, nil)
	f.session.Subscribe(func(msg string) { f.messages = append(f.messages, msg) })
	return f
}

func (f *fixture) lastMessage() string {
	if len(f.messages) == 0 {
		return ""
	}
	return f.messages[len(f.messages)-1]
}

func TestCheckReplacesBasketWithSingleLine(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.session.Check(ctx, "0002")
	require.Equal(t, 1, f.session.Basket().Size())
	assert.Equal(t, "images/pic0002.jpg", f.session.Image())
	assert.Equal(t, fmt.Sprintf("%s : %7.2f (%2d) ", "DAB Radio", 29.99, 3), f.lastMessage())

	// Checking again replaces rather than appends: customers hold one
	// line at a time.
	f.session.Check(ctx, "0002")
	assert.Equal(t, 1, f.session.Basket().Size())
}

func TestCheckUnknownProduct(t *testing.T) {
	f := newFixture()

	f.session.Check(context.Background(), "9999")

	assert.Equal(t, "Unknown product number 9999", f.lastMessage())
	assert.True(t, f.session.Basket().Empty())
}

func TestPlaceOrderStoresPendingAndResets(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.session.Check(ctx, "0002")
	f.session.PlaceOrder(ctx)

	assert.Equal(t, "Order placed. Order Number: 1000", f.lastMessage())
	assert.True(t, f.session.Basket().Empty())

	stored, err := f.facade.GetPendingOrder(ctx, 1000)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 1, stored.Size())
}

func TestPlaceOrderEmptyBasket(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.session.PlaceOrder(ctx)

	assert.Equal(t, "Cannot place empty order.", f.lastMessage())
	b, err := f.facade.GetPendingOrder(ctx, 1000)
	require.NoError(t, err)
	assert.Nil(t, b, "empty order must not reach the store")
}

func TestRecallOrderLoadsWithoutRemoving(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.session.Check(ctx, "0002")
	f.session.PlaceOrder(ctx)

	f.session.RecallOrder(ctx, "1000")
	assert.Equal(t, "Order 1000 loaded.", f.lastMessage())
	assert.Equal(t, 1, f.session.Basket().Size())

	f.session.RecallOrder(ctx, "1000")
	assert.Equal(t, "Order 1000 loaded.", f.lastMessage())
}

func TestRecallThenPlaceCreatesCoherentEntry(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.session.Check(ctx, "0002")
	f.session.PlaceOrder(ctx)

	f.session.RecallOrder(ctx, "1000")
	f.session.PlaceOrder(ctx)
	assert.Equal(t, "Order placed. Order Number: 1001", f.lastMessage())

	// The new entry must answer to its own number, so settling it cannot
	// collide with the order it was recalled from.
	stored, err := f.facade.GetPendingOrder(ctx, 1001)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 1001, stored.OrderNumber())
}

func TestRecallOrderInvalidInput(t *testing.T) {
	f := newFixture()

	f.session.RecallOrder(context.Background(), "abc")
	assert.Equal(t, "Invalid order number. Please enter a number.", f.lastMessage())

	f.session.RecallOrder(context.Background(), "4242")
	assert.Equal(t, "Order not found.", f.lastMessage())
}

func TestClearResetsBasketAndImage(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.session.Check(ctx, "0002")
	f.session.Clear()

	assert.Equal(t, "Enter Product Number", f.lastMessage())
	assert.True(t, f.session.Basket().Empty())
	assert.Empty(t, f.session.Image())
}
