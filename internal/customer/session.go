// Package customer implements the customer-side session: a check/add loop
// that builds a basket and places it as a pending order for a cashier to
// recall and settle at another station.
package customer

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ministore/till/internal/domain/catalogue"
	"github.com/ministore/till/internal/domain/orders"
	"github.com/ministore/till/internal/domain/stock"
	"github.com/ministore/till/pkg/observer"
)

// Session is the customer till session. Checking a product replaces the
// basket contents with a single quantity-1 line; customers hold one line at
// a time before placing.
type Session struct {
	observer.Notifier

	lg     *zap.Logger
	stock  stock.Gateway
	orders orders.Processor

	basket *catalogue.Basket
	image  string
}

// NewSession returns a customer session with a fresh basket.
func NewSession(sg stock.Gateway, op orders.Processor, lg *zap.Logger) *Session {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Session{
		lg:     lg,
		stock:  sg,
		orders: op,
		basket: catalogue.NewBasket(),
	}
}

// Basket returns the current basket.
func (s *Session) Basket() *catalogue.Basket { return s.basket }

// Image returns the image reference of the last checked product, or an empty
// string.
func (s *Session) Image() string { return s.image }

// Check clears the basket, looks the product up, and adds a quantity-1 line
// when it is in stock.
func (s *Session) Check(ctx context.Context, code string) {
	s.basket.Clear()
	code = strings.TrimSpace(code)

	exists, err := s.stock.Exists(ctx, code)
	if err != nil {
		s.lg.Error("check failed", zap.String("code", code), zap.Error(err))
		s.Publish(err.Error())
		return
	}
	if !exists {
		s.Publish("Unknown product number " + code)
		return
	}

	pr, err := s.stock.GetDetails(ctx, code)
	if err != nil {
		s.lg.Error("check failed", zap.String("code", code), zap.Error(err))
		s.Publish(err.Error())
		return
	}
	if pr.Quantity < 1 {
		s.Publish(pr.Description + " not in stock")
		return
	}

	msg := pr.CheckLine()
	pr.Quantity = 1
	s.basket.Add(pr)

	img, err := s.stock.GetImage(ctx, code)
	if err != nil {
		s.lg.Error("image lookup failed", zap.String("code", code), zap.Error(err))
	} else {
		s.image = img
	}

	s.Publish(msg)
}

// PlaceOrder submits the current basket as a pending order and resets to a
// fresh basket. An empty basket produces an error message and no store
// mutation.
func (s *Session) PlaceOrder(ctx context.Context) {
	if s.basket == nil || s.basket.Empty() {
		s.Publish("Cannot place empty order.")
		return
	}

	n, err := s.orders.NewPendingOrder(ctx, s.basket)
	if err != nil {
		s.lg.Error("place order failed", zap.Error(err))
		s.Publish(err.Error())
		return
	}

	s.basket = catalogue.NewBasket()
	s.Publish(fmt.Sprintf("Order placed. Order Number: %d", n))
}

// RecallOrder loads a pending order into the current basket without removing
// it from the store.
func (s *Session) RecallOrder(ctx context.Context, num string) {
	n, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil {
		s.Publish("Invalid order number. Please enter a number.")
		return
	}

	b, err := s.orders.GetPendingOrder(ctx, n)
	if err != nil {
		s.lg.Error("recall failed", zap.Int("order", n), zap.Error(err))
		s.Publish(err.Error())
		return
	}
	if b == nil {
		s.Publish("Order not found.")
		return
	}

	s.basket = b
	s.Publish(fmt.Sprintf("Order %d loaded.", n))
}

// Clear resets the basket and clears any displayed image.
func (s *Session) Clear() {
	s.basket.Clear()
	s.image = ""
	s.Publish("Enter Product Number")
}

// AskForUpdate emits a no-op notification so views repaint on attach.
func (s *Session) AskForUpdate() {
	s.Publish("Welcome")
}
