// Package till implements the cashier-side session: a two-state machine that
// checks availability, buys stock line by line, settles baskets with the
// order service, and keeps a running per-session sales total with a matching
// refund operation.
package till

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ministore/till/internal/domain/catalogue"
	"github.com/ministore/till/internal/domain/orders"
	"github.com/ministore/till/internal/domain/stock"
	"github.com/ministore/till/pkg/observer"
)

// State is the cashier session state.
type State int

const (
	// StateProcess accepts a new availability check.
	StateProcess State = iota
	// StateChecked holds a checked product awaiting Buy.
	StateChecked
)

func (s State) String() string {
	switch s {
	case StateProcess:
		return "process"
	case StateChecked:
		return "checked"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// eventKind enumerates the closed set of session events.
type eventKind int

const (
	evCheck eventKind = iota
	evBuy
	evBought
	evRefund
	evRecall
	evUpdate
)

// event carries one session input through the apply dispatcher.
type event struct {
	kind eventKind
	arg  string
}

// Session is the cashier till session. It is driven by a single goroutine;
// the stock gateway and order processor it talks to are shared and safe for
// concurrent use.
type Session struct {
	observer.Notifier

	lg     *zap.Logger
	stock  stock.Gateway
	orders orders.Processor

	state       State
	current     *catalogue.Product
	basket      *catalogue.Basket
	lastSettled *catalogue.Basket
	refunded    int
	sales       decimal.Decimal
}

// NewSession returns a cashier session in the initial process state.
func NewSession(sg stock.Gateway, op orders.Processor, lg *zap.Logger) *Session {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Session{
		lg:     lg,
		stock:  sg,
		orders: op,
		state:  StateProcess,
		sales:  decimal.Zero,
	}
}

// Basket returns the basket being assembled, or nil before the first
// purchase commits.
func (s *Session) Basket() *catalogue.Basket { return s.basket }

// LastSettled returns the most recently settled basket, or nil when there is
// nothing to refund.
func (s *Session) LastSettled() *catalogue.Basket { return s.lastSettled }

// SessionSales returns the running sales total at full precision. Round only
// for display, via catalogue.FormatSales.
func (s *Session) SessionSales() decimal.Decimal { return s.sales }

// CurrentState returns the session state.
func (s *Session) CurrentState() State { return s.state }

// Check looks up a product's availability. On success the session moves to
// the checked state holding a single unit of the product.
func (s *Session) Check(ctx context.Context, code string) {
	s.publish(s.apply(ctx, event{kind: evCheck, arg: code}))
}

// Buy purchases one unit of the checked product, reserving stock and adding
// the line to the session basket. The session returns to the process state
// whatever the outcome.
func (s *Session) Buy(ctx context.Context) {
	s.publish(s.apply(ctx, event{kind: evBuy}))
}

// Bought settles the assembled basket with the order service. On transport
// failure the basket is retained so the cashier can retry.
func (s *Session) Bought(ctx context.Context) {
	s.publish(s.apply(ctx, event{kind: evBought}))
}

// Refund returns every line of the last settled basket to stock and deducts
// its total from the session sales. A refund that fails partway can be
// retried and resumes with the first unrestored line. A second refund with
// nothing settled is a no-op beyond its message.
func (s *Session) Refund(ctx context.Context) {
	s.publish(s.apply(ctx, event{kind: evRefund}))
}

// RecallOrder loads a pending order into the session basket and adds its
// total to the session sales, mirroring the purchases that would otherwise
// have accrued line by line.
func (s *Session) RecallOrder(ctx context.Context, num string) {
	s.publish(s.apply(ctx, event{kind: evRecall, arg: num}))
}

// AskForUpdate emits a no-op notification so views repaint on attach.
func (s *Session) AskForUpdate() {
	s.publish(s.apply(context.Background(), event{kind: evUpdate}))
}

func (s *Session) publish(msg string) {
	s.lg.Debug("session notification",
		zap.String("state", s.state.String()), zap.String("action", msg))
	s.Publish(msg)
}

// apply is the single transition entry point. It mutates session state and
// returns the action message to publish.
func (s *Session) apply(ctx context.Context, ev event) string {
	switch ev.kind {
	case evCheck:
		return s.doCheck(ctx, ev.arg)
	case evBuy:
		return s.doBuy(ctx)
	case evBought:
		return s.doBought(ctx)
	case evRefund:
		return s.doRefund(ctx)
	case evRecall:
		return s.doRecall(ctx, ev.arg)
	case evUpdate:
		return "Welcome"
	default:
		// Defensive: unknown events should not occur.
		s.lg.Error("unknown session event", zap.Int("kind", int(ev.kind)))
		s.state = StateProcess
		return "internal error"
	}
}

func (s *Session) doCheck(ctx context.Context, code string) string {
	s.state = StateProcess
	code = strings.TrimSpace(code)

	pr, err := s.stock.GetDetails(ctx, code)
	if err != nil {
		var unknown *stock.UnknownProductError
		if errors.As(err, &unknown) {
			return unknown.Error()
		}
		s.lg.Error("check failed", zap.String("code", code), zap.Error(err))
		return err.Error()
	}
	if pr.Quantity < 1 {
		return pr.Description + " not in stock"
	}

	msg := pr.CheckLine()
	pr.Quantity = 1
	s.current = &pr
	s.state = StateChecked
	return msg
}

func (s *Session) doBuy(ctx context.Context) string {
	if s.state != StateChecked || s.current == nil {
		s.state = StateProcess
		return "please check availability first."
	}
	defer func() { s.state = StateProcess }()

	bought, err := s.stock.BuyStock(ctx, s.current.Code, s.current.Quantity)
	if err != nil {
		s.lg.Error("buy failed", zap.String("code", s.current.Code), zap.Error(err))
		return err.Error()
	}
	if !bought {
		return "!!! Not in stock"
	}

	if s.basket == nil {
		n, err := s.orders.UniqueNumber(ctx)
		if err != nil {
			// The stock decrement already happened; put the unit
			// back so the failed purchase leaves no trace.
			if addErr := s.stock.AddStock(ctx, s.current.Code, s.current.Quantity); addErr != nil {
				s.lg.Error("restore after failed order-number fetch",
					zap.String("code", s.current.Code), zap.Error(addErr))
			}
			return err.Error()
		}
		s.basket = catalogue.NewBasket()
		s.basket.SetOrderNumber(n)
	}

	s.basket.Add(*s.current)
	s.sales = s.sales.Add(s.current.LineTotal())
	return "Purchased " + s.current.Description
}

func (s *Session) doBought(ctx context.Context) string {
	if s.basket == nil || s.basket.Empty() {
		s.state = StateProcess
		s.basket = nil
		return "Start New Order"
	}

	if err := s.orders.NewOrder(ctx, s.basket); err != nil {
		// Keep the basket so the cashier can retry once the order
		// service is reachable again.
		s.lg.Error("settle failed", zap.Int("order", s.basket.OrderNumber()), zap.Error(err))
		return err.Error()
	}

	s.lastSettled = s.basket
	s.refunded = 0
	s.basket = nil
	s.state = StateProcess
	return "Start New Order"
}

func (s *Session) doRefund(ctx context.Context) string {
	if s.lastSettled == nil {
		return "No completed order to refund!"
	}

	// refunded marks how many lines are already back in stock, so a retry
	// after a mid-refund failure never credits a line twice.
	lines := s.lastSettled.Lines()
	for s.refunded < len(lines) {
		line := lines[s.refunded]
		if err := s.stock.AddStock(ctx, line.Code, line.Quantity); err != nil {
			// Retain lastSettled so the refund can be retried.
			s.lg.Error("refund restore failed",
				zap.String("code", line.Code), zap.Error(err))
			return err.Error()
		}
		s.refunded++
	}

	s.sales = s.sales.Sub(s.lastSettled.Total())
	s.lastSettled = nil
	s.refunded = 0
	return "Last order refunded successfully!"
}

func (s *Session) doRecall(ctx context.Context, num string) string {
	n, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil {
		return "Invalid order number. Please enter a number."
	}

	b, err := s.orders.GetPendingOrder(ctx, n)
	if err != nil {
		s.lg.Error("recall failed", zap.Int("order", n), zap.Error(err))
		return err.Error()
	}
	if b == nil {
		return "Order not found."
	}

	s.basket = b
	s.sales = s.sales.Add(b.Total())
	return fmt.Sprintf("Order %d loaded.", n)
}
