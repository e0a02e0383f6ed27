// Package orders implements the Order Lifecycle Coordinator: a facade over
// the remote order-processing service plus the local pending-order store.
package orders

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/ministore/till/internal/domain/catalogue"
	"github.com/ministore/till/internal/domain/orders"
)

// Dialer binds a fresh connection to the remote order service. The facade
// calls it lazily on first use and again after any remote failure.
type Dialer func(ctx context.Context) (orders.RemoteService, error)

var _ orders.Processor = (*Facade)(nil)

// Facade combines the remote order service with the local pending-order
// store behind the orders.Processor API.
//
// Remote calls serialise on a single mutex: the underlying protocol admits
// one outstanding response per connection, so two sessions must never
// interleave requests on the same handle. The mutex also guards the handle
// slot itself, which is cleared on any remote error and rebound by the next
// call. Local pending-order operations never touch this mutex.
type Facade struct {
	dial    Dialer
	lg      *zap.Logger
	pending *PendingStore

	mu   sync.Mutex
	conn orders.RemoteService
}

// NewFacade returns a Facade that binds to the remote service through dial.
func NewFacade(dial Dialer, lg *zap.Logger) *Facade {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Facade{
		dial:    dial,
		lg:      lg,
		pending: NewPendingStore(),
	}
}

// withRemote runs fn against a bound remote handle, binding first if needed.
// Any failure drops the handle and is reported as a TransportError.
func (f *Facade) withRemote(ctx context.Context, op string, fn func(r orders.RemoteService) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.conn == nil {
		conn, err := f.dial(ctx)
		if err != nil {
			f.lg.Error("bind to order service failed", zap.String("op", op), zap.Error(err))
			return &orders.TransportError{Op: op, Err: err}
		}
		f.lg.Debug("bound to order service", zap.String("op", op))
		f.conn = conn
	}

	if err := fn(f.conn); err != nil {
		f.conn = nil
		f.lg.Error("order service call failed, dropping handle",
			zap.String("op", op), zap.Error(err))
		return &orders.TransportError{Op: op, Err: err}
	}
	return nil
}

// NewOrder settles a basket with the remote service. The local pending store
// is not consulted; clearing a matching pending entry is the caller's
// responsibility.
func (f *Facade) NewOrder(ctx context.Context, basket *catalogue.Basket) error {
	return f.withRemote(ctx, "newOrder", func(r orders.RemoteService) error {
		return r.NewOrder(ctx, basket)
	})
}

// UniqueNumber returns a fresh server-issued order number.
func (f *Facade) UniqueNumber(ctx context.Context) (int, error) {
	var n int
	err := f.withRemote(ctx, "uniqueNumber", func(r orders.RemoteService) error {
		var err error
		n, err = r.UniqueNumber(ctx)
		return err
	})
	return n, err
}

// OrderToPack returns the next basket to pick, or nil when none is waiting.
func (f *Facade) OrderToPack(ctx context.Context) (*catalogue.Basket, error) {
	var b *catalogue.Basket
	err := f.withRemote(ctx, "orderToPack", func(r orders.RemoteService) error {
		var err error
		b, err = r.OrderToPack(ctx)
		return err
	})
	return b, err
}

// InformOrderPacked marks order n as packed.
func (f *Facade) InformOrderPacked(ctx context.Context, n int) (bool, error) {
	var ok bool
	err := f.withRemote(ctx, "informOrderPacked", func(r orders.RemoteService) error {
		var err error
		ok, err = r.InformOrderPacked(ctx, n)
		return err
	})
	return ok, err
}

// InformOrderCollected marks order n as collected.
func (f *Facade) InformOrderCollected(ctx context.Context, n int) (bool, error) {
	var ok bool
	err := f.withRemote(ctx, "informOrderCollected", func(r orders.RemoteService) error {
		var err error
		ok, err = r.InformOrderCollected(ctx, n)
		return err
	})
	return ok, err
}

// OrderState returns a snapshot of every order's stage.
func (f *Facade) OrderState(ctx context.Context) (orders.StateSnapshot, error) {
	var snap orders.StateSnapshot
	err := f.withRemote(ctx, "orderState", func(r orders.RemoteService) error {
		var err error
		snap, err = r.OrderState(ctx)
		return err
	})
	return snap, err
}

// NewPendingOrder stores basket as a placed-but-unpaid order and returns its
// allocated number. Purely local; never touches the remote handle.
func (f *Facade) NewPendingOrder(_ context.Context, basket *catalogue.Basket) (int, error) {
	return f.pending.NewPendingOrder(basket), nil
}

// GetPendingOrder returns the pending basket for n without removing it, or
// nil when no such order exists.
func (f *Facade) GetPendingOrder(_ context.Context, n int) (*catalogue.Basket, error) {
	return f.pending.GetPendingOrder(n), nil
}

// TakePendingOrder returns the pending basket for n and removes it.
func (f *Facade) TakePendingOrder(_ context.Context, n int) (*catalogue.Basket, error) {
	return f.pending.TakePendingOrder(n), nil
}
