// Package orders defines the order-processing contracts: the remote service
// wire boundary and the full Processor API exposed to till clients.
package orders

import (
	"context"
	"fmt"

	"github.com/ministore/till/internal/domain/catalogue"
)

// Stage labels reported by OrderState snapshots.
const (
	StageWaiting       = "Waiting"
	StageBeingPacked   = "BeingPacked"
	StageToBeCollected = "ToBeCollected"
)

// StateSnapshot maps a stage label to the order numbers currently in that
// stage.
type StateSnapshot map[string][]int

// TransportError indicates an order-tier transport failure. The facade drops
// its remote handle on this error and rebinds on the next call.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("order service: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RemoteService is the wire contract of the order-processing tier.
type RemoteService interface {
	// NewOrder accepts a settled basket for warehouse picking. The order
	// number is taken from the basket.
	NewOrder(ctx context.Context, basket *catalogue.Basket) error

	// UniqueNumber returns a fresh server-issued order number for a
	// locally built basket.
	UniqueNumber(ctx context.Context) (int, error)

	// OrderToPack returns the next basket to pick, or nil when none is
	// waiting.
	OrderToPack(ctx context.Context) (*catalogue.Basket, error)

	// InformOrderPacked marks order n as picked and packed, reporting
	// whether n was known to the service.
	InformOrderPacked(ctx context.Context, n int) (bool, error)

	// InformOrderCollected marks order n as collected by the customer,
	// reporting whether n was awaiting collection.
	InformOrderCollected(ctx context.Context, n int) (bool, error)

	// OrderState returns a snapshot of every order's stage.
	OrderState(ctx context.Context) (StateSnapshot, error)
}

// Processor is the full order API seen by till clients: the remote service
// operations plus the local pending-order store.
type Processor interface {
	RemoteService

	// NewPendingOrder stores a placed-but-unpaid basket and returns its
	// allocated order number.
	NewPendingOrder(ctx context.Context, basket *catalogue.Basket) (int, error)

	// GetPendingOrder returns the pending basket for n without removing
	// it, or nil when no such order exists.
	GetPendingOrder(ctx context.Context, n int) (*catalogue.Basket, error)

	// TakePendingOrder returns the pending basket for n and removes it
	// from the store, or nil when no such order exists.
	TakePendingOrder(ctx context.Context, n int) (*catalogue.Basket, error)
}
