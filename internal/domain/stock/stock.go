// Package stock defines the gateway to the stock tier: catalogue lookups and
// stock level mutations for a product code.
package stock

import (
	"context"
	"fmt"

	"github.com/ministore/till/internal/domain/catalogue"
)

// UnknownProductError indicates a product code absent from the catalogue.
type UnknownProductError struct {
	Code string
}

func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("Unknown product number %s", e.Code)
}

// BackendError indicates a stock-tier transport or query failure. The
// underlying cause is never swallowed; sessions surface it as an action
// message.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("stock backend: %s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// Gateway reads and mutates stock for product codes. All operations appear
// synchronous to callers; implementations may delegate to a remote service
// and must surface transport failure as a BackendError.
type Gateway interface {
	// Exists reports whether the product code is in the catalogue.
	Exists(ctx context.Context, code string) (bool, error)

	// GetDetails returns the catalogue entry for code with its on-hand
	// stock level in Quantity. Fails with UnknownProductError if absent.
	GetDetails(ctx context.Context, code string) (catalogue.Product, error)

	// GetImage returns an opaque image reference for the product, or an
	// empty string when no image is recorded.
	GetImage(ctx context.Context, code string) (string, error)

	// BuyStock atomically decrements on-hand stock by qty if at least qty
	// units are available, reporting whether the purchase took place. A
	// false return has no side effect.
	BuyStock(ctx context.Context, code string, qty int) (bool, error)

	// AddStock increments on-hand stock by qty. Used by refunds.
	AddStock(ctx context.Context, code string, qty int) error
}
