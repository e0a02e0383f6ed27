package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ministore/till/internal/domain/catalogue"
	"github.com/ministore/till/internal/domain/stock"
)

var _ stock.Gateway = (*Stock)(nil)

// Stock implements the stock gateway on a PostgreSQL pool. Purchases are
// server-side atomic: a single guarded UPDATE performs the availability check
// and the decrement, so concurrent tills cannot oversell a product.
type Stock struct {
	pool *pgxpool.Pool
}

// NewStock returns a Stock gateway using the given pool.
func NewStock(pool *pgxpool.Pool) *Stock {
	return &Stock{pool: pool}
}

// Exists reports whether code is in the catalogue.
func (s *Stock) Exists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM products WHERE code = $1)`, code).Scan(&exists)
	if err != nil {
		return false, &stock.BackendError{Op: "exists", Err: err}
	}
	return exists, nil
}

// GetDetails returns the catalogue entry for code with its on-hand quantity.
func (s *Stock) GetDetails(ctx context.Context, code string) (catalogue.Product, error) {
	var p catalogue.Product
	err := s.pool.QueryRow(ctx,
		`SELECT code, description, unit_price, quantity, image_ref
		   FROM products WHERE code = $1`, code).
		Scan(&p.Code, &p.Description, &p.UnitPrice, &p.Quantity, &p.ImageRef)
	if errors.Is(err, pgx.ErrNoRows) {
		return catalogue.Product{}, &stock.UnknownProductError{Code: code}
	}
	if err != nil {
		return catalogue.Product{}, &stock.BackendError{Op: "getDetails", Err: err}
	}
	return p, nil
}

// GetImage returns the stored image reference for code.
func (s *Stock) GetImage(ctx context.Context, code string) (string, error) {
	var ref string
	err := s.pool.QueryRow(ctx,
		`SELECT image_ref FROM products WHERE code = $1`, code).Scan(&ref)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", &stock.UnknownProductError{Code: code}
	}
	if err != nil {
		return "", &stock.BackendError{Op: "getImage", Err: err}
	}
	return ref, nil
}

// BuyStock decrements on-hand stock by qty when at least qty units remain.
// The guard lives in the WHERE clause, making check and decrement one atomic
// statement.
func (s *Stock) BuyStock(ctx context.Context, code string, qty int) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE products
		    SET quantity = quantity - $2, updated_at = now()
		  WHERE code = $1 AND quantity >= $2`, code, qty)
	if err != nil {
		return false, &stock.BackendError{Op: "buyStock", Err: err}
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}

	// Nothing updated: either not enough stock or the code is unknown.
	exists, err := s.Exists(ctx, code)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, &stock.UnknownProductError{Code: code}
	}
	return false, nil
}

// AddStock increments on-hand stock by qty.
func (s *Stock) AddStock(ctx context.Context, code string, qty int) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE products
		    SET quantity = quantity + $2, updated_at = now()
		  WHERE code = $1`, code, qty)
	if err != nil {
		return &stock.BackendError{Op: "addStock", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return &stock.UnknownProductError{Code: code}
	}
	return nil
}

// Upsert inserts or replaces a catalogue entry. Used by the seeder.
func (s *Stock) Upsert(ctx context.Context, p catalogue.Product) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO products (code, description, unit_price, quantity, image_ref)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (code) DO UPDATE
		    SET description = EXCLUDED.description,
		        unit_price  = EXCLUDED.unit_price,
		        quantity    = EXCLUDED.quantity,
		        image_ref   = EXCLUDED.image_ref,
		        updated_at  = now()`,
		p.Code, p.Description, p.UnitPrice, p.Quantity, p.ImageRef)
	if err != nil {
		return &stock.BackendError{Op: "upsert", Err: err}
	}
	return nil
}
