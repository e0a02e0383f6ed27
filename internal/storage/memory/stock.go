// Package memory provides an in-process stock gateway used by tests and by
// tills running without a database backend.
package memory

import (
	"context"
	"sync"

	"github.com/ministore/till/internal/domain/catalogue"
	"github.com/ministore/till/internal/domain/stock"
)

var _ stock.Gateway = (*Stock)(nil)

// Stock is a mutex-guarded in-memory stock gateway. The zero value is not
// usable; construct with New.
type Stock struct {
	mu    sync.Mutex
	items map[string]*catalogue.Product
}

// New returns an empty in-memory stock gateway.
func New() *Stock {
	return &Stock{items: make(map[string]*catalogue.Product)}
}

// Seed inserts or replaces a catalogue entry. Quantity is the on-hand level.
func (s *Stock) Seed(p catalogue.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := p
	s.items[p.Code] = &cp
}

// Exists reports whether code is in the catalogue.
func (s *Stock) Exists(_ context.Context, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.items[code]
	return ok, nil
}

// GetDetails returns a copy of the catalogue entry for code.
func (s *Stock) GetDetails(_ context.Context, code string) (catalogue.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[code]
	if !ok {
		return catalogue.Product{}, &stock.UnknownProductError{Code: code}
	}
	return *p, nil
}

// GetImage returns the image reference for code.
func (s *Stock) GetImage(_ context.Context, code string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[code]
	if !ok {
		return "", &stock.UnknownProductError{Code: code}
	}
	return p.ImageRef, nil
}

// BuyStock decrements on-hand stock by qty if enough is available. The check
// and decrement happen under one lock, so concurrent buyers cannot oversell.
func (s *Stock) BuyStock(_ context.Context, code string, qty int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[code]
	if !ok {
		return false, &stock.UnknownProductError{Code: code}
	}
	if p.Quantity < qty {
		return false, nil
	}
	p.Quantity -= qty
	return true, nil
}

// AddStock increments on-hand stock by qty.
func (s *Stock) AddStock(_ context.Context, code string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[code]
	if !ok {
		return &stock.UnknownProductError{Code: code}
	}
	p.Quantity += qty
	return nil
}
