package orders

import (
	"sync"

	"github.com/ministore/till/internal/domain/catalogue"
)

// pendingBase is the order number handed to the first pending order.
const pendingBase = 1000

// PendingStore is the in-process registry of placed-but-unpaid orders keyed
// by order number. Safe for concurrent use by multiple sessions.
//
// Allocation follows the size-based rule: the first order receives 1000 and
// each subsequent one 1000 plus the current store size. Numbers are
// monotonically non-decreasing while nothing is removed; TakePendingOrder can
// therefore make a previously issued number eligible for reuse. Callers that
// need strict uniqueness across removals should settle orders promptly.
type PendingStore struct {
	mu      sync.Mutex
	pending map[int]*catalogue.Basket
}

// NewPendingStore returns an empty store.
func NewPendingStore() *PendingStore {
	return &PendingStore{pending: make(map[int]*catalogue.Basket)}
}

// NewPendingOrder allocates an order number, stores a deep copy of basket
// under it, and returns the number. Copying on insert means the caller is
// free to keep mutating its basket afterwards. The stored copy always
// carries the freshly allocated number, even when the source basket was
// itself recalled from this store and still holds its old one.
func (s *PendingStore) NewPendingOrder(basket *catalogue.Basket) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := pendingBase + len(s.pending)
	stored := catalogue.NewBasket()
	stored.SetOrderNumber(n)
	for _, line := range basket.Lines() {
		stored.Add(line)
	}
	s.pending[n] = stored
	return n
}

// GetPendingOrder returns a copy of the pending basket for n, or nil when no
// such order exists. The stored entry is not removed.
func (s *PendingStore) GetPendingOrder(n int) *catalogue.Basket {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.pending[n]
	if !ok {
		return nil
	}
	return b.Clone()
}

// TakePendingOrder returns the pending basket for n and removes it from the
// store, or nil when no such order exists.
func (s *PendingStore) TakePendingOrder(n int) *catalogue.Basket {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.pending[n]
	if !ok {
		return nil
	}
	delete(s.pending, n)
	return b
}

// Size returns the number of pending orders currently held.
func (s *PendingStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
