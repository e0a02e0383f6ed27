// Package orderserver is the reference implementation of the remote
// order-processing service: settled baskets move through waiting, being
// packed, and awaiting collection stages.
package orderserver

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/ministore/till/internal/domain/catalogue"
	"github.com/ministore/till/internal/domain/orders"
)

var _ orders.RemoteService = (*Service)(nil)

// Service tracks orders in memory. Safe for concurrent use; every operation
// takes one mutex, which is never held across I/O.
type Service struct {
	lg *zap.Logger

	mu          sync.Mutex
	next        int
	waiting     []*catalogue.Basket
	beingPacked map[int]*catalogue.Basket
	toCollect   []int
}

// New returns an empty service. Order numbers issued by UniqueNumber start
// at 1 and are strictly monotonic.
func New(lg *zap.Logger) *Service {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Service{
		lg:          lg,
		beingPacked: make(map[int]*catalogue.Basket),
	}
}

// NewOrder accepts a settled basket for picking. The basket joins the
// waiting queue under the order number it carries; a basket without one is
// assigned the next unique number first.
func (s *Service) NewOrder(_ context.Context, basket *catalogue.Basket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := basket.Clone()
	if b.OrderNumber() == 0 {
		s.next++
		b.SetOrderNumber(s.next)
	}
	s.waiting = append(s.waiting, b)
	s.lg.Info("order accepted",
		zap.Int("order", b.OrderNumber()), zap.Int("lines", b.Size()))
	return nil
}

// UniqueNumber issues a fresh order number.
func (s *Service) UniqueNumber(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return s.next, nil
}

// OrderToPack hands the oldest waiting basket to a packer and moves it to
// the being-packed stage. Returns nil when nothing is waiting.
func (s *Service) OrderToPack(_ context.Context) (*catalogue.Basket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.waiting) == 0 {
		return nil, nil
	}
	b := s.waiting[0]
	s.waiting = s.waiting[1:]
	s.beingPacked[b.OrderNumber()] = b
	s.lg.Info("order handed to packer", zap.Int("order", b.OrderNumber()))
	return b.Clone(), nil
}

// InformOrderPacked moves order n from being packed to awaiting collection.
func (s *Service) InformOrderPacked(_ context.Context, n int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.beingPacked[n]; !ok {
		return false, nil
	}
	delete(s.beingPacked, n)
	s.toCollect = append(s.toCollect, n)
	s.lg.Info("order packed", zap.Int("order", n))
	return true, nil
}

// InformOrderCollected removes order n from the awaiting-collection stage.
func (s *Service) InformOrderCollected(_ context.Context, n int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, m := range s.toCollect {
		if m == n {
			s.toCollect = append(s.toCollect[:i], s.toCollect[i+1:]...)
			s.lg.Info("order collected", zap.Int("order", n))
			return true, nil
		}
	}
	return false, nil
}

// OrderState returns a snapshot of every order's stage.
func (s *Service) OrderState(_ context.Context) (orders.StateSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	waiting := make([]int, 0, len(s.waiting))
	for _, b := range s.waiting {
		waiting = append(waiting, b.OrderNumber())
	}
	packing := make([]int, 0, len(s.beingPacked))
	for n := range s.beingPacked {
		packing = append(packing, n)
	}
	collect := make([]int, len(s.toCollect))
	copy(collect, s.toCollect)

	return orders.StateSnapshot{
		orders.StageWaiting:       waiting,
		orders.StageBeingPacked:   packing,
		orders.StageToBeCollected: collect,
	}, nil
}
