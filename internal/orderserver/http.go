package orderserver

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/ministore/till/internal/remote"
)

// Router returns the HTTP surface of the order service. Routes mirror the
// remote.Client expectations exactly.
func Router(svc *Service) chi.Router {
	r := chi.NewRouter()
	h := &handlers{svc: svc}

	r.Post("/orders", h.newOrder)
	r.Post("/orders/number", h.uniqueNumber)
	r.Post("/orders/pack", h.orderToPack)
	r.Post("/orders/{num}/packed", h.orderPacked)
	r.Post("/orders/{num}/collected", h.orderCollected)
	r.Get("/orders/state", h.orderState)

	return r
}

type handlers struct {
	svc *Service
}

func (h *handlers) newOrder(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, "read body", http.StatusBadRequest)
		return
	}
	basket, err := remote.UnmarshalBasket(body)
	if err != nil {
		zctx.From(r.Context()).Warn("reject malformed basket", zap.Error(err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.svc.NewOrder(r.Context(), basket); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *handlers) uniqueNumber(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.UniqueNumber(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, remote.MarshalOrderNumber(n))
}

func (h *handlers) orderToPack(w http.ResponseWriter, r *http.Request) {
	basket, err := h.svc.OrderToPack(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if basket == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, remote.MarshalBasket(basket))
}

func (h *handlers) orderPacked(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.svc.InformOrderPacked)
}

func (h *handlers) orderCollected(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.svc.InformOrderCollected)
}

func (h *handlers) lifecycle(w http.ResponseWriter, r *http.Request,
	mark func(ctx context.Context, n int) (bool, error),
) {
	n, err := strconv.Atoi(chi.URLParam(r, "num"))
	if err != nil {
		http.Error(w, "invalid order number", http.StatusBadRequest)
		return
	}
	ok, err := mark(r.Context(), n)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, remote.MarshalAck(ok))
}

func (h *handlers) orderState(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.OrderState(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, remote.MarshalState(snap))
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
