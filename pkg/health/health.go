// Package health provides liveness and readiness endpoints for the order
// daemon. Checks run on demand when a probe arrives; the daemon toggles
// readiness around startup and drain.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// CheckFunc reports nil when the checked component is healthy.
type CheckFunc func(ctx context.Context) error

type check struct {
	name    string
	timeout time.Duration
	fn      CheckFunc
}

// Health serves liveness and readiness probes.
type Health struct {
	ready atomic.Bool

	mu     sync.RWMutex
	checks []check
}

// New returns a Health that reports not-ready until SetReady(true).
func New() *Health {
	return &Health{}
}

// SetReady flips the readiness gate. Readiness checks still run; the gate
// lets the daemon drain before shutdown regardless of check results.
func (h *Health) SetReady(ready bool) {
	h.ready.Store(ready)
}

// AddReadinessCheck registers a named check evaluated on every readiness
// probe, each bounded by its own timeout.
func (h *Health) AddReadinessCheck(name string, timeout time.Duration, fn CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks = append(h.checks, check{name: name, timeout: timeout, fn: fn})
}

// LiveEndpoint always answers 200: if the process can serve the request it
// is alive.
func (h *Health) LiveEndpoint(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// ReadyEndpoint answers 200 when the readiness gate is open and every check
// passes, 503 otherwise, with a JSON body naming each check's status.
func (h *Health) ReadyEndpoint(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	checks := make([]check, len(h.checks))
	copy(checks, h.checks)
	h.mu.RUnlock()

	status := http.StatusOK
	result := make(map[string]string, len(checks)+1)

	if !h.ready.Load() {
		status = http.StatusServiceUnavailable
		result["ready"] = "false"
	}

	for _, c := range checks {
		ctx, cancel := context.WithTimeout(r.Context(), c.timeout)
		err := c.fn(ctx)
		cancel()
		if err != nil {
			status = http.StatusServiceUnavailable
			result[c.name] = err.Error()
		} else {
			result[c.name] = "ok"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(result)
}
