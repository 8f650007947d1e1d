package api

import (
	"context"
	"net/http"
	"time"

	"github.com/Sternrassler/catalog-api/pkg/cache"
)

// Pinger is implemented by document stores that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// healthTimeout bounds each dependency probe.
const healthTimeout = 2 * time.Second

// HealthStatus is the body of /health and /ready.
type HealthStatus struct {
	Status    string    `json:"status"`
	Store     string    `json:"store"`
	Cache     string    `json:"cache"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthHandler reports the state of the store and the cache.
type HealthHandler struct {
	store        Pinger
	cache        cache.Store
	cacheEnabled bool
}

// NewHealthHandler creates a health handler. A nil cache reports as disabled.
func NewHealthHandler(store Pinger, c cache.Store) *HealthHandler {
	_, noop := c.(cache.Noop)
	return &HealthHandler{
		store:        store,
		cache:        c,
		cacheEnabled: c != nil && !noop,
	}
}

func (h *HealthHandler) probe(ctx context.Context) (HealthStatus, bool) {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	status := HealthStatus{Status: "healthy", Store: "ok", Cache: "disabled", Timestamp: time.Now().UTC()}

	storeOK := true
	if h.store != nil {
		if err := h.store.Ping(ctx); err != nil {
			storeOK = false
			status.Store = "unreachable"
			status.Status = "degraded"
		}
	}

	if h.cacheEnabled {
		status.Cache = "available"
		if !h.cache.Available(ctx) {
			status.Cache = "unavailable"
			status.Status = "degraded"
		}
	}

	return status, storeOK
}

// Live handles GET /health. It always answers 200 while the process runs.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	status, _ := h.probe(r.Context())
	writeJSON(w, http.StatusOK, status)
}

// Ready handles GET /ready. It fails only when the store is unreachable;
// a cache outage degrades performance, not correctness.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	status, storeOK := h.probe(r.Context())
	if !storeOK {
		status.Status = "unavailable"
		writeJSON(w, http.StatusServiceUnavailable, status)
		return
	}
	writeJSON(w, http.StatusOK, status)
}
