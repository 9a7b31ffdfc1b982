package handler

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// readyTimeout bounds a whole readiness check.
const readyTimeout = 3 * time.Second

// Check values reported per dependency by Readyz.
const (
	checkOK            = "ok"
	checkNotConfigured = "not configured"
	checkErrorPrefix   = "error: "
)

// HealthChecker is anything readiness can ping: the recipe store or the
// rate limit cache.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type dependency struct {
	name    string
	checker HealthChecker
}

// HealthHandler serves the liveness and readiness endpoints.
type HealthHandler struct {
	deps []dependency
}

// NewHealthHandler reports on the recipe store and the rate limit cache.
// A nil checker shows up as "not configured" and never fails readiness.
func NewHealthHandler(store, cache HealthChecker) *HealthHandler {
	return &HealthHandler{deps: []dependency{
		{name: "store", checker: store},
		{name: "cache", checker: cache},
	}}
}

// HealthResponse is the body of both health endpoints.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Healthz handles GET /healthz. It never touches a dependency.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Readyz handles GET /readyz. Dependencies are pinged concurrently and
// any failure turns the answer into 503.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	checks := h.ping(ctx)

	resp := HealthResponse{Status: "ok", Checks: checks}
	status := http.StatusOK
	for _, result := range checks {
		if result != checkOK && result != checkNotConfigured {
			resp.Status = "unhealthy"
			status = http.StatusServiceUnavailable
			break
		}
	}

	writeJSON(w, status, resp)
}

func (h *HealthHandler) ping(ctx context.Context) map[string]string {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		checks = make(map[string]string, len(h.deps))
	)

	for _, dep := range h.deps {
		if dep.checker == nil {
			checks[dep.name] = checkNotConfigured
			continue
		}

		wg.Add(1)
		go func(dep dependency) {
			defer wg.Done()

			result := checkOK
			if err := dep.checker.Ping(ctx); err != nil {
				result = checkErrorPrefix + err.Error()
			}

			mu.Lock()
			checks[dep.name] = result
			mu.Unlock()
		}(dep)
	}

	wg.Wait()
	return checks
}
