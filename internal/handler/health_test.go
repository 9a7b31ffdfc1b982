package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipeshare/recipeshare/internal/repository/memory"
)

// blockingChecker waits for the readiness deadline.
type blockingChecker struct{}

func (blockingChecker) Ping(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func readyz(t *testing.T, h *HealthHandler, req *http.Request) (int, HealthResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Readyz(rec, req)
	return rec.Code, decodeInto[HealthResponse](t, rec)
}

func TestHealthz_IgnoresDependencies(t *testing.T) {
	store := memory.New()
	store.Err = errors.New("store offline")
	h := NewHealthHandler(store, store)

	rec := httptest.NewRecorder()
	h.Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeInto[HealthResponse](t, rec)
	assert.Equal(t, "ok", resp.Status)
	assert.Empty(t, resp.Checks)
}

func TestReadyz(t *testing.T) {
	down := memory.New()
	down.Err = errors.New("connection refused")

	tests := []struct {
		name       string
		store      HealthChecker
		cache      HealthChecker
		wantStatus int
		wantBody   HealthResponse
	}{
		{
			name:       "all reachable",
			store:      memory.New(),
			cache:      memory.New(),
			wantStatus: http.StatusOK,
			wantBody:   HealthResponse{Status: "ok", Checks: map[string]string{"store": "ok", "cache": "ok"}},
		},
		{
			name:       "store down",
			store:      down,
			cache:      memory.New(),
			wantStatus: http.StatusServiceUnavailable,
			wantBody: HealthResponse{Status: "unhealthy", Checks: map[string]string{
				"store": "error: connection refused",
				"cache": "ok",
			}},
		},
		{
			name:       "cache down",
			store:      memory.New(),
			cache:      down,
			wantStatus: http.StatusServiceUnavailable,
			wantBody: HealthResponse{Status: "unhealthy", Checks: map[string]string{
				"store": "ok",
				"cache": "error: connection refused",
			}},
		},
		{
			name:       "cache not configured",
			store:      memory.New(),
			wantStatus: http.StatusOK,
			wantBody:   HealthResponse{Status: "ok", Checks: map[string]string{"store": "ok", "cache": "not configured"}},
		},
		{
			name:       "nothing configured",
			wantStatus: http.StatusOK,
			wantBody: HealthResponse{Status: "ok", Checks: map[string]string{
				"store": "not configured",
				"cache": "not configured",
			}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHealthHandler(tc.store, tc.cache)
			code, resp := readyz(t, h, httptest.NewRequest(http.MethodGet, "/readyz", nil))
			assert.Equal(t, tc.wantStatus, code)
			assert.Equal(t, tc.wantBody, resp)
		})
	}
}

func TestReadyz_StoreRecovers(t *testing.T) {
	store := memory.New()
	store.Err = errors.New("starting up")
	h := NewHealthHandler(store, nil)

	code, _ := readyz(t, h, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusServiceUnavailable, code)

	store.Err = nil
	code, resp := readyz(t, h, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", resp.Checks["store"])
}

func TestReadyz_HonoursRequestDeadline(t *testing.T) {
	h := NewHealthHandler(blockingChecker{}, memory.New())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil).WithContext(ctx)

	start := time.Now()
	code, resp := readyz(t, h, req)

	assert.Less(t, time.Since(start), readyTimeout)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "error: "+context.DeadlineExceeded.Error(), resp.Checks["store"])
	assert.Equal(t, "ok", resp.Checks["cache"])
}
