package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/recipeshare/recipeshare/internal/metrics"
)

func TestMetricsHandler(t *testing.T) {
	recorder := metrics.NewInMemory()
	recorder.IncRecipeCreated()
	recorder.IncRecipeSearch(0)
	recorder.ObserveSearchDuration(250 * time.Millisecond)

	h := NewMetricsHandler(recorder)
	rec := httptest.NewRecorder()
	h.Metrics(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	body := rec.Body.String()
	for _, want := range []string{
		"recipeshare_recipes_created_total 1\n",
		"recipeshare_searches_total 1\n",
		"recipeshare_searches_empty_total 1\n",
		"recipeshare_search_duration_seconds_sum 0.250000\n",
		"recipeshare_rate_limited_total 0\n",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestMetricsHandler_NoSnapshotter(t *testing.T) {
	h := NewMetricsHandler(nil)
	rec := httptest.NewRecorder()
	h.Metrics(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rec.Code)
	}
}
