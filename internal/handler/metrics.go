package handler

import (
	"fmt"
	"net/http"

	"github.com/recipeshare/recipeshare/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "recipeshare_recipes_created_total %d\n", snap.RecipesCreated)
	writeMetric(w, "recipeshare_recipes_updated_total %d\n", snap.RecipesUpdated)
	writeMetric(w, "recipeshare_recipes_deleted_total %d\n", snap.RecipesDeleted)

	writeMetric(w, "recipeshare_searches_total %d\n", snap.Searches)
	writeMetric(w, "recipeshare_searches_empty_total %d\n", snap.SearchesEmpty)
	writeMetric(w, "recipeshare_search_duration_seconds_count %d\n", snap.SearchDurationCount)
	writeMetric(w, "recipeshare_search_duration_seconds_sum %.6f\n", float64(snap.SearchDurationTotalNs)/1e9)

	writeMetric(w, "recipeshare_rate_limited_total %d\n", snap.RateLimited)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
