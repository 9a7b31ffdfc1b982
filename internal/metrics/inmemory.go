package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	RecipesCreated        uint64
	RecipesUpdated        uint64
	RecipesDeleted        uint64
	Searches              uint64
	SearchesEmpty         uint64
	SearchDurationCount   uint64
	SearchDurationTotalNs int64
	RateLimited           uint64
}

// InMemoryRecorder stores metrics in memory. It backs the /metrics endpoint
// and is handy in tests.
type InMemoryRecorder struct {
	recipesCreated        uint64
	recipesUpdated        uint64
	recipesDeleted        uint64
	searches              uint64
	searchesEmpty         uint64
	searchDurationCount   uint64
	searchDurationTotalNs int64
	rateLimited           uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		RecipesCreated:        atomic.LoadUint64(&m.recipesCreated),
		RecipesUpdated:        atomic.LoadUint64(&m.recipesUpdated),
		RecipesDeleted:        atomic.LoadUint64(&m.recipesDeleted),
		Searches:              atomic.LoadUint64(&m.searches),
		SearchesEmpty:         atomic.LoadUint64(&m.searchesEmpty),
		SearchDurationCount:   atomic.LoadUint64(&m.searchDurationCount),
		SearchDurationTotalNs: atomic.LoadInt64(&m.searchDurationTotalNs),
		RateLimited:           atomic.LoadUint64(&m.rateLimited),
	}
}

// IncRecipeCreated increments recipe created counter.
func (m *InMemoryRecorder) IncRecipeCreated() {
	atomic.AddUint64(&m.recipesCreated, 1)
}

// IncRecipeUpdated increments recipe updated counter.
func (m *InMemoryRecorder) IncRecipeUpdated() {
	atomic.AddUint64(&m.recipesUpdated, 1)
}

// IncRecipeDeleted increments recipe deleted counter.
func (m *InMemoryRecorder) IncRecipeDeleted() {
	atomic.AddUint64(&m.recipesDeleted, 1)
}

// IncRecipeSearch counts a search, and separately one that matched nothing.
func (m *InMemoryRecorder) IncRecipeSearch(results int) {
	atomic.AddUint64(&m.searches, 1)
	if results == 0 {
		atomic.AddUint64(&m.searchesEmpty, 1)
	}
}

// ObserveSearchDuration records search duration.
func (m *InMemoryRecorder) ObserveSearchDuration(duration time.Duration) {
	atomic.AddUint64(&m.searchDurationCount, 1)
	atomic.AddInt64(&m.searchDurationTotalNs, duration.Nanoseconds())
}

// IncRateLimited increments the rejected-by-rate-limit counter.
func (m *InMemoryRecorder) IncRateLimited() {
	atomic.AddUint64(&m.rateLimited, 1)
}
