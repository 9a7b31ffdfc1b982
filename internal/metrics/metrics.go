// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Recipe management metrics
	IncRecipeCreated()
	IncRecipeUpdated()
	IncRecipeDeleted()

	// Search metrics
	IncRecipeSearch(results int)
	ObserveSearchDuration(duration time.Duration)

	// Abuse protection
	IncRateLimited()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
