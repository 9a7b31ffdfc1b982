package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncRecipeCreated is a no-op.
func (n *NoopRecorder) IncRecipeCreated() {}

// IncRecipeUpdated is a no-op.
func (n *NoopRecorder) IncRecipeUpdated() {}

// IncRecipeDeleted is a no-op.
func (n *NoopRecorder) IncRecipeDeleted() {}

// IncRecipeSearch is a no-op.
func (n *NoopRecorder) IncRecipeSearch(results int) {}

// ObserveSearchDuration is a no-op.
func (n *NoopRecorder) ObserveSearchDuration(duration time.Duration) {}

// IncRateLimited is a no-op.
func (n *NoopRecorder) IncRateLimited() {}
