package pipeline

import (
	"sync"
	"time"
)

// OperationStats accumulates the call count and total duration of one
// named pipeline operation.
type OperationStats struct {
	Count int64
	Total time.Duration
}

func (s OperationStats) Average() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

// TimingTracker records per-operation timings across pipeline runs.
type TimingTracker struct {
	mu    sync.Mutex
	stats map[string]*OperationStats
}

func NewTimingTracker() *TimingTracker {
	return &TimingTracker{
		stats: make(map[string]*OperationStats),
	}
}

// Start begins timing an operation and returns the function that stops
// the clock and records the duration.
func (t *TimingTracker) Start(operation string) func() {
	start := time.Now()
	return func() {
		t.record(operation, time.Since(start))
	}
}

func (t *TimingTracker) record(operation string, elapsed time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.stats[operation]
	if !ok {
		s = &OperationStats{}
		t.stats[operation] = s
	}
	s.Count++
	s.Total += elapsed
}

// Snapshot returns a copy of the accumulated statistics.
func (t *TimingTracker) Snapshot() map[string]OperationStats {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make(map[string]OperationStats, len(t.stats))
	for name, s := range t.stats {
		out[name] = *s
	}
	return out
}
