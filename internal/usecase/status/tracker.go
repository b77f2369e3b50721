package status

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/atcwiz/xrp-dashboard/internal/domain"
)

// DefaultHistoryLimit is the number of cycle results kept by NewTracker
const DefaultHistoryLimit = 50

// CycleResult is the outcome of one fetch → persist cycle
type CycleResult struct {
	RunID      uuid.UUID
	Cycle      int
	StartedAt  time.Time
	FinishedAt time.Time
	Quote      *domain.Quote // nil when the cycle failed
	Err        error
}

// OK reports whether the cycle updated the dashboard
func (r CycleResult) OK() bool {
	return r.Err == nil
}

// Tracker keeps the most recent cycle results.
// It is read by the HTTP and gRPC servers while the update loop writes to it.
type Tracker struct {
	mu          sync.RWMutex
	limit       int
	history     []CycleResult
	subscribers []func(CycleResult)
}

// NewTracker creates a tracker that keeps up to limit results.
// A non-positive limit falls back to DefaultHistoryLimit.
func NewTracker(limit int) *Tracker {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &Tracker{limit: limit}
}

// Subscribe registers fn to be called with every recorded result
func (t *Tracker) Subscribe(fn func(CycleResult)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.subscribers = append(t.subscribers, fn)
}

// Record appends a result, dropping the oldest once the limit is reached
func (t *Tracker) Record(result CycleResult) {
	t.mu.Lock()
	t.history = append(t.history, result)
	if len(t.history) > t.limit {
		t.history = append([]CycleResult(nil), t.history[len(t.history)-t.limit:]...)
	}
	subscribers := make([]func(CycleResult), len(t.subscribers))
	copy(subscribers, t.subscribers)
	t.mu.Unlock()

	// subscribers run outside the lock so they may read the tracker
	for _, fn := range subscribers {
		fn(result)
	}
}

// Last returns the most recent result
func (t *Tracker) Last() (CycleResult, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if len(t.history) == 0 {
		return CycleResult{}, false
	}
	return t.history[len(t.history)-1], true
}

// LastSuccess returns the most recent successful result
func (t *Tracker) LastSuccess() (CycleResult, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for i := len(t.history) - 1; i >= 0; i-- {
		if t.history[i].OK() {
			return t.history[i], true
		}
	}
	return CycleResult{}, false
}

// History returns a copy of the kept results, oldest first
func (t *Tracker) History() []CycleResult {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]CycleResult(nil), t.history...)
}
