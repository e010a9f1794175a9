package di

import (
	"sync/atomic"
	"time"
)

// ColdStartTracker remembers when the process started and whether the
// first request has been served yet.
type ColdStartTracker struct {
	startedAt time.Time
	served    atomic.Bool
}

// NewColdStartTracker creates a new cold start tracker.
func NewColdStartTracker() *ColdStartTracker {
	return &ColdStartTracker{startedAt: time.Now()}
}

// Uptime returns the time since the process started.
func (t *ColdStartTracker) Uptime() time.Duration {
	return time.Since(t.startedAt)
}

// Observe marks a request as served and reports whether it was the first.
func (t *ColdStartTracker) Observe() bool {
	return t.served.CompareAndSwap(false, true)
}

// ProvideColdStartTracker creates a cold start tracker for Wire.
func ProvideColdStartTracker() *ColdStartTracker {
	return NewColdStartTracker()
}
