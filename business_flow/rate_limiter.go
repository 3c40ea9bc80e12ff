package businessflow

import (
	"sync"
	"time"

	"github.com/link360/pool-api/utils"
)

// SlidingWindowLimiter admits at most limit events per key inside a sliding
// window. State is a process-local timestamp map guarded by a mutex; it is
// deliberately not shared across instances and resets on restart.
type SlidingWindowLimiter struct {
	mu     sync.Mutex
	window time.Duration
	limit  int
	hits   map[string][]time.Time
	now    func() time.Time
}

// NewSlidingWindowLimiter creates a limiter with the given per-key ceiling
func NewSlidingWindowLimiter(limit int, window time.Duration) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		window: window,
		limit:  limit,
		hits:   make(map[string][]time.Time),
		now:    utils.UTCNow,
	}
}

// newSlidingWindowLimiterWithClock is used by tests to control time
func newSlidingWindowLimiterWithClock(limit int, window time.Duration, now func() time.Time) *SlidingWindowLimiter {
	l := NewSlidingWindowLimiter(limit, window)
	l.now = now
	return l
}

// Allow records an event for the key and reports whether it is admitted.
// Events older than the window are pruned on every call, so the map never
// holds more than limit timestamps per active key.
func (l *SlidingWindowLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	recent := l.hits[key][:0]
	for _, t := range l.hits[key] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= l.limit {
		l.hits[key] = recent
		return false
	}

	l.hits[key] = append(recent, now)
	return true
}

// Remaining reports how many events the key may still send in the current window
func (l *SlidingWindowLimiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.window)
	count := 0
	for _, t := range l.hits[key] {
		if t.After(cutoff) {
			count++
		}
	}
	if count >= l.limit {
		return 0
	}
	return l.limit - count
}

// Cleanup drops keys whose events have all aged out of the window. Run it
// periodically so idle clients do not accumulate in the map.
func (l *SlidingWindowLimiter) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.window)
	for key, times := range l.hits {
		alive := false
		for _, t := range times {
			if t.After(cutoff) {
				alive = true
				break
			}
		}
		if !alive {
			delete(l.hits, key)
		}
	}
}

// StartCleanup runs Cleanup on the given interval until stop is closed
func (l *SlidingWindowLimiter) StartCleanup(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				l.Cleanup()
			case <-stop:
				return
			}
		}
	}()
}
