package businessflow

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlidingWindowLimiter(t *testing.T) {
	t.Run("AdmitsUpToLimit", func(t *testing.T) {
		limiter := NewSlidingWindowLimiter(3, time.Minute)

		assert.True(t, limiter.Allow("1.2.3.4"))
		assert.True(t, limiter.Allow("1.2.3.4"))
		assert.True(t, limiter.Allow("1.2.3.4"))
		assert.False(t, limiter.Allow("1.2.3.4"))
		assert.False(t, limiter.Allow("1.2.3.4"))
	})

	t.Run("KeysAreIndependent", func(t *testing.T) {
		limiter := NewSlidingWindowLimiter(1, time.Minute)

		assert.True(t, limiter.Allow("1.2.3.4"))
		assert.False(t, limiter.Allow("1.2.3.4"))
		assert.True(t, limiter.Allow("5.6.7.8"))
	})

	t.Run("WindowSlides", func(t *testing.T) {
		current := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
		limiter := newSlidingWindowLimiterWithClock(2, time.Minute, func() time.Time {
			return current
		})

		assert.True(t, limiter.Allow("1.2.3.4"))
		assert.True(t, limiter.Allow("1.2.3.4"))
		assert.False(t, limiter.Allow("1.2.3.4"))

		// Half a window later the old events still count
		current = current.Add(30 * time.Second)
		assert.False(t, limiter.Allow("1.2.3.4"))

		// Once the first events age out, capacity frees up
		current = current.Add(31 * time.Second)
		assert.True(t, limiter.Allow("1.2.3.4"))
	})

	t.Run("Remaining", func(t *testing.T) {
		limiter := NewSlidingWindowLimiter(3, time.Minute)

		assert.Equal(t, 3, limiter.Remaining("1.2.3.4"))
		limiter.Allow("1.2.3.4")
		assert.Equal(t, 2, limiter.Remaining("1.2.3.4"))
		limiter.Allow("1.2.3.4")
		limiter.Allow("1.2.3.4")
		assert.Equal(t, 0, limiter.Remaining("1.2.3.4"))
	})

	t.Run("CleanupDropsIdleKeys", func(t *testing.T) {
		current := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
		limiter := newSlidingWindowLimiterWithClock(5, time.Minute, func() time.Time {
			return current
		})

		limiter.Allow("1.2.3.4")
		limiter.Allow("5.6.7.8")
		assert.Len(t, limiter.hits, 2)

		current = current.Add(2 * time.Minute)
		limiter.Allow("5.6.7.8")
		limiter.Cleanup()

		assert.Len(t, limiter.hits, 1)
		assert.Contains(t, limiter.hits, "5.6.7.8")
	})

	t.Run("ConcurrentCallsNeverExceedLimit", func(t *testing.T) {
		limiter := NewSlidingWindowLimiter(10, time.Minute)

		var wg sync.WaitGroup
		var mu sync.Mutex
		admitted := 0

		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if limiter.Allow("1.2.3.4") {
					mu.Lock()
					admitted++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 10, admitted)
	})
}
