package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock lets tests advance time deterministically.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestLimiterAdmitsUpToMaxThenRejects(t *testing.T) {
	clock := newFakeClock()
	l := New(Config{MaxRequests: 3, Window: time.Minute}, WithClock(clock.Now))

	for i := 0; i < 3; i++ {
		d := l.Admit("1.2.3.4")
		require.True(t, d.Allowed, "request %d should be admitted", i+1)
		assert.Equal(t, 3, d.Limit)
		assert.Equal(t, 2-i, d.Remaining)
	}

	d := l.Admit("1.2.3.4")
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
	assert.Equal(t, 60, d.RetryAfter)
}

func TestLimiterRejectionDoesNotExtendLockout(t *testing.T) {
	clock := newFakeClock()
	l := New(Config{MaxRequests: 2, Window: time.Minute}, WithClock(clock.Now))

	require.True(t, l.Admit("client").Allowed)
	require.True(t, l.Admit("client").Allowed)

	// Hammering while blocked must not push the reset forward.
	for i := 0; i < 10; i++ {
		clock.Advance(time.Second)
		assert.False(t, l.Admit("client").Allowed)
	}

	clock.Advance(51 * time.Second) // 61s past the first request
	assert.True(t, l.Admit("client").Allowed)
}

func TestLimiterWindowSlides(t *testing.T) {
	clock := newFakeClock()
	l := New(Config{MaxRequests: 2, Window: time.Minute}, WithClock(clock.Now))

	require.True(t, l.Admit("client").Allowed)
	clock.Advance(30 * time.Second)
	require.True(t, l.Admit("client").Allowed)
	assert.False(t, l.Admit("client").Allowed)

	// First request ages out at t=60s; one slot opens, not two.
	clock.Advance(31 * time.Second)
	assert.True(t, l.Admit("client").Allowed)
	assert.False(t, l.Admit("client").Allowed)
}

func TestLimiterIsolatesClients(t *testing.T) {
	clock := newFakeClock()
	l := New(Config{MaxRequests: 1, Window: time.Minute}, WithClock(clock.Now))

	require.True(t, l.Admit("alpha").Allowed)
	assert.False(t, l.Admit("alpha").Allowed)
	assert.True(t, l.Admit("beta").Allowed)
}

func TestLimiterRetryAfterNeverBelowOne(t *testing.T) {
	clock := newFakeClock()
	l := New(Config{MaxRequests: 1, Window: time.Minute}, WithClock(clock.Now))

	require.True(t, l.Admit("client").Allowed)
	clock.Advance(59*time.Second + 500*time.Millisecond)
	d := l.Admit("client")
	require.False(t, d.Allowed)
	assert.Equal(t, 1, d.RetryAfter)
}

func TestLimiterConcurrentAccounting(t *testing.T) {
	l := New(Config{MaxRequests: 50, Window: time.Minute})

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Admit("shared").Allowed {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, admitted)
}

func TestReapDropsIdleClients(t *testing.T) {
	clock := newFakeClock()
	l := New(Config{MaxRequests: 5, Window: time.Minute}, WithClock(clock.Now))

	l.Admit("stale")
	clock.Advance(30 * time.Second)
	l.Admit("fresh")

	clock.Advance(31 * time.Second) // stale aged out, fresh still counted
	removed, remaining := l.Reap()
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, remaining)

	clock.Advance(time.Minute)
	removed, remaining = l.Reap()
	assert.Equal(t, 1, removed)
	assert.Equal(t, 0, remaining)
}

func TestNewFallsBackToDefaultsOnInvalidConfig(t *testing.T) {
	l := New(Config{MaxRequests: 0, Window: 0})
	d := l.Admit("client")
	assert.Equal(t, 10, d.Limit)
}
