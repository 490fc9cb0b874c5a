// Package ratelimit implements per-client sliding-window admission control.
//
// The limiter is an explicitly owned, mutex-protected structure injected into
// the request pipeline. It is never package-level state, so tests get full
// isolation and multiple limiters can coexist with different policies.
package ratelimit

import (
	"sync"
	"time"
)

// Config holds the admission policy. Both knobs are externally configurable;
// the defaults are the strictest documented policy.
type Config struct {
	// MaxRequests is the number of requests admitted per client per window.
	MaxRequests int
	// Window is the trailing interval over which requests are counted.
	Window time.Duration
}

// DefaultConfig returns 10 requests per 60 seconds.
func DefaultConfig() Config {
	return Config{MaxRequests: 10, Window: 60 * time.Second}
}

// Decision reports the outcome of one admission check.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	// ResetAt is when the oldest counted request leaves the window.
	ResetAt time.Time
	// RetryAfter is whole seconds until a retry can succeed; zero when allowed.
	RetryAfter int
}

// Limiter tracks request timestamps per client address.
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*window
	cfg     Config
	now     func() time.Time
}

// window holds the admitted timestamps for one client, oldest first.
type window struct {
	timestamps []time.Time
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

// New creates a Limiter with the given policy.
func New(cfg Config, opts ...Option) *Limiter {
	if cfg.MaxRequests <= 0 || cfg.Window <= 0 {
		cfg = DefaultConfig()
	}
	l := &Limiter{
		clients: make(map[string]*window),
		cfg:     cfg,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Policy returns the limiter's configured admission policy.
func (l *Limiter) Policy() Config {
	return l.cfg
}

// Admit checks whether a request from clientID may proceed. Timestamps older
// than one window are purged first; a rejected request records nothing, so
// rejections never extend the lockout.
func (l *Limiter) Admit(clientID string) Decision {
	now := l.now()
	cutoff := now.Add(-l.cfg.Window)

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.clients[clientID]
	if !ok {
		w = &window{}
		l.clients[clientID] = w
	}
	w.purge(cutoff)

	if len(w.timestamps) >= l.cfg.MaxRequests {
		resetAt := w.timestamps[0].Add(l.cfg.Window)
		return Decision{
			Allowed:    false,
			Limit:      l.cfg.MaxRequests,
			Remaining:  0,
			ResetAt:    resetAt,
			RetryAfter: retryAfterSeconds(now, resetAt),
		}
	}

	w.timestamps = append(w.timestamps, now)
	return Decision{
		Allowed:   true,
		Limit:     l.cfg.MaxRequests,
		Remaining: l.cfg.MaxRequests - len(w.timestamps),
		ResetAt:   w.timestamps[0].Add(l.cfg.Window),
	}
}

// Reap removes clients whose windows are empty and returns how many were
// dropped, plus the number still tracked. Without reaping the client map grows
// with every distinct address ever seen.
func (l *Limiter) Reap() (removed, remaining int) {
	cutoff := l.now().Add(-l.cfg.Window)

	l.mu.Lock()
	defer l.mu.Unlock()

	for id, w := range l.clients {
		w.purge(cutoff)
		if len(w.timestamps) == 0 {
			delete(l.clients, id)
			removed++
		}
	}
	return removed, len(l.clients)
}

// purge drops timestamps at or before the cutoff.
func (w *window) purge(cutoff time.Time) {
	i := 0
	for ; i < len(w.timestamps); i++ {
		if w.timestamps[i].After(cutoff) {
			break
		}
	}
	w.timestamps = w.timestamps[i:]
}

func retryAfterSeconds(now, resetAt time.Time) int {
	seconds := int(resetAt.Sub(now).Seconds())
	if seconds < 1 {
		return 1
	}
	return seconds
}
