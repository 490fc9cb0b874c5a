package ratelimit

import (
	"context"
	"log/slog"
	"time"

	"euromillones/internal/platform/metrics"
)

// Reaper periodically drops idle client windows from a Limiter.
type Reaper struct {
	limiter  *Limiter
	interval time.Duration
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// ReaperOption configures a Reaper.
type ReaperOption func(*Reaper)

// WithInterval overrides the reap interval.
func WithInterval(interval time.Duration) ReaperOption {
	return func(r *Reaper) {
		if interval > 0 {
			r.interval = interval
		}
	}
}

// WithMetrics attaches metrics reporting.
func WithMetrics(m *metrics.Metrics) ReaperOption {
	return func(r *Reaper) {
		r.metrics = m
	}
}

// NewReaper creates a Reaper for the given limiter.
func NewReaper(limiter *Limiter, logger *slog.Logger, opts ...ReaperOption) *Reaper {
	r := &Reaper{
		limiter:  limiter,
		interval: 5 * time.Minute,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start runs the reap loop until ctx is canceled. Always returns nil on
// shutdown so it can run under an errgroup.
func (r *Reaper) Start(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			removed, remaining := r.limiter.Reap()
			r.metrics.TrackedClients(remaining)
			if removed > 0 {
				r.logger.DebugContext(ctx, "rate limit windows reaped",
					"removed", removed,
					"remaining", remaining,
				)
			}
		case <-ctx.Done():
			return nil
		}
	}
}
