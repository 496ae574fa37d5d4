package core

// scheduler.go runs background maintenance for the view store.
//
// The sweeper evicts views nobody has touched for longer than the TTL. It
// is long-running and stops with its context. A sweep never fails, so the
// loop only logs what it removed.

import (
	"context"
	"log/slog"
	"time"
)

// DefaultSweepInterval is how often idle views are evicted.
const DefaultSweepInterval = time.Minute

// StartSweeper evicts idle views every interval until ctx is cancelled.
// It blocks; run it in its own goroutine.
func (s *ViewStore) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	slog.Info("view sweeper started",
		"interval", interval.String(),
		"ttl", s.ttl.String(),
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("view sweeper stopped")
			return
		case <-ticker.C:
			s.runSweep()
		}
	}
}

// runSweep performs one eviction pass.
func (s *ViewStore) runSweep() {
	start := time.Now()
	evicted := s.Sweep()
	if evicted == 0 {
		return
	}
	slog.Info("evicted idle views",
		"views_evicted", evicted,
		"views_remaining", s.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
