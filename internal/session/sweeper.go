package session

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type expirer interface {
	ExpireBefore(cutoff time.Time) int
}

// Sweeper periodically drops in-memory sessions older than maxAge.
type Sweeper struct {
	store    expirer
	maxAge   time.Duration
	interval time.Duration
	now      func() time.Time
}

func NewSweeper(store *MemoryStore, maxAge, interval time.Duration) *Sweeper {
	return &Sweeper{
		store:    store,
		maxAge:   maxAge,
		interval: interval,
		now:      time.Now,
	}
}

// Run blocks until ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	zap.L().Info("session sweeper started", zap.Duration("max_age", s.maxAge))
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("context canceled, stopping session sweeper")
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Sweeper) sweep() int {
	removed := s.store.ExpireBefore(s.now().Add(-s.maxAge))
	if removed > 0 {
		zap.L().Info("expired sessions removed", zap.Int("count", removed))
	}
	return removed
}
