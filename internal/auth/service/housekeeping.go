package service

import (
	"context"
	"log/slog"
	"time"
)

// RevocationSweeper periodically drops revocation entries whose token has
// already expired. Such tokens are rejected on expiry alone, so forgetting
// them does not change any validation outcome.
type RevocationSweeper struct {
	Store    RevocationStore
	Logger   *slog.Logger
	Interval time.Duration
	Metrics  *Metrics

	// Now defaults to time.Now.
	Now func() time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewRevocationSweeper creates a sweeper. If interval is 0 or negative,
// defaults to 1 hour.
func NewRevocationSweeper(store RevocationStore, logger *slog.Logger, interval time.Duration) *RevocationSweeper {
	if interval <= 0 {
		interval = time.Hour
	}

	return &RevocationSweeper{
		Store:    store,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs the sweep loop in the background until Stop is called.
func (s *RevocationSweeper) Start() {
	go s.run()
	s.Logger.Info("revocation sweeper started", "interval", s.Interval)
}

// Stop shuts the loop down and waits for an in-progress sweep to finish.
func (s *RevocationSweeper) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("revocation sweeper stopped")
}

func (s *RevocationSweeper) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sweep(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Sweep performs one pruning pass and returns the number of entries dropped.
func (s *RevocationSweeper) Sweep(ctx context.Context) int {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	pruned, err := s.Store.PruneExpired(ctx, now())
	if err != nil {
		s.Logger.Error("failed to prune revocation store", "error", err)
		return 0
	}
	s.Metrics.setRevoked(s.Store.Len())
	s.Logger.Debug("revocation sweep completed", "pruned", pruned, "remaining", s.Store.Len())
	return pruned
}
