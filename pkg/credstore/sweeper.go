package credstore

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper periodically purges expired credentials so rows left behind by
// sessions that were never logged out do not accumulate.
type Sweeper struct {
	Backends []Purger
	Logger   *slog.Logger
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewSweeper creates a sweeper over backends. If interval is 0 or negative,
// defaults to 1 hour.
func NewSweeper(logger *slog.Logger, interval time.Duration, backends ...Purger) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}

	return &Sweeper{
		Backends: backends,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs the sweep loop in the background. Call Stop to shut it down.
func (s *Sweeper) Start() {
	go s.run()
	s.Logger.Debug("credential sweeper started", "interval", s.Interval)
}

// Stop shuts the loop down and blocks until an in-progress sweep finishes.
func (s *Sweeper) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Debug("credential sweeper stopped")
}

func (s *Sweeper) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Sweep immediately on startup
	s.Sweep(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Sweep(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Sweep purges every backend once. Failures in one backend do not stop the
// others. It returns the total number of entries removed.
func (s *Sweeper) Sweep(ctx context.Context) int64 {
	var total int64
	for _, b := range s.Backends {
		n, err := b.PurgeExpired(ctx)
		if err != nil {
			s.Logger.Error("failed to purge expired credentials", "backend", b.Name(), "error", err)
			continue
		}
		total += n
	}

	if total > 0 {
		s.Logger.Info("expired credentials purged", "removed", total)
	}
	return total
}
