package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
)

// Refresher forces periodic article refreshes from the backend
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Scheduler runs the auto-refresh worker. The timer fires unconditionally,
// independent of user activity; failures are logged and the next tick tries
// again.
type Scheduler struct {
	refresher Refresher
	interval  time.Duration
	wg        sync.WaitGroup
	cancel    context.CancelFunc
}

// New creates a scheduler with the given refresh interval
func New(refresher Refresher, interval time.Duration) *Scheduler {
	if interval == 0 {
		interval = 30 * time.Minute
	}
	return &Scheduler{refresher: refresher, interval: interval}
}

// Start begins the refresh worker
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.refreshWorker(ctx)

	lgr.Printf("[INFO] scheduler started with refresh interval %v", s.interval)
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	lgr.Printf("[INFO] stopping scheduler...")
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	lgr.Printf("[INFO] scheduler stopped")
}

// refreshWorker fires a forced refresh on every tick
func (s *Scheduler) refreshWorker(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			lgr.Printf("[INFO] auto-refreshing articles")
			if err := s.refresher.Refresh(ctx); err != nil {
				lgr.Printf("[WARN] auto-refresh failed: %v", err)
			}
		}
	}
}
