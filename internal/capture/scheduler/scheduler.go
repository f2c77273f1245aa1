package scheduler

import (
	"context"
	"log"
	"time"

	"sortie-backend/internal/capture/usecase"
)

// RetryScheduler periodically re-runs the sync pipeline for captures left
// in captured, error or needs_review status — the headless equivalent of
// the app's on-reconnect sweep.
type RetryScheduler struct {
	captureUc usecase.CaptureUsecase
	interval  time.Duration
	stopChan  chan struct{}
}

// NewRetryScheduler creates a new scheduler
func NewRetryScheduler(captureUc usecase.CaptureUsecase, interval time.Duration) *RetryScheduler {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &RetryScheduler{
		captureUc: captureUc,
		interval:  interval,
		stopChan:  make(chan struct{}),
	}
}

// Start begins the scheduler loop
func (s *RetryScheduler) Start() {
	log.Printf("[RetryScheduler] Starting pending-capture scheduler (interval: %s)", s.interval)

	go func() {
		// Run immediately on start to pick up work left over from a restart
		s.sweep()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-s.stopChan:
				log.Println("[RetryScheduler] Scheduler stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the scheduler
func (s *RetryScheduler) Stop() {
	close(s.stopChan)
}

func (s *RetryScheduler) sweep() {
	n := s.captureUc.SyncAllPendingAllOwners(context.Background())
	if n > 0 {
		log.Printf("[RetryScheduler] Re-synced %d pending captures", n)
	}
}
