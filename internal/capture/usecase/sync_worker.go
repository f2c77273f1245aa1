package usecase

import (
	"context"
	"log"
	"sync"

	"sortie-backend/internal/capture/domain"
)

// SyncJob represents a request to sync one capture
type SyncJob struct {
	CaptureID int64
}

// SyncWorkerService runs sync jobs in the background so HTTP handlers can
// enqueue and return immediately. The per-capture in-flight guard inside
// the usecase keeps duplicate jobs harmless.
type SyncWorkerService struct {
	captureUc   CaptureUsecase
	jobQueue    chan SyncJob
	workerWg    sync.WaitGroup
	workerCount int
	started     bool
	mu          sync.Mutex
}

// NewSyncWorkerService creates a new sync worker service
func NewSyncWorkerService(captureUc CaptureUsecase, workerCount int) *SyncWorkerService {
	if workerCount <= 0 {
		workerCount = 3
	}
	return &SyncWorkerService{
		captureUc:   captureUc,
		jobQueue:    make(chan SyncJob, 500),
		workerCount: workerCount,
	}
}

// Start starts the sync workers
func (s *SyncWorkerService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}

	for i := 0; i < s.workerCount; i++ {
		s.workerWg.Add(1)
		go s.worker(i)
	}
	s.started = true
	log.Printf("[SyncWorker] Started %d workers", s.workerCount)
}

// Stop stops all workers gracefully
func (s *SyncWorkerService) Stop() {
	close(s.jobQueue)
	s.workerWg.Wait()
	log.Println("[SyncWorker] All workers stopped")
}

func (s *SyncWorkerService) worker(id int) {
	defer s.workerWg.Done()

	for job := range s.jobQueue {
		s.captureUc.SyncCapture(context.Background(), job.CaptureID)
	}

	log.Printf("[SyncWorker] Worker %d stopped", id)
}

// QueueJob adds a single job to the queue (non-blocking)
func (s *SyncWorkerService) QueueJob(job SyncJob) bool {
	select {
	case s.jobQueue <- job:
		return true
	default:
		return false // Queue full
	}
}

// QueuePending enqueues an owner's captures awaiting sync.
// Returns how many were queued.
func (s *SyncWorkerService) QueuePending(ctx context.Context, ownerID string) int {
	pending, err := s.captureUc.ListCaptures(ctx, ownerID, domain.PendingStatuses)
	if err != nil {
		log.Printf("[SyncWorker] failed to list pending captures: %v", err)
		return 0
	}

	queued := 0
	for _, c := range pending {
		if s.QueueJob(SyncJob{CaptureID: c.ID}) {
			queued++
		}
	}
	return queued
}
