package usecase

import (
	"context"
	"errors"

	"sortie-backend/internal/capture/domain"
)

var (
	// ErrNotFound is returned when a capture id has no local record.
	ErrNotFound = errors.New("capture not found")
	// ErrNoContactName is returned when drafting is requested before a
	// contact name exists (user-entered or extracted).
	ErrNoContactName = errors.New("capture has no contact name yet")
)

// ContactExtractor is the extraction proxy as seen by the sync engine.
type ContactExtractor interface {
	ExtractContact(ctx context.Context, photoURL string) (*domain.ExtractedContact, error)
}

// Transcriber is the transcription proxy as seen by the sync engine.
type Transcriber interface {
	Transcribe(ctx context.Context, audioURL string) (string, error)
}

// EmailDrafter is the draft-email proxy as seen by the sync engine.
type EmailDrafter interface {
	DraftEmail(ctx context.Context, req domain.DraftEmailRequest) (string, error)
}

// CaptureUsecase drives captures through the offline-first sync pipeline
// and exposes the local CRUD surface the delivery layer needs.
type CaptureUsecase interface {
	CreateCapture(ctx context.Context, c *domain.Capture) error
	GetCapture(ctx context.Context, id int64) (*domain.Capture, error)
	ListCaptures(ctx context.Context, ownerID string, statuses []domain.CaptureStatus) ([]*domain.Capture, error)

	// SyncCapture runs the full pipeline for one capture. It never returns
	// an error: all failures are converted into a terminal local status plus
	// a human-readable summary, which callers observe through the record.
	SyncCapture(ctx context.Context, id int64)

	// SyncAllPending syncs an owner's captures in captured/error/needs_review
	// status, sequentially. Returns how many runs were attempted.
	SyncAllPending(ctx context.Context, ownerID string) int

	// SyncAllPendingAllOwners is SyncAllPending across every owner,
	// used by the retry scheduler.
	SyncAllPendingAllOwners(ctx context.Context) int

	// GenerateEmailDraft drafts a follow-up email for a capture via the
	// draft-email proxy and stores it on the local record.
	GenerateEmailDraft(ctx context.Context, id int64) (string, error)
}
