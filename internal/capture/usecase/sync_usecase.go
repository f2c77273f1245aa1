package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"sortie-backend/internal/capture/domain"
	"sortie-backend/internal/capture/repository"
	"sortie-backend/pkg/storage"
)

// captureUsecase implements CaptureUsecase. All remote collaborators are
// injected so tests can substitute fakes.
type captureUsecase struct {
	local       repository.LocalCaptureRepository
	remote      repository.RemoteCaptureRepository
	objects     storage.ObjectStore
	extractor   ContactExtractor
	transcriber Transcriber
	drafter     EmailDrafter

	// In-flight sync guard — prevents concurrent syncs of the same capture.
	// Process-local only; the local store is process-local too, so that is
	// all the exclusion the design needs.
	mu       sync.Mutex
	inFlight map[int64]struct{}
}

func NewCaptureUsecase(
	local repository.LocalCaptureRepository,
	remote repository.RemoteCaptureRepository,
	objects storage.ObjectStore,
	extractor ContactExtractor,
	transcriber Transcriber,
	drafter EmailDrafter,
) CaptureUsecase {
	return &captureUsecase{
		local:       local,
		remote:      remote,
		objects:     objects,
		extractor:   extractor,
		transcriber: transcriber,
		drafter:     drafter,
		inFlight:    make(map[int64]struct{}),
	}
}

func (u *captureUsecase) CreateCapture(ctx context.Context, c *domain.Capture) error {
	if c.OwnerID == "" {
		return fmt.Errorf("owner id is required")
	}
	c.Status = domain.StatusCaptured
	return u.local.Create(c)
}

func (u *captureUsecase) GetCapture(ctx context.Context, id int64) (*domain.Capture, error) {
	return u.local.FindByID(id)
}

func (u *captureUsecase) ListCaptures(ctx context.Context, ownerID string, statuses []domain.CaptureStatus) ([]*domain.Capture, error) {
	return u.local.FindByOwnerAndStatus(ownerID, statuses)
}

// acquire adds id to the in-flight set. Returns false if a run is already
// active for this id.
func (u *captureUsecase) acquire(id int64) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, active := u.inFlight[id]; active {
		return false
	}
	u.inFlight[id] = struct{}{}
	return true
}

func (u *captureUsecase) release(id int64) {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.inFlight, id)
}

// SyncCapture drives one capture through the pipeline:
// upload photo -> upload audio -> extract -> transcribe -> merge ->
// persist remotely -> finalize locally. Upload and remote-persist failures
// are hard (status error); extraction and transcription failures are soft
// (status needs_review, pipeline continues). The run always leaves the
// record in a terminal status, never processing.
func (u *captureUsecase) SyncCapture(ctx context.Context, id int64) {
	if !u.acquire(id) {
		return
	}
	defer u.release(id)

	c, err := u.local.FindByID(id)
	if err != nil {
		log.Printf("[Sync] failed to load capture %d: %v", id, err)
		return
	}
	if c == nil {
		// Deleted concurrently — not an error.
		return
	}

	c.Status = domain.StatusProcessing
	if err := u.local.Update(c); err != nil {
		log.Printf("[Sync] failed to mark capture %d processing: %v", id, err)
		return
	}

	if err := u.runPipeline(ctx, c); err != nil {
		// Hard failure — upload or remote persist failed. Reload before
		// writing: checkpointed URLs survive, partial extraction results
		// that never reached the remote store do not.
		u.markFailed(id, err)
	}
}

func (u *captureUsecase) runPipeline(ctx context.Context, c *domain.Capture) error {
	var stepErrors []string

	// Upload photo (skipped if already checkpointed or nothing to upload).
	if c.PhotoURL == "" && len(c.ImagePayload) > 0 {
		url, err := u.objects.Upload(ctx, objectPath(c.OwnerID, "photo", "jpg"), c.ImagePayload, "image/jpeg")
		if err != nil {
			return fmt.Errorf("photo upload failed: %w", err)
		}
		c.PhotoURL = url
		// Checkpoint — the URL survives even if later steps fail.
		if err := u.local.Update(c); err != nil {
			return fmt.Errorf("failed to checkpoint photo url: %w", err)
		}
	}

	// Upload audio, same pattern, independent checkpoint.
	if c.AudioURL == "" && len(c.AudioPayload) > 0 {
		url, err := u.objects.Upload(ctx, objectPath(c.OwnerID, "audio", "webm"), c.AudioPayload, "audio/webm")
		if err != nil {
			return fmt.Errorf("audio upload failed: %w", err)
		}
		c.AudioURL = url
		if err := u.local.Update(c); err != nil {
			return fmt.Errorf("failed to checkpoint audio url: %w", err)
		}
	}

	// Extract contact info from the photo. Soft failure: a photo with no
	// extracted text is still useful to a reviewer.
	var extracted *domain.ExtractedContact
	if c.PhotoURL != "" {
		e, err := u.extractor.ExtractContact(ctx, c.PhotoURL)
		if err != nil {
			stepErrors = append(stepErrors, "Extraction failed: "+err.Error())
		} else {
			extracted = e
		}
	}

	// Transcribe the voice note. Soft failure, same as extraction.
	if c.AudioURL != "" && c.TranscriptionText == "" {
		text, err := u.transcriber.Transcribe(ctx, c.AudioURL)
		if err != nil {
			stepErrors = append(stepErrors, "Transcription failed: "+err.Error())
		} else {
			c.TranscriptionText = text
			c.TranscriptionSource = domain.SourceWhisper
		}
	}

	// Merge: non-empty extracted values win, user-entered values are the
	// fallback, notes concatenate.
	if extracted != nil {
		c.ApplyExtraction(*extracted)
	}

	finalStatus := domain.StatusReady
	if len(stepErrors) > 0 {
		finalStatus = domain.StatusNeedsReview
	}
	summary := strings.Join(stepErrors, " | ")

	// Persist remotely: insert on first success, update keyed by the
	// stable remote id afterwards. A failure here is fatal — without a
	// remote row there is no durable source of truth to reconcile against.
	remote := c.ToRemote()
	remote.Status = string(finalStatus)
	remote.ProcessingError = summary

	if c.RemoteID == "" {
		remoteID, err := u.remote.Insert(remote)
		if err != nil {
			return fmt.Errorf("remote insert failed: %w", err)
		}
		c.RemoteID = remoteID
	} else {
		if err := u.remote.Update(c.RemoteID, remote); err != nil {
			return fmt.Errorf("remote update failed: %w", err)
		}
	}

	// Finalize locally. Payloads are cleared only now, after their URL is
	// durably recorded — the URL is the durable reference from here on.
	c.Status = finalStatus
	c.ProcessingError = summary
	now := time.Now()
	c.SyncedAt = &now
	if c.PhotoURL != "" {
		c.ImagePayload = nil
	}
	if c.AudioURL != "" {
		c.AudioPayload = nil
	}

	if !c.Status.IsTerminal() {
		// Unreachable by construction; a post-condition check keeps it that way.
		return fmt.Errorf("sync finalized in non-terminal status %s", c.Status)
	}
	if err := u.local.Update(c); err != nil {
		return fmt.Errorf("failed to finalize capture: %w", err)
	}
	if len(stepErrors) > 0 {
		log.Printf("[Sync] capture %d needs review: %s", c.ID, summary)
	}
	return nil
}

// markFailed writes the error terminal state. Only status, summary and
// updated_at change: checkpointed URLs stay, merged fields that never made
// it to the remote store are dropped with the reload.
func (u *captureUsecase) markFailed(id int64, cause error) {
	c, err := u.local.FindByID(id)
	if err != nil || c == nil {
		log.Printf("[Sync] capture %d failed and could not be reloaded: %v (cause: %v)", id, err, cause)
		return
	}
	c.Status = domain.StatusError
	c.ProcessingError = cause.Error()
	if err := u.local.Update(c); err != nil {
		log.Printf("[Sync] failed to record error state for capture %d: %v", id, err)
		return
	}
	log.Printf("[Sync] capture %d failed: %v", id, cause)
}

func (u *captureUsecase) SyncAllPending(ctx context.Context, ownerID string) int {
	pending, err := u.local.FindByOwnerAndStatus(ownerID, domain.PendingStatuses)
	if err != nil {
		log.Printf("[Sync] failed to list pending captures for %s: %v", ownerID, err)
		return 0
	}
	for _, c := range pending {
		u.SyncCapture(ctx, c.ID)
	}
	return len(pending)
}

func (u *captureUsecase) SyncAllPendingAllOwners(ctx context.Context) int {
	pending, err := u.local.FindByStatus(domain.PendingStatuses)
	if err != nil {
		log.Printf("[Sync] failed to list pending captures: %v", err)
		return 0
	}
	for _, c := range pending {
		u.SyncCapture(ctx, c.ID)
	}
	return len(pending)
}

func (u *captureUsecase) GenerateEmailDraft(ctx context.Context, id int64) (string, error) {
	c, err := u.local.FindByID(id)
	if err != nil {
		return "", err
	}
	if c == nil {
		return "", ErrNotFound
	}
	if c.Name == "" {
		return "", ErrNoContactName
	}

	draft, err := u.drafter.DraftEmail(ctx, domain.DraftEmailRequest{
		Name:      c.Name,
		Company:   c.Company,
		Email:     c.Email,
		Notes:     c.Notes,
		EventName: c.EventLabel,
	})
	if err != nil {
		return "", err
	}

	c.EmailDraftText = draft
	if err := u.local.Update(c); err != nil {
		return "", fmt.Errorf("failed to store email draft: %w", err)
	}
	return draft, nil
}

// objectPath namespaces uploads by owner with a time-based disambiguator:
// captures/{ownerId}/{timestamp}_{photo|audio}.{ext}
func objectPath(ownerID, kind, ext string) string {
	return fmt.Sprintf("captures/%s/%d_%s.%s", ownerID, time.Now().UnixMilli(), kind, ext)
}
