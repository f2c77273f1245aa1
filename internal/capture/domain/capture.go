package domain

import (
	"strings"
	"time"
)

// CaptureStatus represents where a capture sits in the sync lifecycle
type CaptureStatus string

const (
	// StatusCaptured is the initial state, set at photo-capture time.
	StatusCaptured CaptureStatus = "captured"
	// StatusProcessing marks an in-flight sync run. Never a terminal state.
	StatusProcessing CaptureStatus = "processing"
	// StatusReady means a run completed with no step failures.
	StatusReady CaptureStatus = "ready"
	// StatusNeedsReview means extraction or transcription failed but the
	// record was persisted remotely — a human should fill in the gaps.
	StatusNeedsReview CaptureStatus = "needs_review"
	// StatusError means an upload or the remote persist failed; retry available.
	StatusError CaptureStatus = "error"
)

// TranscriptionSource identifies where a transcription came from
type TranscriptionSource string

const (
	SourceWebSpeech TranscriptionSource = "web_speech" // on-device speech engine
	SourceWhisper   TranscriptionSource = "whisper"    // remote transcription service
)

// Capture represents one photographed lead with an optional voice note,
// tracked through local and remote storage.
type Capture struct {
	ID       int64  `json:"id"`
	RemoteID string `json:"remote_id,omitempty"` // set once the remote row exists; stable thereafter

	OwnerID    string `json:"owner_id"`
	EventLabel string `json:"event_label"`

	// Binary payloads are owned locally until uploaded, then discarded.
	ImagePayload []byte `json:"-"`
	AudioPayload []byte `json:"-"`

	// Upload checkpoints. Once set, never cleared or reassigned.
	PhotoURL string `json:"photo_url,omitempty"`
	AudioURL string `json:"audio_url,omitempty"`

	AudioDurationSeconds float64 `json:"audio_duration_seconds,omitempty"`

	// Contact fields: user-entered, AI-extracted, or both (see ApplyExtraction).
	Name    string `json:"name,omitempty"`
	Company string `json:"company,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Notes   string `json:"notes,omitempty"`

	TranscriptionText   string              `json:"transcription_text,omitempty"`
	TranscriptionSource TranscriptionSource `json:"transcription_source,omitempty"`

	EmailDraftText string `json:"email_draft_text,omitempty"`

	Status          CaptureStatus `json:"status"`
	ProcessingError string        `json:"processing_error,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	SyncedAt  *time.Time `json:"synced_at,omitempty"`
}

// PendingStatuses are the states a reconnect or "process all" sweep picks up.
var PendingStatuses = []CaptureStatus{StatusCaptured, StatusError, StatusNeedsReview}

// IsTerminal reports whether a sync run may leave a capture in this status.
func (s CaptureStatus) IsTerminal() bool {
	return s == StatusReady || s == StatusNeedsReview || s == StatusError
}

// ExtractedContact holds the structured fields returned by the extraction
// proxy. All fields default to empty when not visible in the photo.
type ExtractedContact struct {
	Name    string
	Company string
	Email   string
	Phone   string
	Notes   string
}

// DraftEmailRequest carries the fields a follow-up email is drafted from.
type DraftEmailRequest struct {
	Name      string
	Company   string
	Email     string
	Notes     string
	EventName string
}

// mergeField prefers the freshly extracted value only when it is non-empty.
// User-entered values are the fallback, never overwritten by an empty
// extraction result.
func mergeField(existing, extracted string) string {
	if strings.TrimSpace(extracted) != "" {
		return extracted
	}
	return existing
}

// MergeNotes joins user notes and extraction-surfaced notes with a newline.
// Neither side replaces the other.
func MergeNotes(existing, extracted string) string {
	parts := make([]string, 0, 2)
	for _, p := range []string{existing, extracted} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

// ApplyExtraction merges extracted contact fields into the capture.
func (c *Capture) ApplyExtraction(e ExtractedContact) {
	c.Name = mergeField(c.Name, e.Name)
	c.Company = mergeField(c.Company, e.Company)
	c.Email = mergeField(c.Email, e.Email)
	c.Phone = mergeField(c.Phone, e.Phone)
	c.Notes = MergeNotes(c.Notes, e.Notes)
}
