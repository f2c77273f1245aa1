package dto

// CreateCaptureRequest is the multipart form accompanying the photo (and
// optional audio) files on capture creation.
type CreateCaptureRequest struct {
	EventLabel           string  `form:"event_label"`
	Name                 string  `form:"name"`
	Company              string  `form:"company"`
	Email                string  `form:"email"`
	Phone                string  `form:"phone"`
	Notes                string  `form:"notes"`
	AudioDurationSeconds float64 `form:"audio_duration_seconds"`

	// TranscriptionText carries an on-device speech-engine transcription
	// recorded at capture time, if the client produced one.
	TranscriptionText string `form:"transcription_text"`
}

// SyncQueuedResponse reports how many sync jobs were accepted.
type SyncQueuedResponse struct {
	Queued int `json:"queued"`
}
