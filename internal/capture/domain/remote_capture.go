package domain

import "time"

// RemoteCapture is the server-side row a capture is upserted into once a
// sync run reaches the persistence step. Column names are the wire format
// the rest of the platform reads, so contact fields keep the extracted_*
// prefix even when the value came from user input.
type RemoteCapture struct {
	ID         string `json:"id" gorm:"primaryKey"`
	UserID     string `json:"user_id" gorm:"index;not null"`
	EventName  string `json:"event_name"`
	PhotoURL   string `json:"photo_url"`
	AudioURL   string `json:"audio_url"`
	AudioDuration float64 `json:"audio_duration"`

	ExtractedName    string `json:"extracted_name"`
	ExtractedCompany string `json:"extracted_company"`
	ExtractedEmail   string `json:"extracted_email"`
	ExtractedPhone   string `json:"extracted_phone"`
	Notes            string `json:"notes"`

	AudioTranscription  string `json:"audio_transcription"`
	TranscriptionSource string `json:"transcription_source"`

	Status          string `json:"status"`
	ProcessingError string `json:"processing_error"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (RemoteCapture) TableName() string { return "captures" }

// ToRemote builds the canonical remote payload from the (already merged)
// local capture.
func (c *Capture) ToRemote() *RemoteCapture {
	return &RemoteCapture{
		ID:            c.RemoteID,
		UserID:        c.OwnerID,
		EventName:     c.EventLabel,
		PhotoURL:      c.PhotoURL,
		AudioURL:      c.AudioURL,
		AudioDuration: c.AudioDurationSeconds,

		ExtractedName:    c.Name,
		ExtractedCompany: c.Company,
		ExtractedEmail:   c.Email,
		ExtractedPhone:   c.Phone,
		Notes:            c.Notes,

		AudioTranscription:  c.TranscriptionText,
		TranscriptionSource: string(c.TranscriptionSource),

		Status:          string(c.Status),
		ProcessingError: c.ProcessingError,

		CreatedAt: c.CreatedAt,
		UpdatedAt: time.Now(),
	}
}
