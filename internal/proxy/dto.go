package proxy

// ExtractRequest asks the extraction proxy to read contact fields off an
// uploaded badge/card photo.
type ExtractRequest struct {
	PhotoURL string `json:"photoUrl" binding:"required,url"`
}

// TranscribeRequest asks the transcription proxy to transcribe an uploaded
// voice note.
type TranscribeRequest struct {
	AudioURL string `json:"audioUrl" binding:"required,url"`
}

// TranscribeResponse carries the transcribed text.
type TranscribeResponse struct {
	Text string `json:"text"`
}

// DraftEmailRequest carries the lead details to draft a follow-up from.
// Limits mirror what the capture form accepts.
type DraftEmailRequest struct {
	Name      string `json:"name" binding:"required,max=200"`
	Company   string `json:"company" binding:"omitempty,max=200"`
	Email     string `json:"email" binding:"omitempty,email"`
	Notes     string `json:"notes" binding:"omitempty,max=5000"`
	EventName string `json:"eventName" binding:"omitempty,max=200"`
}

// DraftEmailResponse carries the generated draft.
type DraftEmailResponse struct {
	EmailDraft string `json:"emailDraft"`
}
