package ai

import (
	"context"
	"regexp"
	"strings"
)

// ContactExtraction represents contact fields read off a badge or business
// card photo (shared type). Fields the model cannot see come back empty.
type ContactExtraction struct {
	Name    string `json:"name"`
	Company string `json:"company"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Notes   string `json:"notes"`
}

// DraftRequest carries the lead details a follow-up email is drafted from.
type DraftRequest struct {
	Name      string
	Company   string
	Email     string
	Notes     string
	EventName string
}

// AssistService is the interface for AI vision extraction and email drafting.
// Implement this interface to add new AI providers (Claude, Ollama, etc.)
type AssistService interface {
	ExtractContact(ctx context.Context, photoURL string) (*ContactExtraction, error)
	DraftFollowUpEmail(ctx context.Context, req DraftRequest) (string, error)
}

// ProviderType represents the AI provider type
type ProviderType string

const (
	ProviderClaude ProviderType = "claude"
	ProviderOllama ProviderType = "ollama"
	ProviderAuto   ProviderType = "auto"
)

var fenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// UnfenceJSON strips a markdown code fence if the model wrapped its JSON
// output in one, otherwise returns the input trimmed.
func UnfenceJSON(raw string) string {
	if m := fenceRe.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(raw)
}
