package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	anthropicMessagesURL = "https://api.anthropic.com/v1/messages"
	anthropicVersion     = "2023-06-01"
	claudeModel          = "claude-sonnet-4-20250514"

	extractSystemPrompt = "Extract contact information from this business card or name badge image. " +
		"Return JSON with fields: name, company, email, phone, notes. If a field is not visible, omit it."

	draftSystemPrompt = "You are a sales representative following up after an industry event. " +
		"Write a brief, personalized follow-up email based on the meeting details provided. " +
		"Be professional but warm."
)

// ClaudeService implements AssistService using the Anthropic messages API
type ClaudeService struct {
	apiKey string
	client *http.Client
}

func NewClaudeService(apiKey string, timeout time.Duration) *ClaudeService {
	return &ClaudeService{
		apiKey: apiKey,
		client: &http.Client{Timeout: timeout},
	}
}

type claudeContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type claudeResponse struct {
	Content []claudeContentBlock `json:"content"`
}

// ExtractContact sends the photo URL to Claude vision and parses the
// structured contact fields out of the model's JSON reply.
func (s *ClaudeService) ExtractContact(ctx context.Context, photoURL string) (*ContactExtraction, error) {
	payload := map[string]interface{}{
		"model":      claudeModel,
		"max_tokens": 1024,
		"system":     extractSystemPrompt,
		"messages": []map[string]interface{}{
			{
				"role": "user",
				"content": []map[string]interface{}{
					{
						"type": "image",
						"source": map[string]string{
							"type": "url",
							"url":  photoURL,
						},
					},
					{
						"type": "text",
						"text": "Extract the contact information from this image and return it as JSON.",
					},
				},
			},
		},
	}

	raw, err := s.call(ctx, payload)
	if err != nil {
		return nil, err
	}

	var extracted ContactExtraction
	if err := json.Unmarshal([]byte(UnfenceJSON(raw)), &extracted); err != nil {
		return nil, fmt.Errorf("failed to parse extracted contact information: %w", err)
	}
	return &extracted, nil
}

// DraftFollowUpEmail asks Claude for a follow-up email based on the lead details.
func (s *ClaudeService) DraftFollowUpEmail(ctx context.Context, req DraftRequest) (string, error) {
	lines := []string{"Contact name: " + req.Name}
	if req.Company != "" {
		lines = append(lines, "Company: "+req.Company)
	}
	if req.Email != "" {
		lines = append(lines, "Email: "+req.Email)
	}
	if req.EventName != "" {
		lines = append(lines, "Event: "+req.EventName)
	}
	if req.Notes != "" {
		lines = append(lines, "Meeting notes: "+req.Notes)
	}

	payload := map[string]interface{}{
		"model":      claudeModel,
		"max_tokens": 1024,
		"system":     draftSystemPrompt,
		"messages": []map[string]interface{}{
			{"role": "user", "content": strings.Join(lines, "\n")},
		},
	}

	return s.call(ctx, payload)
}

// call posts a messages request and returns the first text block of the reply.
func (s *ClaudeService) call(ctx context.Context, payload map[string]interface{}) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", anthropicMessagesURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("anthropic API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var result claudeResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	for _, block := range result.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in anthropic response")
}
