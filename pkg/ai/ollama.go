package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// OllamaService implements AssistService using a local Ollama instance.
// Extraction needs a vision-capable model (e.g. llama3.2-vision, llava).
type OllamaService struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllamaService creates a new Ollama service
func NewOllamaService(baseURL, model string, timeout time.Duration) *OllamaService {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3.2-vision"
	}
	return &OllamaService{
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

// ExtractContact downloads the photo and asks the local model for the
// contact fields. Ollama takes inline base64 images, not URLs.
func (o *OllamaService) ExtractContact(ctx context.Context, photoURL string) (*ContactExtraction, error) {
	image, err := o.downloadImage(ctx, photoURL)
	if err != nil {
		return nil, err
	}

	prompt := `This is a photo of a business card or conference name badge.
Extract the contact information and return ONLY a JSON object with the fields:
name, company, email, phone, notes. Use an empty string for fields that are
not visible. Do not include any other text.`

	payload := map[string]interface{}{
		"model":  o.model,
		"prompt": prompt,
		"images": []string{base64.StdEncoding.EncodeToString(image)},
		"stream": false,
		"format": "json",
		"options": map[string]interface{}{
			"temperature": 0.1,
		},
	}

	raw, err := o.generate(ctx, payload)
	if err != nil {
		return nil, err
	}

	var extracted ContactExtraction
	if err := json.Unmarshal([]byte(UnfenceJSON(raw)), &extracted); err != nil {
		return nil, fmt.Errorf("failed to parse extracted contact information: %w", err)
	}
	return &extracted, nil
}

// DraftFollowUpEmail implements AssistService for email drafting
func (o *OllamaService) DraftFollowUpEmail(ctx context.Context, req DraftRequest) (string, error) {
	prompt := fmt.Sprintf(`You are a sales representative following up after an industry event.
Write a brief, personalized follow-up email. Be professional but warm.
Return only the email body, no commentary.

Contact name: %s
Company: %s
Email: %s
Event: %s
Meeting notes: %s`, req.Name, req.Company, req.Email, req.EventName, req.Notes)

	payload := map[string]interface{}{
		"model":  o.model,
		"prompt": prompt,
		"stream": false,
		"options": map[string]interface{}{
			"temperature": 0.7,
			"num_predict": 400,
		},
	}

	return o.generate(ctx, payload)
}

func (o *OllamaService) downloadImage(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download photo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("photo download error (%d)", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (o *OllamaService) generate(ctx context.Context, payload map[string]interface{}) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Response string `json:"response"`
		Done     bool   `json:"done"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	return result.Response, nil
}
