package proxyapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"sortie-backend/pkg/ai"
	"sortie-backend/pkg/httpclient"
)

// Client is the sync engine's view of the remote processing proxies
// (extract-contact, transcribe-audio, draft-email). Calls go through the
// retry client so transient 5xx/429 responses are retried with backoff.
type Client struct {
	baseURL string
	http    *httpclient.RetryClient
	tokenFn func() string // returns the bearer token, or "" when unauthenticated
}

func NewClient(baseURL string, retry *httpclient.RetryClient, tokenFn func() string) *Client {
	if tokenFn == nil {
		tokenFn = func() string { return "" }
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    retry,
		tokenFn: tokenFn,
	}
}

// ExtractContact calls the extraction proxy with the photo URL.
func (c *Client) ExtractContact(ctx context.Context, photoURL string) (*ai.ContactExtraction, error) {
	var extracted ai.ContactExtraction
	err := c.post(ctx, "/api/extract", map[string]string{"photoUrl": photoURL}, &extracted)
	if err != nil {
		return nil, err
	}
	return &extracted, nil
}

// Transcribe calls the transcription proxy with the audio URL.
func (c *Client) Transcribe(ctx context.Context, audioURL string) (string, error) {
	var result struct {
		Text string `json:"text"`
	}
	if err := c.post(ctx, "/api/transcribe", map[string]string{"audioUrl": audioURL}, &result); err != nil {
		return "", err
	}
	return result.Text, nil
}

// DraftEmail calls the draft-email proxy and returns the generated draft.
func (c *Client) DraftEmail(ctx context.Context, req ai.DraftRequest) (string, error) {
	payload := map[string]string{
		"name":      req.Name,
		"company":   req.Company,
		"email":     req.Email,
		"notes":     req.Notes,
		"eventName": req.EventName,
	}
	var result struct {
		EmailDraft string `json:"emailDraft"`
	}
	if err := c.post(ctx, "/api/draft-email", payload, &result); err != nil {
		return "", err
	}
	return result.EmailDraft, nil
}

func (c *Client) post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.tokenFn(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return fmt.Errorf("%s failed (%d): %s", path, resp.StatusCode, string(snippet))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", path, err)
	}
	return nil
}
