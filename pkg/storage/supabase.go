package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// SupabaseStore talks to the Supabase Storage HTTP API for a single bucket.
type SupabaseStore struct {
	baseURL    string
	bucket     string
	serviceKey string
	client     *http.Client
}

func NewSupabaseStore(baseURL, bucket, serviceKey string, timeout time.Duration) *SupabaseStore {
	return &SupabaseStore{
		baseURL:    strings.TrimRight(baseURL, "/"),
		bucket:     bucket,
		serviceKey: serviceKey,
		client:     &http.Client{Timeout: timeout},
	}
}

func (s *SupabaseStore) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, s.bucket, path)

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("storage upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("storage upload error (%d): %s", resp.StatusCode, string(body))
	}

	return s.PublicURL(path), nil
}

func (s *SupabaseStore) PublicURL(path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, path)
}
