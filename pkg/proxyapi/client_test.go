package proxyapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sortie-backend/pkg/ai"
	"sortie-backend/pkg/httpclient"
)

func newTestClient(baseURL string) *Client {
	retry := httpclient.NewRetryClient(5*time.Second, 0, time.Millisecond)
	return NewClient(baseURL, retry, func() string { return "test-token" })
}

func TestExtractContact(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/extract" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		if req["photoUrl"] != "https://store.example/p.jpg" {
			t.Errorf("photoUrl = %q", req["photoUrl"])
		}
		json.NewEncoder(w).Encode(ai.ContactExtraction{Name: "Jane Doe", Company: "Acme"})
	}))
	defer srv.Close()

	got, err := newTestClient(srv.URL).ExtractContact(context.Background(), "https://store.example/p.jpg")
	if err != nil {
		t.Fatalf("ExtractContact failed: %v", err)
	}
	if got.Name != "Jane Doe" || got.Company != "Acme" {
		t.Errorf("extraction = %+v", got)
	}
}

func TestTranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"text": "hello"})
	}))
	defer srv.Close()

	text, err := newTestClient(srv.URL).Transcribe(context.Background(), "https://store.example/a.webm")
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if text != "hello" {
		t.Errorf("text = %q", text)
	}
}

func TestDraftEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		if req["name"] != "Jane" || req["eventName"] != "GopherCon" {
			t.Errorf("payload = %v", req)
		}
		json.NewEncoder(w).Encode(map[string]string{"emailDraft": "Hi Jane"})
	}))
	defer srv.Close()

	draft, err := newTestClient(srv.URL).DraftEmail(context.Background(), ai.DraftRequest{Name: "Jane", EventName: "GopherCon"})
	if err != nil {
		t.Fatalf("DraftEmail failed: %v", err)
	}
	if draft != "Hi Jane" {
		t.Errorf("draft = %q", draft)
	}
}

func TestPostErrorIncludesStatusAndSnippet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"photoUrl is required"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).ExtractContact(context.Background(), "")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "400") || !strings.Contains(err.Error(), "photoUrl is required") {
		t.Errorf("err = %v, want status and body snippet", err)
	}
}
