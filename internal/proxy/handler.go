package proxy

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"sortie-backend/pkg/ai"
	"sortie-backend/pkg/ratelimit"

	"github.com/gin-gonic/gin"
)

// AudioTranscriber turns raw audio bytes into text.
type AudioTranscriber interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}

// Handler implements the three processing proxies the sync engine calls:
// extract-contact, transcribe-audio and draft-email. Each is a thin
// request-validate-forward-respond wrapper around a third-party AI API.
type Handler struct {
	assist        ai.AssistService
	transcriber   AudioTranscriber
	limiter       *ratelimit.Limiter
	trustedPrefix string // uploads must come from our object store
	maxAudioBytes int64
	client        *http.Client
}

func NewHandler(assist ai.AssistService, transcriber AudioTranscriber, limiter *ratelimit.Limiter, trustedPrefix string, maxAudioBytes int64, timeout time.Duration) *Handler {
	return &Handler{
		assist:        assist,
		transcriber:   transcriber,
		limiter:       limiter,
		trustedPrefix: trustedPrefix,
		maxAudioBytes: maxAudioBytes,
		client:        &http.Client{Timeout: timeout},
	}
}

// trusted rejects URLs that do not point at our own object store. An open
// proxy over a paid vision API is an easy abuse target.
func (h *Handler) trusted(url string) bool {
	if h.trustedPrefix == "" {
		return true // unset in development
	}
	return strings.HasPrefix(url, h.trustedPrefix)
}

// Extract handles POST /api/extract
func (h *Handler) Extract(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photoUrl is required"})
		return
	}
	if !h.trusted(req.PhotoURL) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photoUrl must point at the capture object store"})
		return
	}

	extracted, err := h.assist.ExtractContact(c.Request.Context(), req.PhotoURL)
	if err != nil {
		log.Printf("[Proxy] extraction failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to extract contact information"})
		return
	}
	c.JSON(http.StatusOK, extracted)
}

// Transcribe handles POST /api/transcribe
func (h *Handler) Transcribe(c *gin.Context) {
	var req TranscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "audioUrl is required"})
		return
	}
	if !h.trusted(req.AudioURL) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "audioUrl must point at the capture object store"})
		return
	}

	audio, err := h.downloadAudio(c.Request.Context(), req.AudioURL)
	if err != nil {
		if err == errAudioTooLarge {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("audio exceeds %d bytes", h.maxAudioBytes)})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to download audio from the provided URL"})
		return
	}

	text, err := h.transcriber.Transcribe(c.Request.Context(), audio, "audio.webm")
	if err != nil {
		log.Printf("[Proxy] transcription failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to transcribe audio"})
		return
	}
	c.JSON(http.StatusOK, TranscribeResponse{Text: text})
}

// DraftEmail handles POST /api/draft-email. Rate-limited per caller: draft
// generation is interactive and the upstream LLM is metered.
func (h *Handler) DraftEmail(c *gin.Context) {
	key := c.GetString("userID")
	if key == "" {
		key = c.ClientIP()
	}
	if allowed, retryAfter := h.limiter.Allow(key); !allowed {
		c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded, try again later"})
		return
	}

	var req DraftEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	draft, err := h.assist.DraftFollowUpEmail(c.Request.Context(), ai.DraftRequest{
		Name:      strings.TrimSpace(req.Name),
		Company:   req.Company,
		Email:     req.Email,
		Notes:     req.Notes,
		EventName: req.EventName,
	})
	if err != nil {
		log.Printf("[Proxy] email draft failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to generate email draft"})
		return
	}
	c.JSON(http.StatusOK, DraftEmailResponse{EmailDraft: draft})
}

var errAudioTooLarge = fmt.Errorf("audio payload too large")

// downloadAudio fetches the voice note, refusing oversized payloads before
// any transcription spend.
func (h *Handler) downloadAudio(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("audio download error (%d)", resp.StatusCode)
	}
	if resp.ContentLength > h.maxAudioBytes {
		return nil, errAudioTooLarge
	}

	audio, err := io.ReadAll(io.LimitReader(resp.Body, h.maxAudioBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(audio)) > h.maxAudioBytes {
		return nil, errAudioTooLarge
	}
	return audio, nil
}
