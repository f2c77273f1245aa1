package delivery

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"sortie-backend/internal/capture/domain"
	"sortie-backend/internal/capture/dto"
	"sortie-backend/internal/capture/repository"
	"sortie-backend/internal/capture/usecase"

	"github.com/gin-gonic/gin"
)

// CaptureHandler serves the capture REST surface: creation, reads, manual
// sync triggers and follow-up email drafting.
type CaptureHandler struct {
	captureUc  usecase.CaptureUsecase
	syncWorker *usecase.SyncWorkerService
	remoteRepo repository.RemoteCaptureRepository
}

func NewCaptureHandler(captureUc usecase.CaptureUsecase, syncWorker *usecase.SyncWorkerService, remoteRepo repository.RemoteCaptureRepository) *CaptureHandler {
	return &CaptureHandler{
		captureUc:  captureUc,
		syncWorker: syncWorker,
		remoteRepo: remoteRepo,
	}
}

// CreateCapture accepts a multipart form with a required photo file, an
// optional audio file and the user-entered contact fields. The new record
// starts in captured status and a sync job is queued immediately.
func (h *CaptureHandler) CreateCapture(c *gin.Context) {
	userID := c.GetString("userID")

	var req dto.CreateCaptureRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	photo, err := readFormFile(c, "photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}
	audio, _ := readFormFile(c, "audio") // optional

	capture := &domain.Capture{
		OwnerID:              userID,
		EventLabel:           req.EventLabel,
		ImagePayload:         photo,
		AudioPayload:         audio,
		AudioDurationSeconds: req.AudioDurationSeconds,
		Name:                 req.Name,
		Company:              req.Company,
		Email:                req.Email,
		Phone:                req.Phone,
		Notes:                req.Notes,
	}
	if req.TranscriptionText != "" {
		capture.TranscriptionText = req.TranscriptionText
		capture.TranscriptionSource = domain.SourceWebSpeech
	}

	if err := h.captureUc.CreateCapture(c.Request.Context(), capture); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.syncWorker.QueueJob(usecase.SyncJob{CaptureID: capture.ID})

	c.JSON(http.StatusCreated, capture)
}

// GetCapture returns one local capture by id.
func (h *CaptureHandler) GetCapture(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid capture id"})
		return
	}

	capture, err := h.captureUc.GetCapture(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if capture == nil || capture.OwnerID != c.GetString("userID") {
		c.JSON(http.StatusNotFound, gin.H{"error": "capture not found"})
		return
	}
	c.JSON(http.StatusOK, capture)
}

// ListCaptures returns the caller's captures, optionally filtered by a
// comma-separated status list (?status=captured,error).
func (h *CaptureHandler) ListCaptures(c *gin.Context) {
	var statuses []domain.CaptureStatus
	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			statuses = append(statuses, domain.CaptureStatus(strings.TrimSpace(s)))
		}
	}

	captures, err := h.captureUc.ListCaptures(c.Request.Context(), c.GetString("userID"), statuses)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if captures == nil {
		captures = []*domain.Capture{}
	}
	c.JSON(http.StatusOK, gin.H{"captures": captures})
}

// SyncCapture queues a sync run for one capture (manual retry).
func (h *CaptureHandler) SyncCapture(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid capture id"})
		return
	}

	queued := 0
	if h.syncWorker.QueueJob(usecase.SyncJob{CaptureID: id}) {
		queued = 1
	}
	c.JSON(http.StatusAccepted, dto.SyncQueuedResponse{Queued: queued})
}

// SyncAll queues sync runs for all of the caller's pending captures
// (the "process all" button).
func (h *CaptureHandler) SyncAll(c *gin.Context) {
	queued := h.syncWorker.QueuePending(c.Request.Context(), c.GetString("userID"))
	c.JSON(http.StatusAccepted, dto.SyncQueuedResponse{Queued: queued})
}

// DraftEmail generates and stores a follow-up email draft for a capture.
func (h *CaptureHandler) DraftEmail(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid capture id"})
		return
	}

	draft, err := h.captureUc.GenerateEmailDraft(c.Request.Context(), id)
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrNoContactName):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{"emailDraft": draft})
	}
}

// AdminListCaptures lists remote rows, newest first, with pagination.
func (h *CaptureHandler) AdminListCaptures(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	rows, total, err := h.remoteRepo.List(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if rows == nil {
		rows = []*domain.RemoteCapture{}
	}
	c.JSON(http.StatusOK, gin.H{"captures": rows, "total": total})
}

func readFormFile(c *gin.Context, field string) ([]byte, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, err
	}
	return readMultipartFile(fileHeader)
}

func readMultipartFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
