package api

import (
	"log"

	authusecase "sortie-backend/internal/auth/usecase"
	capturedelivery "sortie-backend/internal/capture/delivery"
	"sortie-backend/internal/capture/repository"
	"sortie-backend/internal/capture/scheduler"
	captureusecase "sortie-backend/internal/capture/usecase"
	"sortie-backend/internal/proxy"
	"sortie-backend/pkg/ai"
	"sortie-backend/pkg/config"
	"sortie-backend/pkg/ratelimit"
	"sortie-backend/pkg/whisper"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase    authusecase.AuthUsecase
	captureHandler *capturedelivery.CaptureHandler
	proxyHandler   *proxy.Handler
	syncWorker     *captureusecase.SyncWorkerService
	retrySched     *scheduler.RetryScheduler
	config         *config.Config
}

func NewHandler(cfg *config.Config, authUc authusecase.AuthUsecase, captureUc captureusecase.CaptureUsecase, remoteRepo repository.RemoteCaptureRepository) *Handler {
	// AI provider for the proxy endpoints
	assist := ai.NewAssistService(ai.Config{
		Provider:        ai.ProviderType(cfg.AIProvider),
		AnthropicAPIKey: cfg.AnthropicAPIKey,
		OllamaBaseURL:   cfg.OllamaBaseURL,
		OllamaModel:     cfg.OllamaModel,
		Timeout:         cfg.OutboundAPITimeout,
	})
	log.Printf("AI service initialized with provider: %s", cfg.AIProvider)

	whisperService := whisper.NewService(cfg.OpenAIAPIKey, cfg.OutboundAPITimeout)
	draftLimiter := ratelimit.NewLimiter(cfg.DraftEmailLimit, cfg.DraftEmailWindow)
	proxyHandler := proxy.NewHandler(assist, whisperService, draftLimiter, cfg.StorageBaseURL, cfg.MaxAudioBytes, cfg.OutboundAPITimeout)

	// Background sync workers for queued runs
	syncWorker := captureusecase.NewSyncWorkerService(captureUc, cfg.SyncWorkerCount)
	syncWorker.Start()

	// Periodic sweep for captures left pending by failures or restarts
	retrySched := scheduler.NewRetryScheduler(captureUc, cfg.ResyncInterval)
	retrySched.Start()

	captureHandler := capturedelivery.NewCaptureHandler(captureUc, syncWorker, remoteRepo)

	return &Handler{
		authUsecase:    authUc,
		captureHandler: captureHandler,
		proxyHandler:   proxyHandler,
		syncWorker:     syncWorker,
		retrySched:     retrySched,
		config:         cfg,
	}
}

func (h *Handler) Start(addr string) error {
	r := gin.Default()
	gin.SetMode(gin.ReleaseMode)

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.authUsecase, h.captureHandler, h.proxyHandler)

	return r.Run(addr)
}

// Stop shuts down the background services.
func (h *Handler) Stop() {
	h.retrySched.Stop()
	h.syncWorker.Stop()
}
