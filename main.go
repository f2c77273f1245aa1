package main

import (
	"context"
	"log"

	api "sortie-backend/cmd/api"
	authusecase "sortie-backend/internal/auth/usecase"
	capturedomain "sortie-backend/internal/capture/domain"
	capturerepo "sortie-backend/internal/capture/repository"
	captureusecase "sortie-backend/internal/capture/usecase"
	"sortie-backend/pkg/ai"
	"sortie-backend/pkg/config"
	"sortie-backend/pkg/database"
	"sortie-backend/pkg/httpclient"
	"sortie-backend/pkg/proxyapi"
	"sortie-backend/pkg/storage"
)

// proxyClientAdapter adapts proxyapi.Client to the sync engine's
// ContactExtractor/Transcriber/EmailDrafter interfaces.
type proxyClientAdapter struct {
	client *proxyapi.Client
}

func (a *proxyClientAdapter) ExtractContact(ctx context.Context, photoURL string) (*capturedomain.ExtractedContact, error) {
	e, err := a.client.ExtractContact(ctx, photoURL)
	if err != nil {
		return nil, err
	}
	return &capturedomain.ExtractedContact{
		Name:    e.Name,
		Company: e.Company,
		Email:   e.Email,
		Phone:   e.Phone,
		Notes:   e.Notes,
	}, nil
}

func (a *proxyClientAdapter) Transcribe(ctx context.Context, audioURL string) (string, error) {
	return a.client.Transcribe(ctx, audioURL)
}

func (a *proxyClientAdapter) DraftEmail(ctx context.Context, req capturedomain.DraftEmailRequest) (string, error) {
	return a.client.DraftEmail(ctx, ai.DraftRequest{
		Name:      req.Name,
		Company:   req.Company,
		Email:     req.Email,
		Notes:     req.Notes,
		EventName: req.EventName,
	})
}

func main() {
	// Load configuration
	cfg := config.Load()

	// Remote record store
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := db.AutoMigrate(&capturedomain.RemoteCapture{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}
	remoteRepo := capturerepo.NewGormRemoteCaptureRepository(db)

	// Local record store
	localRepo, err := capturerepo.NewSQLiteCaptureRepository(cfg.LocalDataDir)
	if err != nil {
		log.Fatal("Failed to open local capture store:", err)
	}
	defer localRepo.Close()

	// Remote object store
	objectStore := storage.NewSupabaseStore(cfg.StorageBaseURL, cfg.StorageBucket, cfg.StorageServiceKey, cfg.OutboundAPITimeout)

	// Processing proxies, reached over HTTP with retry on transient failures
	retryClient := httpclient.NewRetryClient(cfg.OutboundAPITimeout, cfg.SyncMaxRetries, cfg.SyncRetryBase)
	proxyClient := proxyapi.NewClient(cfg.ProxyBaseURL, retryClient, func() string { return cfg.ServiceToken })
	proxies := &proxyClientAdapter{client: proxyClient}

	// Sync orchestrator (dependency injection)
	captureUc := captureusecase.NewCaptureUsecase(localRepo, remoteRepo, objectStore, proxies, proxies, proxies)

	authUc := authusecase.NewAuthUsecase(cfg.JWTSecret)

	// Initialize HTTP handler (also starts sync workers + retry scheduler)
	handler := api.NewHandler(cfg, authUc, captureUc, remoteRepo)
	defer handler.Stop()

	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
