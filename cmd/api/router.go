package api

import (
	"net/http"

	authdelivery "sortie-backend/internal/auth/delivery"
	authusecase "sortie-backend/internal/auth/usecase"
	capturedelivery "sortie-backend/internal/capture/delivery"
	"sortie-backend/internal/proxy"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authUsecase authusecase.AuthUsecase, captureHandler *capturedelivery.CaptureHandler, proxyHandler *proxy.Handler) {
	authMW := authdelivery.AuthMiddleware(authUsecase)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Processing proxies (protected) - thin wrappers over AI services
		api.POST("/extract", authMW, proxyHandler.Extract)
		api.POST("/transcribe", authMW, proxyHandler.Transcribe)
		api.POST("/draft-email", authMW, proxyHandler.DraftEmail)

		// Capture routes (protected)
		captures := api.Group("/captures")
		captures.Use(authMW)
		{
			captures.POST("", captureHandler.CreateCapture)
			captures.GET("", captureHandler.ListCaptures)
			captures.GET("/:id", captureHandler.GetCapture)
			captures.POST("/:id/sync", captureHandler.SyncCapture)
			captures.POST("/sync-all", captureHandler.SyncAll)
			captures.POST("/:id/draft-email", captureHandler.DraftEmail)
		}

		// Admin routes (protected) - remote record store view
		admin := api.Group("/admin")
		admin.Use(authMW)
		{
			admin.GET("/captures", captureHandler.AdminListCaptures)
		}
	}
}
