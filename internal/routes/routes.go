package routes

import (
	"mediabridge/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires all HTTP routes onto the engine.
func RegisterRoutes(
	ginRouter *gin.Engine,
	uploadHandler *handlers.UploadHandler,
	healthHandler *handlers.HealthHandler,
) {
	ginRouter.GET("/healthz", healthHandler.Healthz)

	api := ginRouter.Group("/api/v1")
	{
		uploadHandler.RegisterRoutes(api)
	}
}
