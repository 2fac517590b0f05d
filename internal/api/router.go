package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"sttgateway/internal/config"
	"sttgateway/pkg/logger"
	"sttgateway/pkg/middleware"
)

// SetupRoutes wires the four C7 endpoints plus ambient middleware.
// Grounded on the teacher's internal/api/router.go: gin.New() (not
// gin.Default()) with an explicit middleware stack, suppressed gin debug
// output, and a hand-rolled CORS layer ahead of the route handlers.
func SetupRoutes(handler *Handler, cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	logger.SetGinOutput()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.GinLogger())
	router.Use(middleware.CompressionMiddleware())
	router.Use(corsMiddleware(handler, cfg))

	router.GET("/health", handler.HealthCheck)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/v1")
	{
		v1.POST("/audio/transcriptions", handler.Transcribe)
		v1.GET("/models", handler.ListModels)
		v1.GET("/models/current", handler.CurrentModel)
	}

	return router
}

// corsMiddleware implements admission rule 1 (spec.md §4.5): an Origin
// header present but not on the allowlist is a browser-level rejection
// before any queuing happens. The taxonomy in §7 doesn't name a status
// code for this case, so it uses 403, distinct from the 4xx codes the
// handler returns for the other admission rules.
func corsMiddleware(h *Handler, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if err := h.validator.CheckOrigin(origin, cfg.AllowedOrigins); err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, errorResponse{Error: err.Error()})
			return
		}

		if origin != "" {
			allowOrigin := origin
			for _, a := range cfg.AllowedOrigins {
				if a == "*" {
					allowOrigin = "*"
					break
				}
			}
			c.Header("Access-Control-Allow-Origin", allowOrigin)
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
