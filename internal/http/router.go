package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/beancode/signalist-backend/internal/http/handlers"
	httpMW "github.com/beancode/signalist-backend/internal/http/middleware"
)

type RouterConfig struct {
	SignupHandler *httpH.SignupHandler
	DigestHandler *httpH.DigestHandler
	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		if cfg.SignupHandler != nil {
			api.POST("/signup-events", cfg.SignupHandler.Ingest)
		}
		if cfg.DigestHandler != nil {
			api.POST("/digest/runs", cfg.DigestHandler.Trigger)
			api.GET("/digest/runs", cfg.DigestHandler.ListRuns)
		}
	}

	return r
}
