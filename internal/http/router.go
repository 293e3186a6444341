package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/itigeeks/itigeeks-backend/internal/http/handlers"
	httpMW "github.com/itigeeks/itigeeks-backend/internal/http/middleware"
	"github.com/itigeeks/itigeeks-backend/internal/observability"
	"github.com/itigeeks/itigeeks-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string
	Metrics        *observability.Metrics

	AuthMiddleware *httpMW.AuthMiddleware

	UserHandler    *httpH.UserHandler
	ProblemHandler *httpH.ProblemHandler
	ImportHandler  *httpH.ImportHandler
	StatsHandler   *httpH.StatsHandler
	CatalogHandler *httpH.CatalogHandler
	HealthHandler  *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "itigeeks-api"
	}
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.RequestIDs())
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))
	r.MaxMultipartMemory = 8 << 20

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api")
	protected := api.Group("/")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// User (Me)
		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
		}

		// Problem collection
		if cfg.ProblemHandler != nil {
			protected.GET("/me/problems", cfg.ProblemHandler.List)
			protected.PATCH("/me/problems/:slug", cfg.ProblemHandler.UpdateStatus)
			protected.DELETE("/me/problems/:slug", cfg.ProblemHandler.Remove)
			protected.GET("/me/progress", cfg.ProblemHandler.Progress)
		}

		// Imports
		if cfg.ImportHandler != nil {
			protected.POST("/me/imports", cfg.ImportHandler.Preview)
			protected.GET("/me/imports/:id", cfg.ImportHandler.Get)
			protected.DELETE("/me/imports/:id", cfg.ImportHandler.Discard)
			protected.POST("/me/imports/:id/commit", cfg.ImportHandler.Commit)
		}

		// Profile stats
		if cfg.StatsHandler != nil {
			protected.POST("/stats/profiles", cfg.StatsHandler.Profiles)
			protected.PUT("/me/handle", cfg.StatsHandler.LinkHandle)
		}

		// Catalog
		if cfg.CatalogHandler != nil {
			protected.GET("/catalog/match", cfg.CatalogHandler.Match)
		}
	}

	return r
}
