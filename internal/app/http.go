package app

import (
	"context"

	"gorm.io/gorm"

	"github.com/itigeeks/itigeeks-backend/internal/http"
	httpH "github.com/itigeeks/itigeeks-backend/internal/http/handlers"
	httpMW "github.com/itigeeks/itigeeks-backend/internal/http/middleware"
	"github.com/itigeeks/itigeeks-backend/internal/observability"
	"github.com/itigeeks/itigeeks-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health  *httpH.HealthHandler
	User    *httpH.UserHandler
	Problem *httpH.ProblemHandler
	Import  *httpH.ImportHandler
	Stats   *httpH.StatsHandler
	Catalog *httpH.CatalogHandler
}

func wireHandlers(log *logger.Logger, cfg Config, db *gorm.DB, clients Clients, services Services) Handlers {
	log.Info("Wiring handlers...")
	checks := map[string]httpH.Pinger{
		"db": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	for name, ping := range clients.pingers() {
		checks[name] = ping
	}
	return Handlers{
		Health:  httpH.NewHealthHandler(checks),
		User:    httpH.NewUserHandler(services.User),
		Problem: httpH.NewProblemHandler(log, services.Problem),
		Import: httpH.NewImportHandlerWithDeps(httpH.ImportHandlerDeps{
			Log:          log,
			Imports:      services.Import,
			MaxFileBytes: cfg.ImportMaxFileBytes,
		}),
		Stats:   httpH.NewStatsHandler(services.Stats),
		Catalog: httpH.NewCatalogHandler(log, services.Matcher),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware, metrics *observability.Metrics) *http.Server {
	return http.NewServer(http.RouterConfig{
		Log:            log,
		AllowedOrigins: cfg.AllowedOrigins,
		Metrics:        metrics,
		AuthMiddleware: middleware.Auth,
		UserHandler:    handlers.User,
		ProblemHandler: handlers.Problem,
		ImportHandler:  handlers.Import,
		StatsHandler:   handlers.Stats,
		CatalogHandler: handlers.Catalog,
		HealthHandler:  handlers.Health,
	})
}
