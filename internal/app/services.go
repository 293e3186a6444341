package app

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/itigeeks/itigeeks-backend/internal/modules/problems/catalog"
	"github.com/itigeeks/itigeeks-backend/internal/observability"
	"github.com/itigeeks/itigeeks-backend/internal/platform/logger"
	"github.com/itigeeks/itigeeks-backend/internal/services"
)

type Services struct {
	Auth    services.AuthService
	User    services.UserService
	Problem services.ProblemService
	Import  services.ImportService
	Stats   services.ProfileStatsService

	Catalog *catalog.Catalog
	Matcher *catalog.Matcher
}

// NewMatcher builds the catalog and its matcher from config. Nothing is
// fetched until the first Load. metrics may be nil.
func NewMatcher(log *logger.Logger, cfg Config, metrics *observability.Metrics) (*catalog.Catalog, *catalog.Matcher, error) {
	aliases := catalog.DefaultAliases
	if path := strings.TrimSpace(cfg.CatalogAliasesPath); path != "" {
		extra, err := catalog.LoadAliases(path)
		if err != nil {
			return nil, nil, fmt.Errorf("load catalog aliases: %w", err)
		}
		aliases = catalog.MergeAliases(aliases, extra)
		log.Info("Catalog aliases loaded", "path", path, "count", len(extra))
	}
	cat := catalog.New(catalog.Config{
		URL:           cfg.CatalogCSVURL,
		Timeout:       cfg.CatalogFetchTimeout,
		SkipRows:      cfg.CatalogSkipRows,
		TitleCol:      cfg.CatalogTitleCol,
		DifficultyCol: cfg.CatalogDifficultyCol,
		TopicCol:      cfg.CatalogTopicCol,
		Metrics:       metrics,
	}, log, nil)
	return cat, catalog.NewMatcher(cat, aliases), nil
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")

	cat, matcher, err := NewMatcher(log, cfg, metrics)
	if err != nil {
		return Services{}, err
	}

	return Services{
		Auth:    services.NewAuthService(log, cfg.JWTSecretKey, cfg.JWTIssuer),
		User:    services.NewUserService(db, log, reposet.User),
		Problem: services.NewProblemService(db, log, reposet.User, clients.KV, cfg.ImportGateTTL),
		Import: services.NewImportService(db, log, reposet.User, nil, matcher, clients.KV, services.ImportConfig{
			MaxFileBytes: cfg.ImportMaxFileBytes,
			BatchTTL:     cfg.ImportBatchTTL,
			GateTTL:      cfg.ImportGateTTL,
		}, metrics),
		Stats: services.NewProfileStatsService(log, reposet.User, clients.KV, clients.HTTP, services.ProfileStatsConfig{
			URLTemplate: cfg.StatsAPIURL,
			BatchSize:   cfg.StatsBatchSize,
			BatchDelay:  cfg.StatsBatchDelay,
			Timeout:     cfg.StatsTimeout,
		}, metrics),
		Catalog: cat,
		Matcher: matcher,
	}, nil
}

// warmCatalog loads the catalog in the background so the first import does
// not pay for the download. A failure is only logged; imports retry the load.
func warmCatalog(ctx context.Context, log *logger.Logger, cat *catalog.Catalog) {
	go func() {
		if err := cat.Load(ctx); err != nil {
			log.Warn("Catalog warm-up failed", "error", err)
		}
	}()
}
