package app

import (
	"strings"
	"time"

	"github.com/itigeeks/itigeeks-backend/internal/data/db"
	"github.com/itigeeks/itigeeks-backend/internal/modules/problems/catalog"
	"github.com/itigeeks/itigeeks-backend/internal/platform/envutil"
	"github.com/itigeeks/itigeeks-backend/internal/platform/logger"
)

type Config struct {
	Port        string
	Environment string
	Version     string

	DB db.Config

	JWTSecretKey string
	JWTIssuer    string

	CatalogCSVURL       string
	CatalogAliasesPath  string
	CatalogFetchTimeout time.Duration
	// Sheet layout of the catalog CSV; zero-based.
	CatalogSkipRows      int
	CatalogTitleCol      int
	CatalogDifficultyCol int
	CatalogTopicCol      int

	ImportMaxFileBytes int64
	ImportBatchTTL     time.Duration
	ImportGateTTL      time.Duration

	RedisAddr   string
	RedisPrefix string

	StatsAPIURL     string
	StatsBatchSize  int
	StatsBatchDelay time.Duration
	StatsTimeout    time.Duration

	AllowedOrigins []string
	MetricsAddr    string
}

func LoadConfig(log *logger.Logger) Config {
	layout := catalog.DefaultConfig()
	return Config{
		Port:        envutil.String("PORT", "8080", log),
		Environment: envutil.String("APP_ENV", "development", log),
		Version:     envutil.String("APP_VERSION", "dev", log),

		DB: db.Config{
			Driver:           envutil.String("DB_DRIVER", "postgres", log),
			PostgresHost:     envutil.String("POSTGRES_HOST", "localhost", log),
			PostgresPort:     envutil.String("POSTGRES_PORT", "5432", log),
			PostgresUser:     envutil.String("POSTGRES_USER", "postgres", log),
			PostgresPassword: envutil.String("POSTGRES_PASSWORD", "", log),
			PostgresName:     envutil.String("POSTGRES_NAME", "itigeeks", log),
			PostgresSSLMode:  envutil.String("POSTGRES_SSLMODE", "disable", log),
			SQLitePath:       envutil.String("SQLITE_PATH", "itigeeks.db", log),
			SlowThreshold:    envutil.Duration("DB_SLOW_THRESHOLD", time.Second, log),
		},

		JWTSecretKey: envutil.String("JWT_SECRET_KEY", "defaultsecret", log),
		JWTIssuer:    envutil.String("JWT_ISSUER", "", log),

		CatalogCSVURL:       envutil.String("CATALOG_CSV_URL", "", log),
		CatalogAliasesPath:  envutil.String("CATALOG_ALIASES_PATH", "", log),
		CatalogFetchTimeout: envutil.Duration("CATALOG_FETCH_TIMEOUT", 15*time.Second, log),

		CatalogSkipRows:      envutil.Int("CATALOG_SKIP_ROWS", layout.SkipRows, log),
		CatalogTitleCol:      envutil.Int("CATALOG_TITLE_COL", layout.TitleCol, log),
		CatalogDifficultyCol: envutil.Int("CATALOG_DIFFICULTY_COL", layout.DifficultyCol, log),
		CatalogTopicCol:      envutil.Int("CATALOG_TOPIC_COL", layout.TopicCol, log),

		ImportMaxFileBytes: int64(envutil.Int("IMPORT_MAX_FILE_BYTES", 10<<20, log)),
		ImportBatchTTL:     envutil.Duration("IMPORT_BATCH_TTL", 30*time.Minute, log),
		ImportGateTTL:      envutil.Duration("IMPORT_GATE_TTL", 30*time.Second, log),

		RedisAddr:   envutil.String("REDIS_ADDR", "", log),
		RedisPrefix: envutil.String("REDIS_PREFIX", "itigeeks", log),

		StatsAPIURL:     envutil.String("STATS_API_URL", "", log),
		StatsBatchSize:  envutil.Int("STATS_BATCH_SIZE", 5, log),
		StatsBatchDelay: envutil.Duration("STATS_BATCH_DELAY", time.Second, log),
		StatsTimeout:    envutil.Duration("STATS_TIMEOUT", 10*time.Second, log),

		AllowedOrigins: splitList(envutil.String("CORS_ALLOWED_ORIGINS", "", log)),
		MetricsAddr:    envutil.String("METRICS_ADDR", "", log),
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
