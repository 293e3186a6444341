package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/itigeeks/itigeeks-backend/internal/clients/redis"
	"github.com/itigeeks/itigeeks-backend/internal/platform/kv"
	"github.com/itigeeks/itigeeks-backend/internal/platform/logger"
)

type Clients struct {
	KV    kv.Store
	Redis *redis.Store
	HTTP  *http.Client
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	var store kv.Store = kv.NewMemory()
	var rdb *redis.Store
	if strings.TrimSpace(cfg.RedisAddr) != "" {
		s, err := redis.NewStore(log, cfg.RedisAddr, cfg.RedisPrefix)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis store: %w", err)
		}
		store, rdb = s, s
	} else {
		log.Warn("REDIS_ADDR not set; import batches and gates are process-local")
	}

	return Clients{
		KV:    store,
		Redis: rdb,
		HTTP:  &http.Client{Timeout: cfg.StatsTimeout},
	}, nil
}

// pingers returns the readiness checks for the clients in use.
func (c *Clients) pingers() map[string]func(context.Context) error {
	out := map[string]func(context.Context) error{}
	if c.Redis != nil {
		out["redis"] = c.Redis.Ping
	}
	return out
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
