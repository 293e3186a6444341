package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/itigeeks/itigeeks-backend/internal/platform/kv"
	"github.com/itigeeks/itigeeks-backend/internal/platform/logger"
)

var deleteIfEquals = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type Store struct {
	log    *logger.Logger
	rdb    goredis.UniversalClient
	prefix string
}

var _ kv.Store = (*Store)(nil)

// NewStore dials addr and verifies the connection with a PING before
// returning. Every key is namespaced under prefix.
func NewStore(log *logger.Logger, addr, prefix string) (*Store, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewStoreFromClient(log, rdb, prefix), nil
}

func NewStoreFromClient(log *logger.Logger, rdb goredis.UniversalClient, prefix string) *Store {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "itigeeks"
	}
	return &Store{log: log.With("client", "RedisStore"), rdb: rdb, prefix: prefix}
}

func (s *Store) key(k string) string { return s.prefix + ":" + k }

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := s.rdb.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (s *Store) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return s.rdb.Set(ctx, s.key(key), val, ttl).Err()
}

func (s *Store) SetNX(ctx context.Context, key string, val []byte, ttl time.Duration) (bool, error) {
	return s.rdb.SetNX(ctx, s.key(key), val, ttl).Result()
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, s.key(key)).Err()
}

func (s *Store) DeleteIfEquals(ctx context.Context, key string, val []byte) (bool, error) {
	n, err := deleteIfEquals.Run(ctx, s.rdb, []string{s.key(key)}, val).Int()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *Store) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}
