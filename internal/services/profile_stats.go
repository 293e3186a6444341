package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/itigeeks/itigeeks-backend/internal/data/repos"
	"github.com/itigeeks/itigeeks-backend/internal/observability"
	types "github.com/itigeeks/itigeeks-backend/internal/domain"
	"github.com/itigeeks/itigeeks-backend/internal/platform/batch"
	"github.com/itigeeks/itigeeks-backend/internal/platform/httpx"
	"github.com/itigeeks/itigeeks-backend/internal/platform/kv"
	"github.com/itigeeks/itigeeks-backend/internal/platform/logger"
)

var ErrStatsDisabled = errors.New("profile stats lookups are not configured")

const maxHandlesPerRequest = 100

// ProfileStats is the solved-count summary for one public judge profile.
// Error is set instead of failing the whole lookup when a single handle
// cannot be fetched.
type ProfileStats struct {
	Handle       string `json:"handle"`
	TotalSolved  int    `json:"totalSolved"`
	EasySolved   int    `json:"easySolved"`
	MediumSolved int    `json:"mediumSolved"`
	HardSolved   int    `json:"hardSolved"`
	Ranking      int    `json:"ranking"`
	Cached       bool   `json:"cached"`
	Error        string `json:"error,omitempty"`
}

type ProfileStatsConfig struct {
	// URLTemplate contains a {handle} placeholder.
	URLTemplate string
	BatchSize   int
	BatchDelay  time.Duration
	CacheTTL    time.Duration
	Timeout     time.Duration
}

type ProfileStatsService interface {
	Enabled() bool
	Fetch(ctx context.Context, handles []string) ([]ProfileStats, error)
	// LinkHandle stores the user's own judge handle and returns its stats.
	LinkHandle(ctx context.Context, userID uuid.UUID, handle string) (*ProfileStats, error)
}

type profileStatsService struct {
	log      *logger.Logger
	userRepo repos.UserRepo
	store    kv.Store
	client   *http.Client
	cfg      ProfileStatsConfig
	metrics  *observability.Metrics
}

func NewProfileStatsService(log *logger.Logger, userRepo repos.UserRepo, store kv.Store, client *http.Client, cfg ProfileStatsConfig, metrics *observability.Metrics) ProfileStatsService {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 5
	}
	if cfg.BatchDelay < 0 {
		cfg.BatchDelay = 0
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &profileStatsService{
		log:      log.With("service", "ProfileStatsService"),
		userRepo: userRepo,
		store:    store,
		client:   client,
		cfg:      cfg,
		metrics:  metrics,
	}
}

func (s *profileStatsService) Enabled() bool {
	return strings.TrimSpace(s.cfg.URLTemplate) != ""
}

func statsKey(handle string) string { return "stats:profile:" + strings.ToLower(handle) }

func (s *profileStatsService) Fetch(ctx context.Context, handles []string) ([]ProfileStats, error) {
	if !s.Enabled() {
		return nil, ErrStatsDisabled
	}
	handles = lo.Uniq(lo.Compact(lo.Map(handles, func(h string, _ int) string { return strings.TrimSpace(h) })))
	if len(handles) > maxHandlesPerRequest {
		return nil, fmt.Errorf("at most %d handles per request", maxHandlesPerRequest)
	}
	start := time.Now()
	out, err := batch.Run(ctx, handles, batch.Options{Size: s.cfg.BatchSize, Delay: s.cfg.BatchDelay},
		func(ctx context.Context, handle string) (ProfileStats, error) {
			return s.fetchOne(ctx, handle), nil
		})
	if err != nil {
		return nil, err
	}
	failed := lo.CountBy(out, func(p ProfileStats) bool { return p.Error != "" })
	s.log.Info("Profile stats fetched",
		"handles", len(handles),
		"failed", failed,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// fetchOne never fails the batch; problems are reported on the item.
func (s *profileStatsService) fetchOne(ctx context.Context, handle string) ProfileStats {
	if raw, ok, err := s.store.Get(ctx, statsKey(handle)); err == nil && ok {
		var cached ProfileStats
		if json.Unmarshal(raw, &cached) == nil {
			cached.Cached = true
			s.metrics.IncStatsLookup("cache")
			return cached
		}
	}

	target := strings.ReplaceAll(s.cfg.URLTemplate, "{handle}", url.PathEscape(handle))
	resp, err := httpx.GetWithRetry(ctx, s.client, target, httpx.Retry{Attempts: 2, Base: 250 * time.Millisecond, Max: 2 * time.Second})
	if err != nil {
		s.log.Warn("Profile stats lookup failed", "handle", handle, "error", err)
		s.metrics.IncStatsLookup("error")
		return ProfileStats{Handle: handle, Error: err.Error()}
	}
	defer resp.Body.Close()

	var body struct {
		Status       string `json:"status"`
		Message      string `json:"message"`
		TotalSolved  int    `json:"totalSolved"`
		EasySolved   int    `json:"easySolved"`
		MediumSolved int    `json:"mediumSolved"`
		HardSolved   int    `json:"hardSolved"`
		Ranking      int    `json:"ranking"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ProfileStats{Handle: handle, Error: fmt.Sprintf("decode response: %v", err)}
	}
	if strings.EqualFold(body.Status, "error") {
		msg := body.Message
		if msg == "" {
			msg = "lookup failed"
		}
		return ProfileStats{Handle: handle, Error: msg}
	}

	s.metrics.IncStatsLookup("remote")
	stats := ProfileStats{
		Handle:       handle,
		TotalSolved:  body.TotalSolved,
		EasySolved:   body.EasySolved,
		MediumSolved: body.MediumSolved,
		HardSolved:   body.HardSolved,
		Ranking:      body.Ranking,
	}
	if raw, err := json.Marshal(stats); err == nil {
		if err := s.store.Set(ctx, statsKey(handle), raw, s.cfg.CacheTTL); err != nil {
			s.log.Debug("Profile stats cache write failed", "handle", handle, "error", err)
		}
	}
	return stats
}

func (s *profileStatsService) LinkHandle(ctx context.Context, userID uuid.UUID, handle string) (*ProfileStats, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, errors.New("handle is required")
	}
	if _, err := s.userRepo.Ensure(ctx, nil, &types.User{ID: userID}); err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateHandle(ctx, nil, userID, handle); err != nil {
		return nil, err
	}
	if !s.Enabled() {
		return &ProfileStats{Handle: handle}, nil
	}
	stats := s.fetchOne(ctx, handle)
	return &stats, nil
}
