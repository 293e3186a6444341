// Package catalog holds the reference table of known problems (difficulty
// and topic per title) and the tiered matcher that resolves free-form
// names against it.
package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/itigeeks/itigeeks-backend/internal/domain/problems"
	"github.com/itigeeks/itigeeks-backend/internal/modules/problems/importerr"
	"github.com/itigeeks/itigeeks-backend/internal/observability"
	"github.com/itigeeks/itigeeks-backend/internal/platform/httpx"
	"github.com/itigeeks/itigeeks-backend/internal/platform/logger"
)

// Entry is what the catalog knows about a problem. A nil Difficulty means
// the source row carried something other than Easy, Medium or Hard.
type Entry struct {
	Difficulty *problems.Difficulty `json:"difficulty"`
	Topic      string               `json:"topic"`
}

// Fetcher returns the raw catalog CSV.
type Fetcher func(ctx context.Context) (io.ReadCloser, error)

// Config describes where the catalog lives and its sheet layout. Columns
// are zero-based and the layout fields are used as given, zero included.
// DefaultConfig carries the published NeetCode layout.
type Config struct {
	URL           string
	Timeout       time.Duration
	SkipRows      int
	TitleCol      int
	DifficultyCol int
	TopicCol      int

	// Metrics receives one observation per fetch attempt. Optional.
	Metrics *observability.Metrics
}

func DefaultConfig() Config {
	return Config{
		Timeout:       15 * time.Second,
		SkipRows:      3,
		TitleCol:      1,
		DifficultyCol: 2,
		TopicCol:      3,
	}
}

// Catalog is loaded at most once successfully; failed loads leave it empty
// so the next Load retries. Lookups never block on a load in progress.
type Catalog struct {
	cfg   Config
	log   *logger.Logger
	fetch Fetcher

	loadMu sync.Mutex

	mu      sync.RWMutex
	loaded  bool
	entries map[string]*Entry
	keys    []string
}

// New builds a catalog. When fetch is nil the CSV is downloaded from
// cfg.URL.
func New(cfg Config, log *logger.Logger, fetch Fetcher) *Catalog {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	c := &Catalog{
		cfg:     cfg,
		log:     log.With("component", "ProblemCatalog"),
		entries: map[string]*Entry{},
	}
	if fetch == nil {
		fetch = c.httpFetch
	}
	c.fetch = fetch
	return c
}

func (c *Catalog) httpFetch(ctx context.Context) (io.ReadCloser, error) {
	if strings.TrimSpace(c.cfg.URL) == "" {
		return nil, errors.New("catalog url not configured")
	}
	client := &http.Client{Timeout: c.cfg.Timeout}
	resp, err := httpx.GetWithRetry(ctx, client, c.cfg.URL, httpx.Retry{Attempts: 3, Base: 500 * time.Millisecond, Max: 5 * time.Second})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// Load fetches and indexes the catalog. Once a load has succeeded further
// calls return nil immediately; concurrent callers share one fetch.
func (c *Catalog) Load(ctx context.Context) error {
	if c.Loaded() {
		return nil
	}
	c.loadMu.Lock()
	defer c.loadMu.Unlock()
	if c.Loaded() {
		return nil
	}

	start := time.Now()
	rc, err := c.fetch(ctx)
	if err != nil {
		c.cfg.Metrics.ObserveCatalogLoad(false, 0)
		return fmt.Errorf("fetch catalog: %v: %w", err, importerr.ErrMetadataLoad)
	}
	defer rc.Close()

	entries, keys, err := c.parse(rc)
	if err != nil {
		c.cfg.Metrics.ObserveCatalogLoad(false, 0)
		return fmt.Errorf("parse catalog: %v: %w", err, importerr.ErrMetadataLoad)
	}
	c.cfg.Metrics.ObserveCatalogLoad(true, len(keys))

	c.mu.Lock()
	c.entries, c.keys, c.loaded = entries, keys, true
	c.mu.Unlock()

	c.log.Info("Problem catalog loaded", "keys", len(keys), "duration_ms", time.Since(start).Milliseconds())
	return nil
}

func (c *Catalog) parse(r io.Reader) (map[string]*Entry, []string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	entries := map[string]*Entry{}
	var keys []string
	register := func(key string, e *Entry) {
		if key == "" {
			return
		}
		if _, dup := entries[key]; dup {
			return
		}
		entries[key] = e
		keys = append(keys, key)
	}

	for idx := 0; ; idx++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		if idx < c.cfg.SkipRows {
			continue
		}
		title := strings.TrimSpace(cell(rec, c.cfg.TitleCol))
		if title == "" {
			continue
		}
		e := &Entry{Topic: strings.TrimSpace(cell(rec, c.cfg.TopicCol))}
		if d, ok := problems.ParseDifficulty(cell(rec, c.cfg.DifficultyCol)); ok {
			e.Difficulty = &d
		}
		register(problems.Slugify(title), e)
		register(normalize(title), e)
	}
	return entries, keys, nil
}

func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}

// Lookup is an exact key hit.
func (c *Catalog) Lookup(key string) (*Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e, ok
}

// Scan calls fn for every key in registration order until fn returns true.
func (c *Catalog) Scan(fn func(key string, e *Entry) bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, k := range c.keys {
		if fn(k, c.entries[k]) {
			return
		}
	}
}

func (c *Catalog) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.keys)
}

// Reset drops everything so the next Load fetches again.
func (c *Catalog) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string]*Entry{}
	c.keys = nil
	c.loaded = false
}
