package observability

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/itigeeks/itigeeks-backend/internal/platform/envutil"
	"github.com/itigeeks/itigeeks-backend/internal/platform/logger"
)

type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge
	apiErrors   *CounterVec

	imports        *CounterVec
	importDuration *HistogramVec
	importAdded    *CounterVec

	catalogLoads *CounterVec
	catalogKeys  *Gauge

	statsLookups *CounterVec
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled(log *logger.Logger) bool {
	return envutil.Bool("METRICS_ENABLED", false, log)
}

// Current returns the process metrics, nil when disabled. All methods are
// nil-safe.
func Current() *Metrics {
	return instance
}

func Init(log *logger.Logger) *Metrics {
	if !Enabled(log) {
		return nil
	}
	initOnce.Do(func() {
		instance = NewMetrics()
		if log != nil {
			log.Info("Metrics enabled")
		}
	})
	return instance
}

// NewMetrics builds a standalone registry; Init is the process-wide one.
func NewMetrics() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("itg_api_requests_total", "API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"itg_api_request_duration_seconds",
			"API request latency in seconds by method/route.",
			[]string{"method", "route"},
			[]float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		),
		apiInflight: NewGauge("itg_api_inflight_requests", "In-flight API requests."),
		apiErrors:   NewCounterVec("itg_api_errors_total", "API error responses by code.", []string{"code"}),

		imports: NewCounterVec("itg_imports_total", "Import operations by phase, file kind and outcome.", []string{"phase", "kind", "outcome"}),
		importDuration: NewHistogramVec(
			"itg_import_duration_seconds",
			"Import phase latency in seconds.",
			[]string{"phase", "kind"},
			[]float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		),
		importAdded: NewCounterVec("itg_import_added_problems_total", "Problems added to collections by file kind.", []string{"kind"}),

		catalogLoads: NewCounterVec("itg_catalog_loads_total", "Catalog load attempts by outcome.", []string{"outcome"}),
		catalogKeys:  NewGauge("itg_catalog_keys", "Keys indexed by the problem catalog."),

		statsLookups: NewCounterVec("itg_profile_stats_lookups_total", "Profile stats lookups by source.", []string{"source"}),
	}
}

func (m *Metrics) StartServer(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           http.HandlerFunc(m.WriteHTTP),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = srv.Shutdown(shutdownCtx)
		cancel()
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if log != nil {
				log.Error("metrics server failed", "error", err, "addr", addr)
			}
		}
	}()
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

type promWriter interface {
	WritePrometheus(w io.Writer) error
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, pw := range []promWriter{
		m.apiRequests, m.apiLatency, m.apiInflight, m.apiErrors,
		m.imports, m.importDuration, m.importAdded,
		m.catalogLoads, m.catalogKeys,
		m.statsLookups,
	} {
		if err := pw.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unknown"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route)
}

func (m *Metrics) IncAPIError(code string) {
	if m == nil {
		return
	}
	m.apiErrors.Inc(code)
}

func (m *Metrics) APIInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Add(1)
}

func (m *Metrics) APIInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Add(-1)
}

// ObserveImport records one finished import phase ("preview" or "commit").
func (m *Metrics) ObserveImport(phase, kind, outcome string, dur time.Duration) {
	if m == nil {
		return
	}
	m.imports.Inc(phase, kind, outcome)
	m.importDuration.Observe(dur.Seconds(), phase, kind)
}

func (m *Metrics) AddImported(kind string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.importAdded.Add(float64(n), kind)
}

func (m *Metrics) ObserveCatalogLoad(ok bool, keys int) {
	if m == nil {
		return
	}
	if !ok {
		m.catalogLoads.Inc("error")
		return
	}
	m.catalogLoads.Inc("ok")
	m.catalogKeys.Set(float64(keys))
}

func (m *Metrics) IncStatsLookup(source string) {
	if m == nil {
		return
	}
	m.statsLookups.Inc(source)
}
