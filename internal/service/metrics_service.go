package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsSnapshot is a lightweight aggregate for the readiness/status surface.
type MetricsSnapshot struct {
	RequestCount       uint64  `json:"request_count"`
	AvgRequestMillis   float64 `json:"avg_request_ms"`
	CacheHitRatio      float64 `json:"cache_hit_ratio"`
	ProgressCalcCount  uint64  `json:"progress_calculations"`
	EligibilityChecks  uint64  `json:"eligibility_checks"`
	LedgerImportedRows uint64  `json:"ledger_imported_rows"`
	Goroutines         int     `json:"goroutines"`
}

// MetricsService encapsulates Prometheus instrumentation plus the domain
// counters the status endpoint reports.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	cacheHitRatio   prometheus.Gauge
	progressCalcs   prometheus.Counter
	eligibility     *prometheus.CounterVec
	importedRows    *prometheus.CounterVec

	cacheHitCount        uint64
	cacheMissCount       uint64
	requestCount         uint64
	requestDurationTotal uint64
	progressCalcCount    uint64
	eligibilityCount     uint64
	importedRowCount     uint64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	progressCalcs := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "progress_calculations_total",
		Help: "Total credit-progress aggregations performed",
	})

	eligibility := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "eligibility_checks_total",
		Help: "Total eligibility rule evaluations by check and outcome",
	}, []string{"check", "outcome"})

	importedRows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_import_rows_total",
		Help: "Total bulk-imported enrollment rows by outcome",
	}, []string{"outcome"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheHits, cacheMisses, cacheHitRatio, progressCalcs, eligibility, importedRows, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		cacheHitRatio:   cacheHitRatio,
		progressCalcs:   progressCalcs,
		eligibility:     eligibility,
		importedRows:    importedRows,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// RecordCacheOperation records cache hit/miss metrics and updates hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	if total := hits + misses; total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// RecordProgressCalculation counts one aggregation run.
func (m *MetricsService) RecordProgressCalculation() {
	if m == nil {
		return
	}
	m.progressCalcs.Inc()
	atomic.AddUint64(&m.progressCalcCount, 1)
}

// RecordEligibilityCheck counts one rule evaluation by check name and outcome.
func (m *MetricsService) RecordEligibilityCheck(check string, allowed bool) {
	if m == nil {
		return
	}
	outcome := "denied"
	if allowed {
		outcome = "allowed"
	}
	m.eligibility.WithLabelValues(check, outcome).Inc()
	atomic.AddUint64(&m.eligibilityCount, 1)
}

// RecordImportRows counts bulk-import row outcomes.
func (m *MetricsService) RecordImportRows(imported, failed int) {
	if m == nil {
		return
	}
	m.importedRows.WithLabelValues("imported").Add(float64(imported))
	m.importedRows.WithLabelValues("failed").Add(float64(failed))
	atomic.AddUint64(&m.importedRowCount, uint64(imported))
}

// Snapshot returns aggregated metrics suitable for the status endpoint.
func (m *MetricsService) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)

	var cacheRatio float64
	if total := hits + misses; total > 0 {
		cacheRatio = float64(hits) / float64(total)
	}
	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	return MetricsSnapshot{
		RequestCount:       requests,
		AvgRequestMillis:   avgRequestMs,
		CacheHitRatio:      cacheRatio,
		ProgressCalcCount:  atomic.LoadUint64(&m.progressCalcCount),
		EligibilityChecks:  atomic.LoadUint64(&m.eligibilityCount),
		LedgerImportedRows: atomic.LoadUint64(&m.importedRowCount),
		Goroutines:         runtime.NumGoroutine(),
	}
}
