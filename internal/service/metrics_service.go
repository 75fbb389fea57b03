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

// MetricsService encapsulates Prometheus instrumentation. A nil *MetricsService is a valid no-op.
type MetricsService struct {
	handler          http.Handler
	requestDuration  *prometheus.HistogramVec
	requestTotal     *prometheus.CounterVec
	cacheLatency     prometheus.Observer
	cacheWrite       prometheus.Observer
	cacheHitRatio    prometheus.Gauge
	cacheHits        prometheus.Counter
	cacheMisses      prometheus.Counter
	evidenceStored   *prometheus.CounterVec
	evidenceFallback prometheus.Counter
	evidenceDelFail  *prometheus.CounterVec
	seedRows         *prometheus.CounterVec

	cacheHitCount  uint64
	cacheMissCount uint64
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

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	evidenceStored := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "evidence_attached_total",
		Help: "Evidence blobs stored, by backend",
	}, []string{"backend"})

	evidenceFallback := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "evidence_remote_fallback_total",
		Help: "Uploads that fell back to local storage after a remote failure",
	})

	evidenceDeleteFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "evidence_delete_failures_total",
		Help: "Evidence blob deletions that failed, by backend",
	}, []string{"backend"})

	seedRows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "seed_rows_total",
		Help: "Dataset rows handled by the importer, by outcome",
	}, []string{"outcome"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHitRatio, cacheHits, cacheMisses,
		evidenceStored, evidenceFallback, evidenceDeleteFailures, seedRows, goroutines)

	return &MetricsService{
		handler:          promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		cacheLatency:     cacheLatency,
		cacheWrite:       cacheWrite,
		cacheHitRatio:    cacheHitRatio,
		cacheHits:        cacheHits,
		cacheMisses:      cacheMisses,
		evidenceStored:   evidenceStored,
		evidenceFallback: evidenceFallback,
		evidenceDelFail:  evidenceDeleteFailures,
		seedRows:         seedRows,
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

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records cache hit/miss metrics and updates hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	total := hits + atomic.LoadUint64(&m.cacheMissCount)
	if total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// RecordEvidenceStored counts a stored blob for backend.
func (m *MetricsService) RecordEvidenceStored(backend string) {
	if m == nil {
		return
	}
	m.evidenceStored.WithLabelValues(backend).Inc()
}

// RecordEvidenceFallback counts an upload that fell back to local storage.
func (m *MetricsService) RecordEvidenceFallback() {
	if m == nil {
		return
	}
	m.evidenceFallback.Inc()
}

// RecordEvidenceDeleteFailure counts a failed blob deletion for backend.
func (m *MetricsService) RecordEvidenceDeleteFailure(backend string) {
	if m == nil {
		return
	}
	m.evidenceDelFail.WithLabelValues(backend).Inc()
}

// RecordSeedRows adds n rows with the given outcome.
func (m *MetricsService) RecordSeedRows(outcome string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.seedRows.WithLabelValues(outcome).Add(float64(n))
}
