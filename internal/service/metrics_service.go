package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/formdesk-api/internal/models"
)

// Login outcomes recorded by MetricsService.
const (
	LoginOutcomeSuccess = "success"
	LoginOutcomeFailure = "failure"
)

// MetricsService encapsulates Prometheus instrumentation. A nil *MetricsService is valid and
// records nothing.
type MetricsService struct {
	registry          *prometheus.Registry
	handler           http.Handler
	requestDuration   *prometheus.HistogramVec
	requestTotal      *prometheus.CounterVec
	cacheLatency      prometheus.Histogram
	cacheWrite        prometheus.Histogram
	cacheLookups      *prometheus.CounterVec
	submissionsTotal  *prometheus.CounterVec
	commentUpdates    *prometheus.CounterVec
	loginAttempts     *prometheus.CounterVec
	exportsTotal      *prometheus.CounterVec
	idReassignedTotal prometheus.Counter
}

// NewMetricsService registers the HTTP, cache and review workflow collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	m := &MetricsService{
		registry: registry,
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		cacheLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cache_latency_seconds",
			Help:    "Latency for cache lookups",
			Buckets: prometheus.DefBuckets,
		}),
		cacheWrite: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cache_write_seconds",
			Help:    "Latency for cache writes",
			Buckets: prometheus.DefBuckets,
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cache_lookups_total",
			Help: "Cache lookups by result",
		}, []string{"result"}),
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "submissions_received_total",
			Help: "Form submissions accepted through intake",
		}, []string{"form_type"}),
		commentUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "comment_updates_total",
			Help: "Comment annotations by outcome",
		}, []string{"outcome"}),
		loginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "login_attempts_total",
			Help: "Admin login attempts by outcome",
		}, []string{"outcome"}),
		exportsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "submission_exports_total",
			Help: "Submission exports by format",
		}, []string{"format"}),
		idReassignedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "submission_id_reassigned_total",
			Help: "Intakes whose client supplied id was already taken",
		}),
	}

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(
		m.requestDuration, m.requestTotal,
		m.cacheLatency, m.cacheWrite, m.cacheLookups,
		m.submissionsTotal, m.commentUpdates, m.loginAttempts, m.exportsTotal, m.idReassignedTotal,
		goroutines,
	)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return m
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
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
	labelStatus := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records a cache lookup outcome.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// RecordSubmission counts an accepted intake. Unknown form types share the "other" label.
func (m *MetricsService) RecordSubmission(formType models.FormType, reassigned bool) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(formType.MetricLabel()).Inc()
	if reassigned {
		m.idReassignedTotal.Inc()
	}
}

// RecordCommentUpdate counts an annotation attempt by outcome (success, not_found, error).
func (m *MetricsService) RecordCommentUpdate(outcome string) {
	if m == nil {
		return
	}
	m.commentUpdates.WithLabelValues(outcome).Inc()
}

// RecordLogin counts a login attempt.
func (m *MetricsService) RecordLogin(success bool) {
	if m == nil {
		return
	}
	outcome := LoginOutcomeFailure
	if success {
		outcome = LoginOutcomeSuccess
	}
	m.loginAttempts.WithLabelValues(outcome).Inc()
}

// RecordExport counts a rendered export.
func (m *MetricsService) RecordExport(format string) {
	if m == nil {
		return
	}
	m.exportsTotal.WithLabelValues(format).Inc()
}
