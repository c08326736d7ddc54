// Package metrics records service-level counters and latencies.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// OperationMetrics is the recorder every service depends on.
type OperationMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, duration time.Duration)
	RecordAutoPicks(ctx context.Context, class string, count int)
	RecordCacheLookup(ctx context.Context, hit bool)
	RecordImportFetch(ctx context.Context, status string, duration time.Duration)
}

// PrometheusMetrics implements OperationMetrics with client_golang.
type PrometheusMetrics struct {
	attempts       *prometheus.CounterVec
	successes      *prometheus.CounterVec
	failures       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	autoPicks      *prometheus.CounterVec
	cacheHits      prometheus.Counter
	cacheMisses    prometheus.Counter
	importFetches  *prometheus.CounterVec
	importDuration prometheus.Histogram
}

// NewPrometheusMetrics registers the collectors on reg. A nil reg uses the
// default registerer.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &PrometheusMetrics{
		attempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pickem_operation_attempts_total",
			Help: "Total service operations started",
		}, []string{"service", "operation"}),
		successes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pickem_operation_success_total",
			Help: "Total service operations completed with a success result",
		}, []string{"service", "operation"}),
		failures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pickem_operation_failure_total",
			Help: "Total service operations that errored or panicked",
		}, []string{"service", "operation"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pickem_operation_duration_seconds",
			Help:    "Duration of service operations in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "operation"}),
		autoPicks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pickem_auto_picks_total",
			Help: "Picks assigned automatically after a missed deadline",
		}, []string{"class"}),
		cacheHits: f.NewCounter(prometheus.CounterOpts{
			Name: "pickem_leaderboard_cache_hits_total",
			Help: "Leaderboard reads served from redis",
		}),
		cacheMisses: f.NewCounter(prometheus.CounterOpts{
			Name: "pickem_leaderboard_cache_misses_total",
			Help: "Leaderboard reads that fell through to postgres",
		}),
		importFetches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pickem_results_import_fetches_total",
			Help: "External results fetches by outcome",
		}, []string{"status"}),
		importDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "pickem_results_import_duration_seconds",
			Help:    "Duration of external results fetches in seconds",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		}),
	}
}

func (m *PrometheusMetrics) RecordOperationAttempt(ctx context.Context, operation, service string) {
	m.attempts.WithLabelValues(service, operation).Inc()
}

func (m *PrometheusMetrics) RecordOperationSuccess(ctx context.Context, operation, service string) {
	m.successes.WithLabelValues(service, operation).Inc()
}

func (m *PrometheusMetrics) RecordOperationFailure(ctx context.Context, operation, service string) {
	m.failures.WithLabelValues(service, operation).Inc()
}

func (m *PrometheusMetrics) RecordOperationDuration(ctx context.Context, operation, service string, duration time.Duration) {
	m.duration.WithLabelValues(service, operation).Observe(duration.Seconds())
}

func (m *PrometheusMetrics) RecordAutoPicks(ctx context.Context, class string, count int) {
	m.autoPicks.WithLabelValues(class).Add(float64(count))
}

func (m *PrometheusMetrics) RecordCacheLookup(ctx context.Context, hit bool) {
	if hit {
		m.cacheHits.Inc()
		return
	}
	m.cacheMisses.Inc()
}

func (m *PrometheusMetrics) RecordImportFetch(ctx context.Context, status string, duration time.Duration) {
	m.importFetches.WithLabelValues(status).Inc()
	m.importDuration.Observe(duration.Seconds())
}

// NoOpMetrics discards everything.
type NoOpMetrics struct{}

func (NoOpMetrics) RecordOperationAttempt(context.Context, string, string)                 {}
func (NoOpMetrics) RecordOperationSuccess(context.Context, string, string)                 {}
func (NoOpMetrics) RecordOperationFailure(context.Context, string, string)                 {}
func (NoOpMetrics) RecordOperationDuration(context.Context, string, string, time.Duration) {}
func (NoOpMetrics) RecordAutoPicks(context.Context, string, int)                           {}
func (NoOpMetrics) RecordCacheLookup(context.Context, bool)                                {}
func (NoOpMetrics) RecordImportFetch(context.Context, string, time.Duration)               {}

var (
	_ OperationMetrics = (*PrometheusMetrics)(nil)
	_ OperationMetrics = NoOpMetrics{}
)
