package refetch

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector provides Prometheus metrics for the fetch lifecycle:
// invocations, individual attempts, retries, backoff waits and the error
// taxonomy. It is safe for concurrent use, and every recording method
// tolerates a nil receiver so the client can run without metrics.
type MetricsCollector struct {
	fetchesTotal    *prometheus.CounterVec
	fetchDuration   *prometheus.HistogramVec
	fetchesInFlight *prometheus.GaugeVec

	attemptsTotal  *prometheus.CounterVec
	retriesTotal   *prometheus.CounterVec
	backoffSeconds *prometheus.HistogramVec

	errorsTotal   *prometheus.CounterVec
	timeoutsTotal *prometheus.CounterVec

	registry prometheus.Registerer
}

// NewMetricsCollector creates a collector on the default registerer.
func NewMetricsCollector() *MetricsCollector {
	return NewMetricsCollectorWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsCollectorWithRegistry creates a collector using the supplied
// registerer, allowing isolated registries in tests and embedders.
func NewMetricsCollectorWithRegistry(registry prometheus.Registerer) *MetricsCollector {
	return &MetricsCollector{
		fetchesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "refetch_fetches_total",
				Help: "Total number of fetch invocations by final outcome",
			},
			[]string{"method", "endpoint", "outcome"},
		),
		fetchDuration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "refetch_fetch_duration_seconds",
				Help:    "End-to-end duration of fetch invocations in seconds, backoff included",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint", "outcome"},
		),
		fetchesInFlight: promauto.With(registry).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "refetch_fetches_in_flight",
				Help: "Number of fetch invocations currently in flight",
			},
			[]string{"method", "endpoint"},
		),
		attemptsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "refetch_attempts_total",
				Help: "Total number of individual request attempts",
			},
			[]string{"method", "endpoint"},
		),
		retriesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "refetch_retries_total",
				Help: "Total number of retry attempts by attempt index",
			},
			[]string{"method", "endpoint", "attempt"},
		),
		backoffSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "refetch_backoff_seconds",
				Help:    "Backoff waits inserted between attempts in seconds",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
			},
			[]string{"method", "endpoint"},
		),
		errorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "refetch_errors_total",
				Help: "Total number of terminal fetch failures by error kind",
			},
			[]string{"kind", "method", "endpoint"},
		),
		timeoutsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "refetch_timeouts_total",
				Help: "Total number of fetches aborted by timeout or external cancellation",
			},
			[]string{"method", "endpoint"},
		),
		registry: registry,
	}
}

// RecordFetch records the final outcome and duration of one invocation.
func (mc *MetricsCollector) RecordFetch(method, endpoint, outcome string, duration time.Duration) {
	if mc == nil {
		return
	}
	mc.fetchesTotal.WithLabelValues(method, endpoint, outcome).Inc()
	mc.fetchDuration.WithLabelValues(method, endpoint, outcome).Observe(duration.Seconds())
}

// RecordFetchStart increments the in-flight gauge.
func (mc *MetricsCollector) RecordFetchStart(method, endpoint string) {
	if mc == nil {
		return
	}
	mc.fetchesInFlight.WithLabelValues(method, endpoint).Inc()
}

// RecordFetchEnd decrements the in-flight gauge.
func (mc *MetricsCollector) RecordFetchEnd(method, endpoint string) {
	if mc == nil {
		return
	}
	mc.fetchesInFlight.WithLabelValues(method, endpoint).Dec()
}

// RecordAttempt counts one request attempt.
func (mc *MetricsCollector) RecordAttempt(method, endpoint string) {
	if mc == nil {
		return
	}
	mc.attemptsTotal.WithLabelValues(method, endpoint).Inc()
}

// RecordRetry counts a retry at the given 1-based attempt index.
func (mc *MetricsCollector) RecordRetry(method, endpoint string, attempt int) {
	if mc == nil {
		return
	}
	mc.retriesTotal.WithLabelValues(method, endpoint, strconv.Itoa(attempt)).Inc()
}

// RecordBackoff observes a backoff wait inserted before a retry.
func (mc *MetricsCollector) RecordBackoff(method, endpoint string, delay time.Duration) {
	if mc == nil {
		return
	}
	mc.backoffSeconds.WithLabelValues(method, endpoint).Observe(delay.Seconds())
}

// RecordError counts a terminal failure by taxonomy kind.
func (mc *MetricsCollector) RecordError(kind ErrorKind, method, endpoint string) {
	if mc == nil {
		return
	}
	mc.errorsTotal.WithLabelValues(string(kind), method, endpoint).Inc()
}

// RecordTimeout counts a fetch aborted by deadline or external cancellation.
func (mc *MetricsCollector) RecordTimeout(method, endpoint string) {
	if mc == nil {
		return
	}
	mc.timeoutsTotal.WithLabelValues(method, endpoint).Inc()
}
