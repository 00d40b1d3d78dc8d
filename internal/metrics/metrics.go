// Package metrics implements the Metrics Sink (C8): the named
// gauges/counters/histograms in spec.md §4.8, exported in Prometheus
// text format on an auxiliary HTTP endpoint.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "proving_proxy"

// Sink owns a private Prometheus registry and every series named in
// spec.md §4.8, plus the supplemented per-kind queue depth gauge from
// SPEC_FULL.md §5.
type Sink struct {
	registry *prometheus.Registry

	QueueSize          prometheus.Gauge
	QueueDepthByKind   *prometheus.GaugeVec
	QueueLatency       prometheus.Histogram
	QueueDropCount     prometheus.Counter

	WorkerCount        prometheus.Gauge
	WorkerBusy         prometheus.Gauge
	WorkerRequestCount *prometheus.CounterVec

	RequestCount        prometheus.Counter
	RequestFailureCount prometheus.Counter
	RequestRetries      prometheus.Counter
	RequestLatency      prometheus.Histogram

	RateLimitedRequests  prometheus.Counter
	RateLimitViolations  prometheus.Counter
}

// New builds a Sink with a fresh, private registry — it does not touch
// the global default registry, so multiple Sinks (e.g. in tests) never
// collide.
func New() *Sink {
	registry := prometheus.NewRegistry()

	s := &Sink{
		registry: registry,

		QueueSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_size",
			Help:      "Current number of requests waiting in the admission queue.",
		}),
		QueueDepthByKind: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_depth_by_kind",
			Help:      "Current admission queue depth, broken down by proof kind.",
		}, []string{"proof_kind"}),
		QueueLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "queue_latency_seconds",
			Help:      "Time a request spent in the admission queue before dispatch.",
			Buckets:   prometheus.DefBuckets,
		}),
		QueueDropCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queue_drop_count",
			Help:      "Requests dropped because the admission queue was full or timed out.",
		}),

		WorkerCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "worker_count",
			Help:      "Number of workers currently registered.",
		}),
		WorkerBusy: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "worker_busy",
			Help:      "Number of workers currently in-flight on a proof request.",
		}),
		WorkerRequestCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "worker_request_count",
			Help:      "Requests completed successfully per worker.",
		}, []string{"worker"}),

		RequestCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "request_count",
			Help:      "Total proof requests received, before rate limiting or queue admission.",
		}),
		RequestFailureCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "request_failure_count",
			Help:      "Requests that ended in a terminal failure.",
		}),
		RequestRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "request_retries",
			Help:      "Retry attempts issued by the Retry Controller.",
		}),
		RequestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_latency_seconds",
			Help:      "End-to-end request latency from admission to final response.",
			Buckets:   prometheus.DefBuckets,
		}),

		RateLimitedRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_requests",
			Help:      "Requests rejected by the rate limiter.",
		}),
		RateLimitViolations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_violations",
			Help:      "Distinct rate-limit violation events (one per rejected admit call).",
		}),
	}

	registry.MustRegister(
		s.QueueSize, s.QueueDepthByKind, s.QueueLatency, s.QueueDropCount,
		s.WorkerCount, s.WorkerBusy, s.WorkerRequestCount,
		s.RequestCount, s.RequestFailureCount, s.RequestRetries, s.RequestLatency,
		s.RateLimitedRequests, s.RateLimitViolations,
	)

	return s
}

// Handler returns the HTTP handler that serves the registry in
// Prometheus text exposition format.
func (s *Sink) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
}
