package server

import (
	stdhttp "net/http"
	"strconv"
	"time"

	"github.com/indigo-web/reqpool/http/status"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "reqpool"

// Metrics are kept in a registry of their own, so multiple apps in a single process never
// collide.
type Metrics struct {
	registry    *prometheus.Registry
	submissions *prometheus.CounterVec
	responses   *prometheus.CounterVec
	parseErrors *prometheus.CounterVec
	duration    prometheus.Histogram
}

// NewMetrics registers the collectors. pending reports the number of queued connections.
func NewMetrics(pending func() int) *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "pool",
		Name:      "pending_tasks",
		Help:      "Number of accepted connections waiting for a worker",
	}, func() float64 {
		return float64(pending())
	})

	return &Metrics{
		registry: registry,
		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "submissions_total",
			Help:      "Total number of connections submitted to the pool by result",
		}, []string{"result"}),
		responses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "responses_total",
			Help:      "Total number of responses by status code",
		}, []string{"code"}),
		parseErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "parse_errors_total",
			Help:      "Total number of rejected requests by status code",
		}, []string{"code"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Time from picking a connection up by a worker until the response is written",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// Registry exposes the underlying registry, e.g. to gather it directly.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() stdhttp.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) submission(accepted bool) {
	result := "accepted"
	if !accepted {
		result = "rejected"
	}

	m.submissions.WithLabelValues(result).Inc()
}

func (m *Metrics) response(code status.Code) {
	m.responses.WithLabelValues(strconv.Itoa(int(code))).Inc()
}

func (m *Metrics) parseError(code status.Code) {
	m.parseErrors.WithLabelValues(strconv.Itoa(int(code))).Inc()
}

func (m *Metrics) observe(elapsed time.Duration) {
	m.duration.Observe(elapsed.Seconds())
}
