package daemon

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"playbridge/internal/bridge"
)

type metrics struct {
	registry    *prometheus.Registry
	calls       *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	ready       prometheus.Gauge
	rateLimited prometheus.Counter
	streams     prometheus.Gauge
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "playbridge",
			Name:      "bridge_calls_total",
			Help:      "Bridge calls by method and outcome.",
		}, []string{"method", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "playbridge",
			Name:      "bridge_call_duration_seconds",
			Help:      "Bridge call latency including the readiness wait.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		ready: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "playbridge",
			Name:      "host_ready",
			Help:      "1 once the host call surface is installed.",
		}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "playbridge",
			Name:      "rpc_rate_limited_total",
			Help:      "RPC requests rejected by the per-client limiter.",
		}),
		streams: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "playbridge",
			Name:      "event_streams",
			Help:      "Open event stream subscribers.",
		}),
	}
	m.registry.MustRegister(
		m.calls,
		m.duration,
		m.ready,
		m.rateLimited,
		m.streams,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// observe is installed as the dispatcher observer.
func (m *metrics) observe(method bridge.Method, kind bridge.ErrorKind, elapsed time.Duration) {
	outcome := "ok"
	if kind != "" {
		outcome = string(kind)
	}
	m.calls.WithLabelValues(string(method), outcome).Inc()
	m.duration.WithLabelValues(string(method)).Observe(elapsed.Seconds())
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
