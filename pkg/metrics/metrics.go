// Package metrics exposes prometheus collectors for RPC calls and HTTP
// requests on a dedicated registry.
package metrics

import (
	"context"
	"math"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rhq"

// Outcomes recorded for RPC calls.
const (
	OutcomeSuccess = "success"
	OutcomeFault   = "fault"
	OutcomePanic   = "panic"
)

var latencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

type Metrics struct {
	registry     *prometheus.Registry
	rpcCalls     *prometheus.CounterVec
	rpcLatency   *prometheus.HistogramVec
	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
	logins       prometheus.Counter
	logouts      prometheus.Counter
}

// sessionCountTimeout bounds the store lookup behind the open session gauge.
const sessionCountTimeout = 2 * time.Second

// New builds the collectors on a fresh registry. Go runtime and process
// collectors are included when runtime is true.
func New(runtime bool) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		rpcCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "calls_total",
			Help:      "RPC calls by service, method and outcome.",
		}, []string{"service", "method", "outcome"}),
		rpcLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "call_duration_seconds",
			Help:      "RPC call latency.",
			Buckets:   latencyBuckets,
		}, []string{"service", "method"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   latencyBuckets,
		}, []string{"method", "route"}),
		logins: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "logins_total",
			Help:      "Successful logins.",
		}),
		logouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "logouts_total",
			Help:      "Explicit logouts.",
		}),
	}

	m.registry.MustRegister(m.rpcCalls, m.rpcLatency, m.httpRequests, m.httpLatency, m.logins, m.logouts)
	if runtime {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return m
}

func (m *Metrics) ObserveRPC(service, method, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.rpcCalls.WithLabelValues(service, method, outcome).Inc()
	m.rpcLatency.WithLabelValues(service, method).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, http.StatusText(status)).Inc()
	m.httpLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) SessionOpened() {
	if m != nil {
		m.logins.Inc()
	}
}

func (m *Metrics) SessionClosed() {
	if m != nil {
		m.logouts.Inc()
	}
}

// TrackOpenSessions exports the number of live sessions, read from count on
// every scrape so expired sessions drop out. A failed count reports NaN.
func (m *Metrics) TrackOpenSessions(count func(context.Context) (int, error)) {
	if m == nil {
		return
	}
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "session",
		Name:      "open",
		Help:      "Sessions in the session store that have not expired.",
	}, func() float64 {
		ctx, cancel := context.WithTimeout(context.Background(), sessionCountTimeout)
		defer cancel()
		n, err := count(ctx)
		if err != nil {
			return math.NaN()
		}
		return float64(n)
	}))
}

// RPCCalls exposes the call counter for assertions.
func (m *Metrics) RPCCalls() *prometheus.CounterVec {
	return m.rpcCalls
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
