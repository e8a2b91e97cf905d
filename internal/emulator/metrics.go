package emulator

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics are registered per emulator so several can live in one process.
type metrics struct {
	registry   *prometheus.Registry
	requests   *prometheus.CounterVec
	rejections *prometheus.CounterVec
	handshakes prometheus.Counter
	inFlight   prometheus.Gauge
	methods    map[string]bool
}

// otherMethod labels requests whose method the emulator does not serve.
const otherMethod = "other"

func newMetrics(role string, methods ...string) *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		methods:  make(map[string]bool, len(methods)),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "tapo_emulator_requests_total",
			Help:        "Requests served, by method.",
			ConstLabels: prometheus.Labels{"role": role},
		}, []string{"method"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "tapo_emulator_rejections_total",
			Help:        "Requests answered with a non-zero error_code, by code.",
			ConstLabels: prometheus.Labels{"role": role},
		}, []string{"code"}),
		handshakes: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "tapo_emulator_handshakes_total",
			Help:        "Completed key exchanges.",
			ConstLabels: prometheus.Labels{"role": role},
		}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "tapo_emulator_in_flight",
			Help:        "Requests currently being served.",
			ConstLabels: prometheus.Labels{"role": role},
		}),
	}
	for _, name := range methods {
		m.methods[name] = true
	}
	m.registry.MustRegister(m.requests, m.rejections, m.handshakes, m.inFlight)
	return m
}

// countRequest keeps the method label bounded to the served methods.
func (m *metrics) countRequest(method string) {
	if !m.methods[method] {
		method = otherMethod
	}
	m.requests.WithLabelValues(method).Inc()
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
