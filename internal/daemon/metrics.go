package daemon

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics tracks the daemon's control-plane activity.
type metrics struct {
	registry *prometheus.Registry

	commandsTotal    *prometheus.CounterVec
	connectionsTotal prometheus.Counter
	activePipelines  prometheus.GaugeFunc
}

func newMetrics(count func() int) *metrics {
	m := &metrics{registry: prometheus.NewRegistry()}

	m.commandsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gstd",
		Name:      "commands_total",
		Help:      "Control commands served, by verb and status code.",
	}, []string{"verb", "code"})

	m.connectionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gstd",
		Name:      "connections_total",
		Help:      "Client connections accepted.",
	})

	m.activePipelines = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "gstd",
		Name:      "active_pipelines",
		Help:      "Pipelines currently registered.",
	}, func() float64 { return float64(count()) })

	m.registry.MustRegister(m.commandsTotal, m.connectionsTotal, m.activePipelines)
	return m
}

// handler exposes the metrics over HTTP for scraping.
func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
