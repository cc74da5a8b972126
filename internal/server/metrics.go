package server

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promcollect "github.com/prometheus/client_golang/prometheus/collectors"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the preview server's Prometheus registry and collectors.
type Metrics struct {
	registry *prom.Registry

	rendersTotal   prom.Counter
	renderFailures prom.Counter
	renderDuration prom.Histogram
}

// NewMetrics builds a self-contained registry with render counters plus the
// standard Go and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prom.NewRegistry(),
		rendersTotal: prom.NewCounter(prom.CounterOpts{
			Namespace: "mdhtml", Name: "renders_total",
			Help: "Total documents rendered by the preview server",
		}),
		renderFailures: prom.NewCounter(prom.CounterOpts{
			Namespace: "mdhtml", Name: "render_failures_total",
			Help: "Render requests that failed",
		}),
		renderDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "mdhtml", Name: "render_duration_seconds",
			Help:    "Time spent rendering one document",
			Buckets: prom.DefBuckets,
		}),
	}
	m.registry.MustRegister(m.rendersTotal, m.renderFailures, m.renderDuration)
	m.registry.MustRegister(promcollect.NewGoCollector(), promcollect.NewProcessCollector(promcollect.ProcessCollectorOpts{}))
	return m
}

// Handler serves the registry in OpenMetrics-capable form.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// ObserveRender records one render attempt.
func (m *Metrics) ObserveRender(d time.Duration, err error) {
	m.rendersTotal.Inc()
	m.renderDuration.Observe(d.Seconds())
	if err != nil {
		m.renderFailures.Inc()
	}
}
