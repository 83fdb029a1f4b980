package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "sales_dashboard"

type Metrics struct {
	registry       *prometheus.Registry
	renders        *prometheus.CounterVec
	renderDuration prometheus.Histogram
	datasetRows    prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "renders_total",
			Help:      "View recomputations by region selection.",
		}, []string{"region"}),
		renderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "render_duration_seconds",
			Help:      "Time spent recomputing a view.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		datasetRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "dataset_rows",
			Help:      "Rows in the consolidated dataset held in memory.",
		}),
	}

	m.registry.MustRegister(m.renders, m.renderDuration, m.datasetRows)
	return m
}

func (m *Metrics) ObserveRender(region string, d time.Duration) {
	if m == nil {
		return
	}
	m.renders.WithLabelValues(region).Inc()
	m.renderDuration.Observe(d.Seconds())
}

func (m *Metrics) SetDatasetRows(n int) {
	if m == nil {
		return
	}
	m.datasetRows.Set(float64(n))
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
