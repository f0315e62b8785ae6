package api

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the query API.
type Metrics struct {
	Registry prometheus.Gatherer

	RequestsTotal   *prometheus.CounterVec   // labels: method, route, status
	RequestDuration *prometheus.HistogramVec // labels: method, route
	QueryErrors     *prometheus.CounterVec   // labels: kind={bad_metric,data_not_found,invalid_input,internal}
	DatasetRows     *prometheus.GaugeVec     // labels: sheet
}

// NewMetrics creates and registers all API metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics(prometheus.DefaultGatherer)
	prometheus.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.QueryErrors,
		m.DatasetRows,
	)
	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	reg := prometheus.NewRegistry()
	m := newMetrics(reg)
	reg.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.QueryErrors,
		m.DatasetRows,
	)
	return m
}

func newMetrics(gatherer prometheus.Gatherer) *Metrics {
	return &Metrics{
		Registry: gatherer,
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "powerplants",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "powerplants",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"method", "route"}),
		QueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "powerplants",
			Name:      "query_errors_total",
			Help:      "Failed queries by error kind.",
		}, []string{"kind"}),
		DatasetRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "powerplants",
			Name:      "dataset_rows",
			Help:      "Rows held after cleaning, per sheet.",
		}, []string{"sheet"}),
	}
}
