package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the Prometheus collectors for the HTTP API.
type Metrics struct {
	Registry *prometheus.Registry

	// HTTP metrics.
	Requests        *prometheus.CounterVec   // labels: method, route, status
	RequestDuration *prometheus.HistogramVec // labels: method, route

	// Data layer metrics.
	StoreErrors    *prometheus.CounterVec // labels: route
	WeatherQueries *prometheus.CounterVec // labels: query
	EventsFailed   prometheus.Counter
}

// NewMetrics creates the collectors and registers them, together with the
// Go runtime and process collectors, on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sample_api",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sample_api",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "route"}),
		StoreErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sample_api",
			Name:      "store_errors_total",
			Help:      "Unexpected document store failures answered with 500, by route.",
		}, []string{"route"}),
		WeatherQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sample_api",
			Name:      "weather_queries_total",
			Help:      "Weather queries by the filter combination that was dispatched.",
		}, []string{"query"}),
		EventsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sample_api",
			Name:      "change_events_failed_total",
			Help:      "Document change events that could not be published.",
		}),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Requests,
		m.RequestDuration,
		m.StoreErrors,
		m.WeatherQueries,
		m.EventsFailed,
	)
	return m
}
