package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServerMetrics instruments the HTTP surface.
type ServerMetrics struct {
	Requests  *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec
}

func NewServerMetrics(reg prometheus.Registerer) *ServerMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "market",
		Subsystem: "api",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"handler", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "market",
		Subsystem: "api",
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"handler"})

	reg.MustRegister(requests, latency)
	return &ServerMetrics{Requests: requests, LatencyMS: latency}
}

// OrderMetrics counts checkout outcomes. Oversells tracks line items whose
// decrement drove a product's quantity at or below zero.
type OrderMetrics struct {
	Placed    prometheus.Counter
	Failed    prometheus.Counter
	Oversells prometheus.Counter
}

func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	placed := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "market",
		Subsystem: "orders",
		Name:      "placed_total",
		Help:      "Orders durably recorded in the ledger.",
	})
	failed := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "market",
		Subsystem: "orders",
		Name:      "placement_failures_total",
		Help:      "Order placements that returned an error to the caller.",
	})
	oversells := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "market",
		Subsystem: "orders",
		Name:      "oversells_total",
		Help:      "Inventory decrements that left a product at or below zero.",
	})

	reg.MustRegister(placed, failed, oversells)
	return &OrderMetrics{Placed: placed, Failed: failed, Oversells: oversells}
}

// Handler exposes the registry for scraping.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
