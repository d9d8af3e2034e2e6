package metrics

import (
	"net/http"

	"github.com/bazarly/backend/internal/platform/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Manager holds the service's Prometheus metrics.
type Manager struct {
	Registry              *prometheus.Registry
	ListingsCreatedTotal  prometheus.Counter
	DiscoverRequestsTotal *prometheus.CounterVec
	HTTPErrorsTotal       *prometheus.CounterVec
	HTTPRequestLatency    *prometheus.HistogramVec
}

// NewManager initializes and registers the service's custom metrics on a
// dedicated registry.
func NewManager(serviceName string) *Manager {
	registry := prometheus.NewRegistry()

	listingsCreatedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "listings_created_total",
		Help:      "Total number of listings created.",
	})
	discoverRequestsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "discover_requests_total",
		Help:      "Total number of discovery requests by resolved mode.",
	}, []string{"mode"})
	httpErrorsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "http_errors_total",
		Help:      "Total number of HTTP errors by route and status class.",
	}, []string{"route", "status"})
	httpRequestLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: serviceName,
		Name:      "http_request_latency_seconds",
		Help:      "Latency of HTTP requests by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	registry.MustRegister(
		listingsCreatedTotal,
		discoverRequestsTotal,
		httpErrorsTotal,
		httpRequestLatency,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	return &Manager{
		Registry:              registry,
		ListingsCreatedTotal:  listingsCreatedTotal,
		DiscoverRequestsTotal: discoverRequestsTotal,
		HTTPErrorsTotal:       httpErrorsTotal,
		HTTPRequestLatency:    httpRequestLatency,
	}
}

// Handler returns the /metrics handler for the manager's registry.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// StartServer exposes the metrics on a standalone port when one is configured.
func StartServer(port string, appLogger *logger.Logger, m *Manager) error {
	if port == "" {
		appLogger.Info("Prometheus metrics server port not configured, server will not start.")
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	appLogger.Info("Prometheus metrics server starting", zap.String("port", port), zap.String("path", "/metrics"))

	server := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}
	return server.ListenAndServe()
}
