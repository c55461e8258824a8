package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all metrics for the editor
type Registry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	SSEClients           prometheus.Gauge

	// Canvas Metrics
	TopologyNodes     prometheus.Gauge
	TopologyLinks     prometheus.Gauge
	TrafficAnimations prometheus.Gauge
	LinkModeEnabled   prometheus.Gauge
	FramesTotal       prometheus.Counter
	FrameDuration     prometheus.Histogram
	GesturesTotal     *prometheus.CounterVec
	OperationErrors   *prometheus.CounterVec
	SceneFramesTotal  prometheus.Counter
	SceneOpsTotal     *prometheus.CounterVec
	SeedReloadsTotal  prometheus.Counter

	registry *prometheus.Registry
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initHTTPMetrics()
	r.initCanvasMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
