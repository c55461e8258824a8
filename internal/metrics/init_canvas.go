package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initCanvasMetrics() {
	r.TopologyNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "topoedit_topology_nodes",
			Help: "Number of nodes on the canvas",
		},
	)

	r.TopologyLinks = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "topoedit_topology_links",
			Help: "Number of links on the canvas",
		},
	)

	r.TrafficAnimations = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "topoedit_traffic_animations",
			Help: "Number of running traffic animations",
		},
	)

	r.LinkModeEnabled = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "topoedit_link_mode_enabled",
			Help: "Whether link mode is on (1) or off (0)",
		},
	)

	r.FramesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "topoedit_frames_total",
			Help: "Total number of animation frames that stepped at least one animation",
		},
	)

	r.FrameDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "topoedit_frame_duration_seconds",
			Help:    "Time spent advancing one animation frame",
			Buckets: []float64{0.00001, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.016},
		},
	)

	r.GesturesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "topoedit_gestures_total",
			Help: "Total number of editor operations by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	r.OperationErrors = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "topoedit_operation_errors_total",
			Help: "Total number of rejected editor operations by error kind",
		},
		[]string{"kind"},
	)

	r.SceneFramesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "topoedit_scene_frames_total",
			Help: "Total number of scene frames published to clients",
		},
	)

	r.SceneOpsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "topoedit_scene_ops_total",
			Help: "Total number of shape operations published, by type",
		},
		[]string{"op"},
	)

	r.SeedReloadsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "topoedit_seed_reloads_total",
			Help: "Total number of seed file reloads applied",
		},
	)
}
