package metrics

import (
	"errors"
	"time"

	"topoedit/internal/domain"
	"topoedit/internal/scene"
	"topoedit/internal/topology"
)

// Operation outcomes used as the "outcome" label
const (
	OutcomeOK          = "ok"
	OutcomeNotFound    = "not_found"
	OutcomeInvalidLink = "invalid_link"
	OutcomeLimit       = "limit"
	OutcomeError       = "error"
)

// Outcome classifies an operation error for labeling
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, domain.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, domain.ErrInvalidLink):
		return OutcomeInvalidLink
	case errors.Is(err, domain.ErrTrafficLimit):
		return OutcomeLimit
	default:
		return OutcomeError
	}
}

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordGesture counts an editor operation and its outcome
func (r *Registry) RecordGesture(kind string, err error) {
	outcome := Outcome(err)
	r.GesturesTotal.WithLabelValues(kind, outcome).Inc()
	if err != nil {
		r.OperationErrors.WithLabelValues(outcome).Inc()
	}
}

// RecordFrame records one animation frame. Frames that stepped nothing
// are not counted.
func (r *Registry) RecordFrame(stepped int, duration time.Duration) {
	if stepped == 0 {
		return
	}
	r.FramesTotal.Inc()
	r.FrameDuration.Observe(duration.Seconds())
}

// UpdateTopology sets the topology gauges from editor stats
func (r *Registry) UpdateTopology(stats topology.Stats) {
	r.TopologyNodes.Set(float64(stats.Nodes))
	r.TopologyLinks.Set(float64(stats.Links))
	r.TrafficAnimations.Set(float64(stats.Animations))
	if stats.LinkMode {
		r.LinkModeEnabled.Set(1)
	} else {
		r.LinkModeEnabled.Set(0)
	}
}

// RecordSceneFrame counts a published scene frame and its operations
func (r *Registry) RecordSceneFrame(f scene.Frame) {
	r.SceneFramesTotal.Inc()
	for _, op := range f.Ops {
		r.SceneOpsTotal.WithLabelValues(string(op.Type)).Inc()
	}
}

// RecordSeedReload counts an applied seed file reload
func (r *Registry) RecordSeedReload() {
	r.SeedReloadsTotal.Inc()
}

// SetSSEClients sets the connected event stream client count
func (r *Registry) SetSSEClients(n int) {
	r.SSEClients.Set(float64(n))
}
