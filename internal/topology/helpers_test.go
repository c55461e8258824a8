package topology

import (
	"testing"

	"topoedit/internal/domain"
	"topoedit/internal/scene"
)

// seqRand returns its values in order, cycling
type seqRand struct {
	vals []float64
	i    int
}

func (r *seqRand) Float64() float64 {
	v := r.vals[r.i%len(r.vals)]
	r.i++
	return v
}

func constRand(v float64) *seqRand {
	return &seqRand{vals: []float64{v}}
}

// fixedSpeed returns traffic options where every animation moves by speed
func fixedSpeed(speed float64) TrafficOptions {
	opts := DefaultTrafficOptions()
	opts.MinSpeed = speed
	opts.MaxSpeed = speed
	return opts
}

func newTestEditor(t *testing.T, opts Options) (*Editor, *scene.Memory) {
	t.Helper()
	surface := scene.NewMemory()
	return New(surface, constRand(0.5), opts), surface
}

func building(name string, x, y float64) domain.NodeSpec {
	return domain.NodeSpec{Name: name, X: x, Y: y, Color: "#2196f3", Type: domain.NodeTypeBuilding}
}

func mustLink(t *testing.T, s *Store, a, b domain.NodeID) domain.LinkID {
	t.Helper()
	id, err := s.AddLink(a, b)
	if err != nil {
		t.Fatalf("AddLink(%s, %s): %v", a, b, err)
	}
	return id
}

func linePoints(t *testing.T, m *scene.Memory, s *Store, id domain.LinkID) [2]domain.Point {
	t.Helper()
	shape, ok := m.Shape(s.linkShapes[id])
	if !ok {
		t.Fatalf("no shape for link %s", id)
	}
	return shape.Points
}
