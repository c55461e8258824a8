package scene

import (
	"sort"

	"topoedit/internal/domain"
)

// Memory is an in-process Surface. It is not safe for concurrent use.
type Memory struct {
	shapes  map[Handle]*Shape
	next    Handle
	redraws int
}

// NewMemory creates an empty surface
func NewMemory() *Memory {
	return &Memory{
		shapes: make(map[Handle]*Shape),
	}
}

// CreateShape adds a shape and returns its handle
func (m *Memory) CreateShape(kind Kind, style Style) Handle {
	m.next++
	m.shapes[m.next] = &Shape{
		Handle: m.next,
		Kind:   kind,
		Style:  style,
	}
	return m.next
}

// SetPosition moves a circle or label. Unknown handles are ignored.
func (m *Memory) SetPosition(h Handle, x, y float64) {
	if s, ok := m.shapes[h]; ok {
		s.X, s.Y = x, y
	}
}

// SetPoints sets the endpoints of a line. Unknown handles are ignored.
func (m *Memory) SetPoints(h Handle, from, to domain.Point) {
	if s, ok := m.shapes[h]; ok {
		s.Points = [2]domain.Point{from, to}
	}
}

// SetStyle replaces the style of a shape. Unknown handles are ignored.
func (m *Memory) SetStyle(h Handle, style Style) {
	if s, ok := m.shapes[h]; ok {
		s.Style = style
	}
}

// DestroyShape removes a shape
func (m *Memory) DestroyShape(h Handle) {
	delete(m.shapes, h)
}

// RequestRedraw counts redraw requests
func (m *Memory) RequestRedraw() {
	m.redraws++
}

// Shape returns a copy of the shape with handle h
func (m *Memory) Shape(h Handle) (Shape, bool) {
	s, ok := m.shapes[h]
	if !ok {
		return Shape{}, false
	}
	return *s, true
}

// Len returns the number of live shapes
func (m *Memory) Len() int {
	return len(m.shapes)
}

// Redraws returns the number of redraw requests seen
func (m *Memory) Redraws() int {
	return m.redraws
}

// Shapes returns copies of all live shapes ordered by layer, then handle
func (m *Memory) Shapes() []Shape {
	out := make([]Shape, 0, len(m.shapes))
	for _, s := range m.shapes {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Style.Layer != out[j].Style.Layer {
			return out[i].Style.Layer < out[j].Style.Layer
		}
		return out[i].Handle < out[j].Handle
	})
	return out
}

// CountKind returns the number of live shapes of a kind
func (m *Memory) CountKind(kind Kind) int {
	n := 0
	for _, s := range m.shapes {
		if s.Kind == kind {
			n++
		}
	}
	return n
}
