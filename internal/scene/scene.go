// Package scene defines the boundary between the topology engine and a
// rendering surface.
//
// The engine only needs to create, position, style and destroy 2D shapes
// and to ask for a redraw. Memory keeps shape state in process and is used
// by tests, the headless simulator and the terminal renderer. Stream wraps
// Memory and publishes the operations of every frame to a remote client.
package scene

import "topoedit/internal/domain"

// Kind identifies a shape primitive
type Kind string

const (
	KindCircle Kind = "circle"
	KindLine   Kind = "line"
	KindLabel  Kind = "label"
)

// Handle identifies a shape on a surface. The zero handle is never issued.
type Handle uint64

// Style holds the visual attributes of a shape. Unused fields stay zero.
type Style struct {
	Fill        string    `json:"fill,omitempty"`
	Stroke      string    `json:"stroke,omitempty"`
	StrokeWidth float64   `json:"stroke_width,omitempty"`
	Radius      float64   `json:"radius,omitempty"`
	Dash        []float64 `json:"dash,omitempty"`
	Text        string    `json:"text,omitempty"`
	FontSize    float64   `json:"font_size,omitempty"`
	OffsetY     float64   `json:"offset_y,omitempty"`
	Width       float64   `json:"width,omitempty"`
	ShadowColor string    `json:"shadow_color,omitempty"`
	ShadowBlur  float64   `json:"shadow_blur,omitempty"`

	// Layer orders shapes; lower layers draw first
	Layer int `json:"layer,omitempty"`
}

// Surface is the rendering capability consumed by the topology engine
type Surface interface {
	CreateShape(kind Kind, style Style) Handle
	SetPosition(h Handle, x, y float64)
	SetPoints(h Handle, from, to domain.Point)
	SetStyle(h Handle, style Style)
	DestroyShape(h Handle)
	RequestRedraw()
}

// Shape is the state of one shape on a surface
type Shape struct {
	Handle Handle          `json:"handle"`
	Kind   Kind            `json:"kind"`
	Style  Style           `json:"style"`
	X      float64         `json:"x"`
	Y      float64         `json:"y"`
	Points [2]domain.Point `json:"points,omitempty"`
}

// Layers used by the editor
const (
	LayerCoverage = -1
	LayerLink     = 0
	LayerNode     = 1
	LayerLabel    = 2
	LayerMarker   = 3
)
