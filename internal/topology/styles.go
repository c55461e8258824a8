package topology

import (
	"topoedit/internal/domain"
	"topoedit/internal/scene"
)

const (
	nodeRadius   = 30.0
	markerRadius = 6.0
)

func bodyStyle(n *domain.Node) scene.Style {
	return scene.Style{
		Fill:        n.Color,
		Stroke:      "#fff",
		StrokeWidth: 3,
		Radius:      nodeRadius,
		ShadowColor: "black",
		ShadowBlur:  8,
		Layer:       scene.LayerNode,
	}
}

func labelStyle(n *domain.Node) scene.Style {
	return scene.Style{
		Text:     n.Name,
		FontSize: 14,
		Fill:     "#fff",
		OffsetY:  40,
		Width:    120,
		Layer:    scene.LayerLabel,
	}
}

func coverageStyle(n *domain.Node) scene.Style {
	return scene.Style{
		Fill:        "rgba(0,255,255,0.15)",
		Stroke:      "cyan",
		StrokeWidth: 2,
		Radius:      n.Coverage,
		Layer:       scene.LayerCoverage,
	}
}

func linkStyle(level domain.TrafficLevel) scene.Style {
	return scene.Style{
		Stroke:      level.Color(),
		StrokeWidth: 3,
		ShadowColor: level.Color(),
		ShadowBlur:  8,
		Layer:       scene.LayerLink,
	}
}

func previewStyle() scene.Style {
	return scene.Style{
		Stroke:      "lime",
		StrokeWidth: 2,
		Dash:        []float64{10, 5},
		Layer:       scene.LayerLink,
	}
}

func markerStyle() scene.Style {
	return scene.Style{
		Fill:        "red",
		Radius:      markerRadius,
		ShadowColor: "red",
		ShadowBlur:  5,
		Layer:       scene.LayerMarker,
	}
}
