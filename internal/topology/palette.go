package topology

import (
	"fmt"

	"topoedit/internal/domain"
)

// PaletteEntry is the toolbar default for one node type
type PaletteEntry struct {
	Name  string `yaml:"name" json:"name"`
	Color string `yaml:"color" json:"color"`
}

// Palette maps node types to their toolbar defaults
type Palette map[domain.NodeType]PaletteEntry

// DefaultPalette returns the stock toolbar entries
func DefaultPalette() Palette {
	return Palette{
		domain.NodeTypeBuilding:    {Name: "Building", Color: "#2196f3"},
		domain.NodeTypeServer:      {Name: "Server", Color: "#00bcd4"},
		domain.NodeTypeSwitch:      {Name: "Switch", Color: "#ffeb3b"},
		domain.NodeTypeAccessPoint: {Name: "Access Point", Color: "#e91e63"},
	}
}

// Placement is the area toolbar nodes are dropped into
type Placement struct {
	X, Y          float64
	Width, Height float64
}

// DefaultPlacement returns [50,550) x [50,450)
func DefaultPlacement() Placement {
	return Placement{X: 50, Y: 50, Width: 500, Height: 400}
}

// Spec builds a node spec for t at a random spot inside area
func (p Palette) Spec(t domain.NodeType, area Placement, rnd Rand) (domain.NodeSpec, error) {
	entry, ok := p[t]
	if !ok {
		return domain.NodeSpec{}, fmt.Errorf("no palette entry for %q", t)
	}
	return domain.NodeSpec{
		Name:  entry.Name,
		X:     area.X + rnd.Float64()*area.Width,
		Y:     area.Y + rnd.Float64()*area.Height,
		Color: entry.Color,
		Type:  t,
	}, nil
}
