package config

import (
	"time"
)

// Config is the root configuration structure
type Config struct {
	Version int                     `yaml:"version"`
	Server  ServerConfig            `yaml:"server"`
	Canvas  CanvasConfig            `yaml:"canvas"`
	Traffic TrafficConfig           `yaml:"traffic"`
	Seeds   SeedsConfig             `yaml:"seeds"`
	Palette map[string]PaletteEntry `yaml:"palette,omitempty"` // keyed by node type
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr      string   `yaml:"addr"`
	KeepAlive Duration `yaml:"keepalive"` // SSE keepalive interval
	CORS      bool     `yaml:"cors"`
}

// CanvasConfig describes the drawing area and frame clock
type CanvasConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	FPS    int     `yaml:"fps"`

	// Placement is the area toolbar nodes are dropped into
	Placement PlacementConfig `yaml:"placement"`
}

// PlacementConfig is a rectangle on the canvas
type PlacementConfig struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// TrafficConfig holds traffic animation settings
type TrafficConfig struct {
	MinSpeed   float64 `yaml:"min_speed"`
	MaxSpeed   float64 `yaml:"max_speed"`
	MaxPerLink int     `yaml:"max_per_link"` // 0 = unlimited
	High       float64 `yaml:"high_threshold"`
	Medium     float64 `yaml:"medium_threshold"`
}

// SeedsConfig points at the seed node file
type SeedsConfig struct {
	Path     string   `yaml:"path,omitempty"` // empty = built-in campus
	Watch    bool     `yaml:"watch"`
	Debounce Duration `yaml:"debounce"`
}

// PaletteEntry overrides the toolbar defaults for one node type
type PaletteEntry struct {
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
