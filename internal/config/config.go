// Package config provides configuration management for topoedit.
//
// The config file describes how the editor runs: where it listens, the
// canvas and frame rate, traffic animation tuning, the seed node file
// and toolbar palette overrides. It never holds topology state.
//
// Config file locations (priority order):
//  1. $TOPOEDIT_CONFIG
//  2. ./topoedit.yaml
//  3. $XDG_CONFIG_HOME/topoedit/config.yaml
//  4. ~/.config/topoedit/config.yaml
//  5. /etc/topoedit/config.yaml
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"topoedit/internal/domain"
	"topoedit/internal/topology"
)

// ErrInvalid is returned by Validate
var ErrInvalid = errors.New("invalid config")

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads and validates config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns the stock configuration
func DefaultConfig() *Config {
	traffic := topology.DefaultTrafficOptions()
	placement := topology.DefaultPlacement()
	return &Config{
		Version: 1,
		Server: ServerConfig{
			Addr:      ":3000",
			KeepAlive: Duration(30 * time.Second),
			CORS:      true,
		},
		Canvas: CanvasConfig{
			Width:  800,
			Height: 600,
			FPS:    60,
			Placement: PlacementConfig{
				X:      placement.X,
				Y:      placement.Y,
				Width:  placement.Width,
				Height: placement.Height,
			},
		},
		Traffic: TrafficConfig{
			MinSpeed: traffic.MinSpeed,
			MaxSpeed: traffic.MaxSpeed,
			High:     traffic.Thresholds.High,
			Medium:   traffic.Thresholds.Medium,
		},
		Seeds: SeedsConfig{
			Debounce: Duration(500 * time.Millisecond),
		},
	}
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	def := DefaultConfig()

	if c.Version == 0 {
		c.Version = def.Version
	}
	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
	if c.Server.KeepAlive == 0 {
		c.Server.KeepAlive = def.Server.KeepAlive
	}
	if c.Canvas.Width == 0 {
		c.Canvas.Width = def.Canvas.Width
	}
	if c.Canvas.Height == 0 {
		c.Canvas.Height = def.Canvas.Height
	}
	if c.Canvas.FPS == 0 {
		c.Canvas.FPS = def.Canvas.FPS
	}
	if c.Canvas.Placement == (PlacementConfig{}) {
		c.Canvas.Placement = def.Canvas.Placement
	}
	if c.Traffic.MinSpeed == 0 && c.Traffic.MaxSpeed == 0 {
		c.Traffic.MinSpeed = def.Traffic.MinSpeed
		c.Traffic.MaxSpeed = def.Traffic.MaxSpeed
	}
	if c.Traffic.High == 0 && c.Traffic.Medium == 0 {
		c.Traffic.High = def.Traffic.High
		c.Traffic.Medium = def.Traffic.Medium
	}
	if c.Seeds.Debounce == 0 {
		c.Seeds.Debounce = def.Seeds.Debounce
	}
}

// Validate reports every problem found in the config
func (c *Config) Validate() error {
	var problems []string

	if c.Canvas.FPS <= 0 || c.Canvas.FPS > 240 {
		problems = append(problems, fmt.Sprintf("canvas.fps %d out of range (1-240)", c.Canvas.FPS))
	}
	if c.Canvas.Placement.Width < 0 || c.Canvas.Placement.Height < 0 {
		problems = append(problems, "canvas.placement has negative size")
	}
	if c.Traffic.MinSpeed <= 0 || c.Traffic.MinSpeed >= 1 {
		problems = append(problems, fmt.Sprintf("traffic.min_speed %g must be in (0,1)", c.Traffic.MinSpeed))
	}
	if c.Traffic.MaxSpeed < c.Traffic.MinSpeed || c.Traffic.MaxSpeed >= 1 {
		problems = append(problems, fmt.Sprintf("traffic.max_speed %g must be in [min_speed,1)", c.Traffic.MaxSpeed))
	}
	if c.Traffic.MaxPerLink < 0 {
		problems = append(problems, "traffic.max_per_link must not be negative")
	}
	if c.Traffic.Medium < 0 || c.Traffic.Medium > c.Traffic.High || c.Traffic.High > 1 {
		problems = append(problems, fmt.Sprintf("traffic thresholds must satisfy 0 <= medium (%g) <= high (%g) <= 1",
			c.Traffic.Medium, c.Traffic.High))
	}
	for key := range c.Palette {
		if _, err := domain.ParseNodeType(key); err != nil {
			problems = append(problems, fmt.Sprintf("palette: %v", err))
		}
	}

	if len(problems) == 0 {
		return nil
	}
	sort.Strings(problems)
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
}

// FrameInterval returns the time between animation frames
func (c *Config) FrameInterval() time.Duration {
	if c.Canvas.FPS <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.Canvas.FPS)
}

// TopologyOptions converts the config into editor options. Seeds are
// loaded separately.
func (c *Config) TopologyOptions() topology.Options {
	opts := topology.DefaultOptions()

	opts.Traffic = topology.TrafficOptions{
		MinSpeed:   c.Traffic.MinSpeed,
		MaxSpeed:   c.Traffic.MaxSpeed,
		MaxPerLink: c.Traffic.MaxPerLink,
		Thresholds: domain.Thresholds{High: c.Traffic.High, Medium: c.Traffic.Medium},
	}
	opts.Placement = topology.Placement{
		X:      c.Canvas.Placement.X,
		Y:      c.Canvas.Placement.Y,
		Width:  c.Canvas.Placement.Width,
		Height: c.Canvas.Placement.Height,
	}

	for key, entry := range c.Palette {
		t, err := domain.ParseNodeType(key)
		if err != nil {
			continue // rejected by Validate
		}
		cur := opts.Palette[t]
		if entry.Name != "" {
			cur.Name = entry.Name
		}
		if entry.Color != "" {
			cur.Color = entry.Color
		}
		opts.Palette[t] = cur
	}

	return opts
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	seeds := c.Seeds.Path
	if seeds == "" {
		seeds = "built-in"
	}
	limit := "unlimited"
	if c.Traffic.MaxPerLink > 0 {
		limit = fmt.Sprintf("%d", c.Traffic.MaxPerLink)
	}

	summary := fmt.Sprintf("Listen: %s, Canvas: %gx%g @ %d fps\n",
		c.Server.Addr, c.Canvas.Width, c.Canvas.Height, c.Canvas.FPS)
	summary += fmt.Sprintf("Traffic: speed %g-%g, per link %s, thresholds %g/%g\n",
		c.Traffic.MinSpeed, c.Traffic.MaxSpeed, limit, c.Traffic.Medium, c.Traffic.High)
	summary += fmt.Sprintf("Seeds: %s (watch %v)", seeds, c.Seeds.Watch)
	return summary
}
