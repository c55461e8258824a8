package domain

// TrafficLevel represents the simulated load of a link
type TrafficLevel string

const (
	TrafficIdle   TrafficLevel = "idle" // No animation has classified the link yet
	TrafficLow    TrafficLevel = "low"
	TrafficMedium TrafficLevel = "medium"
	TrafficHigh   TrafficLevel = "high"
)

// Stroke colors for each traffic level
var TrafficColors = map[TrafficLevel]string{
	TrafficIdle:   "yellow",
	TrafficLow:    "green",
	TrafficMedium: "yellow",
	TrafficHigh:   "red",
}

// Color returns the stroke color for the level
func (l TrafficLevel) Color() string {
	if c, ok := TrafficColors[l]; ok {
		return c
	}
	return TrafficColors[TrafficIdle]
}

// Thresholds splits a uniform sample in [0,1) into traffic levels
type Thresholds struct {
	High   float64 `json:"high" yaml:"high"`
	Medium float64 `json:"medium" yaml:"medium"`
}

// DefaultThresholds returns the stock classification cut points
func DefaultThresholds() Thresholds {
	return Thresholds{High: 0.7, Medium: 0.3}
}

// Classify maps a sample to a traffic level
func (th Thresholds) Classify(ratio float64) TrafficLevel {
	switch {
	case ratio >= th.High:
		return TrafficHigh
	case ratio >= th.Medium:
		return TrafficMedium
	default:
		return TrafficLow
	}
}
