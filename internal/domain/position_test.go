package domain

import (
	"testing"
)

func TestLerp(t *testing.T) {
	a := Point{X: 0, Y: 0}
	b := Point{X: 100, Y: 0}

	tests := []struct {
		name string
		t    float64
		want Point
	}{
		{"start", 0, Point{X: 0, Y: 0}},
		{"midpoint", 0.5, Point{X: 50, Y: 0}},
		{"quarter", 0.25, Point{X: 25, Y: 0}},
		{"end", 1, Point{X: 100, Y: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Lerp(a, b, tt.t); got != tt.want {
				t.Errorf("Lerp at %f = %v, want %v", tt.t, got, tt.want)
			}
		})
	}
}

func TestSegment(t *testing.T) {
	t.Run("diagonal interpolation", func(t *testing.T) {
		s := Segment{From: Point{X: 150, Y: 150}, To: Point{X: 450, Y: 350}}
		got := s.At(0.5)
		if got != (Point{X: 300, Y: 250}) {
			t.Errorf("expected (300,250), got %v", got)
		}
	})

	t.Run("degenerate segment", func(t *testing.T) {
		p := Point{X: 10, Y: 10}
		if !(Segment{From: p, To: p}).Degenerate() {
			t.Error("expected zero-length segment to be degenerate")
		}
		if (Segment{From: p, To: Point{X: 11, Y: 10}}).Degenerate() {
			t.Error("expected non-zero segment not to be degenerate")
		}
	})
}

func TestThresholdsClassify(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		ratio float64
		want  TrafficLevel
	}{
		{0.0, TrafficLow},
		{0.29, TrafficLow},
		{0.3, TrafficMedium},
		{0.69, TrafficMedium},
		{0.7, TrafficHigh},
		{0.99, TrafficHigh},
	}

	for _, tt := range tests {
		if got := th.Classify(tt.ratio); got != tt.want {
			t.Errorf("Classify(%f) = %s, want %s", tt.ratio, got, tt.want)
		}
	}
}

func TestTrafficLevelColor(t *testing.T) {
	tests := []struct {
		level TrafficLevel
		want  string
	}{
		{TrafficHigh, "red"},
		{TrafficMedium, "yellow"},
		{TrafficLow, "green"},
		{TrafficIdle, "yellow"},
		{TrafficLevel("bogus"), "yellow"},
	}

	for _, tt := range tests {
		if got := tt.level.Color(); got != tt.want {
			t.Errorf("%s.Color() = %s, want %s", tt.level, got, tt.want)
		}
	}
}
