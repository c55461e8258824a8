package domain

import (
	"testing"
)

func TestNewNode(t *testing.T) {
	t.Run("copies spec attributes", func(t *testing.T) {
		node := NewNode("n1", NodeSpec{Name: "CSC Building", X: 150, Y: 150, Color: "#2196f3", Type: NodeTypeBuilding})

		if node.ID != "n1" {
			t.Errorf("expected ID 'n1', got %s", node.ID)
		}
		if node.Name != "CSC Building" {
			t.Errorf("expected name 'CSC Building', got %s", node.Name)
		}
		if node.Position != (Point{X: 150, Y: 150}) {
			t.Errorf("expected position (150,150), got %v", node.Position)
		}
		if node.Color != "#2196f3" {
			t.Errorf("expected color #2196f3, got %s", node.Color)
		}
		if node.HasCoverage() {
			t.Error("building should not have a coverage ring")
		}
	})

	t.Run("access point gets coverage radius", func(t *testing.T) {
		node := NewNode("n2", NodeSpec{Name: "Access Point", Type: NodeTypeAccessPoint})

		if !node.HasCoverage() {
			t.Fatal("expected access point to have coverage")
		}
		if node.Coverage != DefaultCoverageRadius {
			t.Errorf("expected coverage %f, got %f", DefaultCoverageRadius, node.Coverage)
		}
	})

	t.Run("empty type defaults to building", func(t *testing.T) {
		node := NewNode("n3", NodeSpec{Name: "Library"})
		if node.Type != NodeTypeBuilding {
			t.Errorf("expected building, got %s", node.Type)
		}
	})

	t.Run("center is position", func(t *testing.T) {
		node := NewNode("n4", NodeSpec{X: 12, Y: 34})
		if node.Center() != node.Position {
			t.Errorf("expected center %v, got %v", node.Position, node.Center())
		}
	})
}

func TestParseNodeType(t *testing.T) {
	tests := []struct {
		input string
		want  NodeType
		err   bool
	}{
		{"building", NodeTypeBuilding, false},
		{"Server", NodeTypeServer, false},
		{"switch", NodeTypeSwitch, false},
		{"AP", NodeTypeAccessPoint, false},
		{"access_point", NodeTypeAccessPoint, false},
		{"router", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseNodeType(tt.input)
		if (err != nil) != tt.err {
			t.Errorf("ParseNodeType(%q) error = %v, wantErr %v", tt.input, err, tt.err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseNodeType(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestNodeTooltip(t *testing.T) {
	node := NewNode("n1", NodeSpec{Name: "Access Point", Type: NodeTypeAccessPoint})
	if got := node.Tooltip(); got != "Access Point (AP)" {
		t.Errorf("expected 'Access Point (AP)', got %q", got)
	}
}

func TestLinkEndpoints(t *testing.T) {
	link := NewLink("l1", "a", "b")

	if !link.Touches("a") || !link.Touches("b") {
		t.Error("expected link to touch both endpoints")
	}
	if link.Touches("c") {
		t.Error("expected link not to touch c")
	}
	if link.Other("a") != "b" || link.Other("b") != "a" {
		t.Error("Other should return the opposite endpoint")
	}
	if link.Level != TrafficIdle {
		t.Errorf("expected idle level, got %s", link.Level)
	}
}
