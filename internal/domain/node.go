package domain

import "fmt"

// NodeType represents the type of topology node
type NodeType string

const (
	NodeTypeBuilding    NodeType = "building"
	NodeTypeServer      NodeType = "server"
	NodeTypeSwitch      NodeType = "switch"
	NodeTypeAccessPoint NodeType = "access_point"
)

// DefaultCoverageRadius is the coverage ring radius given to access points
const DefaultCoverageRadius = 100.0

// ParseNodeType converts a string to NodeType. Short toolbar names ("ap")
// are accepted.
func ParseNodeType(s string) (NodeType, error) {
	switch s {
	case "building", "Building":
		return NodeTypeBuilding, nil
	case "server", "Server":
		return NodeTypeServer, nil
	case "switch", "Switch":
		return NodeTypeSwitch, nil
	case "access_point", "AccessPoint", "ap", "AP":
		return NodeTypeAccessPoint, nil
	default:
		return "", fmt.Errorf("unknown node type %q", s)
	}
}

// Label returns the display form used in tooltips and terminal output
func (t NodeType) Label() string {
	switch t {
	case NodeTypeBuilding:
		return "Building"
	case NodeTypeServer:
		return "Server"
	case NodeTypeSwitch:
		return "Switch"
	case NodeTypeAccessPoint:
		return "AP"
	default:
		return string(t)
	}
}

// NodeID identifies a node for the lifetime of the topology
type NodeID string

// NodeSpec describes a node to be created
type NodeSpec struct {
	Name  string   `json:"name" yaml:"name"`
	X     float64  `json:"x" yaml:"x"`
	Y     float64  `json:"y" yaml:"y"`
	Color string   `json:"color" yaml:"color"`
	Type  NodeType `json:"type" yaml:"type"`
}

// Node represents a positioned entity on the canvas
type Node struct {
	ID       NodeID   `json:"id"`
	Name     string   `json:"name"`
	Type     NodeType `json:"type"`
	Color    string   `json:"color"`
	Position Point    `json:"position"`

	// Coverage is the radius of the coverage ring, zero unless Type is
	// NodeTypeAccessPoint.
	Coverage float64 `json:"coverage,omitempty"`
}

// NewNode creates a node from a spec
func NewNode(id NodeID, spec NodeSpec) *Node {
	if spec.Type == "" {
		spec.Type = NodeTypeBuilding
	}
	n := &Node{
		ID:       id,
		Name:     spec.Name,
		Type:     spec.Type,
		Color:    spec.Color,
		Position: Point{X: spec.X, Y: spec.Y},
	}
	if n.Type == NodeTypeAccessPoint {
		n.Coverage = DefaultCoverageRadius
	}
	return n
}

// Center returns the point links attach to
func (n *Node) Center() Point {
	return n.Position
}

// HasCoverage reports whether the node renders a coverage ring
func (n *Node) HasCoverage() bool {
	return n.Coverage > 0
}

// Tooltip returns the hover text for the node
func (n *Node) Tooltip() string {
	return fmt.Sprintf("%s (%s)", n.Name, n.Type.Label())
}
