package domain

import (
	"fmt"
	"sort"
)

// Graph is the derived view of the topology served to clients and exporters
type Graph struct {
	Nodes      []GraphNode      `json:"nodes" yaml:"nodes"`
	Links      []GraphLink      `json:"links" yaml:"links"`
	Session    SessionState     `json:"session" yaml:"session"`
	Animations []AnimationState `json:"animations" yaml:"animations"`
}

// GraphNode represents a node in the view
type GraphNode struct {
	ID       NodeID   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Type     NodeType `json:"type" yaml:"type"`
	Color    string   `json:"color" yaml:"color"`
	Title    string   `json:"title" yaml:"title"` // Tooltip content
	Position Point    `json:"position" yaml:"position"`
	Coverage float64  `json:"coverage,omitempty" yaml:"coverage,omitempty"`
	Degree   int      `json:"degree" yaml:"degree"`
}

// GraphLink represents a link in the view
type GraphLink struct {
	ID     LinkID       `json:"id" yaml:"id"`
	From   NodeID       `json:"from" yaml:"from"`
	To     NodeID       `json:"to" yaml:"to"`
	Points [2]Point     `json:"points" yaml:"points"`
	Level  TrafficLevel `json:"level" yaml:"level"`
	Color  string       `json:"color" yaml:"color"`
}

// SessionState describes the link-draw gesture
type SessionState struct {
	LinkMode bool     `json:"link_mode" yaml:"link_mode"`
	Armed    bool     `json:"armed" yaml:"armed"`
	Start    NodeID   `json:"start,omitempty" yaml:"start,omitempty"`
	Preview  *Segment `json:"preview,omitempty" yaml:"preview,omitempty"`
}

// AnimationState describes one running traffic animation
type AnimationState struct {
	Handle   uint64  `json:"handle" yaml:"handle"`
	LinkID   LinkID  `json:"link_id" yaml:"link_id"`
	Progress float64 `json:"progress" yaml:"progress"`
	Speed    float64 `json:"speed" yaml:"speed"`
	Marker   Point   `json:"marker" yaml:"marker"`
}

// DeriveGraph builds the view from nodes and links. Node degree is
// computed from the link set.
func DeriveGraph(nodes []*Node, links []*Link) *Graph {
	graph := &Graph{
		Nodes:      make([]GraphNode, 0, len(nodes)),
		Links:      make([]GraphLink, 0, len(links)),
		Animations: []AnimationState{},
	}

	degree := make(map[NodeID]int, len(nodes))
	for _, l := range links {
		degree[l.FromID]++
		degree[l.ToID]++
	}

	for _, n := range nodes {
		graph.Nodes = append(graph.Nodes, GraphNode{
			ID:       n.ID,
			Name:     n.Name,
			Type:     n.Type,
			Color:    n.Color,
			Title:    n.Tooltip(),
			Position: n.Position,
			Coverage: n.Coverage,
			Degree:   degree[n.ID],
		})
	}

	for _, l := range links {
		graph.Links = append(graph.Links, GraphLink{
			ID:     l.ID,
			From:   l.FromID,
			To:     l.ToID,
			Points: [2]Point{l.Geometry.From, l.Geometry.To},
			Level:  l.Level,
			Color:  l.Level.Color(),
		})
	}

	return graph
}

// SortAnimations orders animations by handle for stable output
func (g *Graph) SortAnimations() {
	sort.Slice(g.Animations, func(i, j int) bool {
		return g.Animations[i].Handle < g.Animations[j].Handle
	})
}

// Summary returns a one-line description of the view
func (g *Graph) Summary() string {
	mode := "off"
	if g.Session.LinkMode {
		mode = "on"
	}
	return fmt.Sprintf("%d nodes, %d links, %d animations, link mode %s",
		len(g.Nodes), len(g.Links), len(g.Animations), mode)
}
