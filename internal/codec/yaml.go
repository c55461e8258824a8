package codec

import (
	"fmt"
	"io"

	"topoedit/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles YAML import/export. The document is the editable
// part of the view: nodes and links, without session or animations.
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// ContentType returns the MIME type of exported documents
func (c *YAMLCodec) ContentType() string {
	return "application/yaml"
}

// yamlTopology represents the YAML structure for a topology
type yamlTopology struct {
	Nodes []yamlNode `yaml:"nodes"`
	Links []yamlLink `yaml:"links"`
}

type yamlNode struct {
	ID    string  `yaml:"id"`
	Name  string  `yaml:"name"`
	Type  string  `yaml:"type"`
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Color string  `yaml:"color"`
}

type yamlLink struct {
	ID    string `yaml:"id,omitempty"`
	From  string `yaml:"from"`
	To    string `yaml:"to"`
	Level string `yaml:"level,omitempty"`
}

// Parse imports a topology from YAML. Link geometry is filled in from
// the endpoint positions.
func (c *YAMLCodec) Parse(r io.Reader) (*domain.Graph, error) {
	var yt yamlTopology
	if err := yaml.NewDecoder(r).Decode(&yt); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	graph := &domain.Graph{
		Nodes: make([]domain.GraphNode, 0, len(yt.Nodes)),
		Links: make([]domain.GraphLink, 0, len(yt.Links)),
	}
	for _, yn := range yt.Nodes {
		graph.Nodes = append(graph.Nodes, domain.GraphNode{
			ID:       domain.NodeID(yn.ID),
			Name:     yn.Name,
			Type:     domain.NodeType(yn.Type),
			Color:    yn.Color,
			Position: domain.Point{X: yn.X, Y: yn.Y},
		})
	}
	for _, yl := range yt.Links {
		graph.Links = append(graph.Links, domain.GraphLink{
			ID:    domain.LinkID(yl.ID),
			From:  domain.NodeID(yl.From),
			To:    domain.NodeID(yl.To),
			Level: domain.TrafficLevel(yl.Level),
		})
	}

	if err := normalize(graph); err != nil {
		return nil, err
	}
	return graph, nil
}

// Export exports a topology to YAML
func (c *YAMLCodec) Export(graph *domain.Graph, w io.Writer) error {
	yt := yamlTopology{
		Nodes: make([]yamlNode, 0, len(graph.Nodes)),
		Links: make([]yamlLink, 0, len(graph.Links)),
	}

	for _, node := range graph.Nodes {
		yt.Nodes = append(yt.Nodes, yamlNode{
			ID:    string(node.ID),
			Name:  node.Name,
			Type:  string(node.Type),
			X:     node.Position.X,
			Y:     node.Position.Y,
			Color: node.Color,
		})
	}

	for _, link := range graph.Links {
		yt.Links = append(yt.Links, yamlLink{
			ID:    string(link.ID),
			From:  string(link.From),
			To:    string(link.To),
			Level: string(link.Level),
		})
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(&yt); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}
