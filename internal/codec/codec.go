package codec

import (
	"fmt"
	"io"
	"sort"

	"topoedit/internal/domain"
)

// Importer reads a topology view from some format
type Importer interface {
	Parse(r io.Reader) (*domain.Graph, error)
	Format() string
}

// Exporter writes a topology view to some format
type Exporter interface {
	Export(graph *domain.Graph, w io.Writer) error
	Format() string
	ContentType() string
}

// Codec is both an Importer and an Exporter
type Codec interface {
	Importer
	Exporter
}

var registry = map[string]Codec{
	"json": NewJSONCodec(),
	"yaml": NewYAMLCodec(),
	"yml":  NewYAMLCodec(),
}

// Lookup returns the codec registered for format
func Lookup(format string) (Codec, error) {
	c, ok := registry[format]
	if !ok {
		return nil, fmt.Errorf("unsupported format %q (supported: %v)", format, Formats())
	}
	return c, nil
}

// Formats lists the registered format names
func Formats() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// normalize canonicalizes a parsed document: node types are parsed with
// building as the default, links without a level are idle and link
// geometry is taken from the endpoint positions.
func normalize(graph *domain.Graph) error {
	positions := make(map[domain.NodeID]domain.Point, len(graph.Nodes))
	for i := range graph.Nodes {
		n := &graph.Nodes[i]
		if n.Type == "" {
			n.Type = domain.NodeTypeBuilding
		} else {
			t, err := domain.ParseNodeType(string(n.Type))
			if err != nil {
				return fmt.Errorf("node %s: %w", n.ID, err)
			}
			n.Type = t
		}
		if n.Type == domain.NodeTypeAccessPoint && n.Coverage == 0 {
			n.Coverage = domain.DefaultCoverageRadius
		}
		positions[n.ID] = n.Position
	}

	for i := range graph.Links {
		l := &graph.Links[i]
		if l.Level == "" {
			l.Level = domain.TrafficIdle
		}
		l.Color = l.Level.Color()
		l.Points = [2]domain.Point{positions[l.From], positions[l.To]}
	}

	if graph.Nodes == nil {
		graph.Nodes = []domain.GraphNode{}
	}
	if graph.Links == nil {
		graph.Links = []domain.GraphLink{}
	}
	if graph.Animations == nil {
		graph.Animations = []domain.AnimationState{}
	}
	return nil
}
