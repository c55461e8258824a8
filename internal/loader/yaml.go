package loader

import (
	"fmt"
	"os"
	"strings"

	"topoedit/internal/domain"

	"gopkg.in/yaml.v3"
)

// SeedFileYAML represents the seed file structure
type SeedFileYAML struct {
	Version     string         `yaml:"version"`
	Description string         `yaml:"description,omitempty"`
	Nodes       []SeedNodeYAML `yaml:"nodes"`
}

// SeedNodeYAML represents one seed node
type SeedNodeYAML struct {
	Name  string  `yaml:"name"`
	Type  string  `yaml:"type,omitempty"` // defaults to building
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Color string  `yaml:"color,omitempty"`
}

// defaultColors are used when a seed node has no color
var defaultColors = map[domain.NodeType]string{
	domain.NodeTypeBuilding:    "#2196f3",
	domain.NodeTypeServer:      "#00bcd4",
	domain.NodeTypeSwitch:      "#ffeb3b",
	domain.NodeTypeAccessPoint: "#e91e63",
}

// DefaultSeeds returns the built-in campus of five buildings
func DefaultSeeds() []domain.NodeSpec {
	return []domain.NodeSpec{
		{Name: "CSC Building", X: 150, Y: 150, Color: "#2196f3", Type: domain.NodeTypeBuilding},
		{Name: "ECE Building", X: 450, Y: 150, Color: "#f44336", Type: domain.NodeTypeBuilding},
		{Name: "Mechanical Building", X: 150, Y: 350, Color: "#ff9800", Type: domain.NodeTypeBuilding},
		{Name: "Civil Building", X: 450, Y: 350, Color: "#9c27b0", Type: domain.NodeTypeBuilding},
		{Name: "Library", X: 300, Y: 550, Color: "#4caf50", Type: domain.NodeTypeBuilding},
	}
}

// LoadSeeds loads seed nodes from a YAML file. An empty path returns the
// built-in campus.
func LoadSeeds(path string) ([]domain.NodeSpec, error) {
	if path == "" {
		return DefaultSeeds(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return ParseSeeds(data)
}

// ParseSeeds parses seed nodes from YAML bytes
func ParseSeeds(data []byte) ([]domain.NodeSpec, error) {
	var file SeedFileYAML
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return convertSeeds(&file)
}

func convertSeeds(f *SeedFileYAML) ([]domain.NodeSpec, error) {
	specs := make([]domain.NodeSpec, 0, len(f.Nodes))
	var problems []string

	for i, n := range f.Nodes {
		name := strings.TrimSpace(n.Name)
		if name == "" {
			problems = append(problems, fmt.Sprintf("node %d: missing name", i))
			continue
		}

		nodeType := domain.NodeTypeBuilding
		if n.Type != "" {
			t, err := domain.ParseNodeType(n.Type)
			if err != nil {
				problems = append(problems, fmt.Sprintf("node %q: %v", name, err))
				continue
			}
			nodeType = t
		}

		color := n.Color
		if color == "" {
			color = defaultColors[nodeType]
		}

		specs = append(specs, domain.NodeSpec{
			Name:  name,
			X:     n.X,
			Y:     n.Y,
			Color: color,
			Type:  nodeType,
		})
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("invalid seed file: %s", strings.Join(problems, "; "))
	}
	return specs, nil
}

// ExportSeeds writes the nodes of a graph as a seed file, so the current
// layout can be used as the next reset target
func ExportSeeds(graph *domain.Graph) ([]byte, error) {
	file := &SeedFileYAML{
		Version: "1",
		Nodes:   make([]SeedNodeYAML, 0, len(graph.Nodes)),
	}

	for _, n := range graph.Nodes {
		file.Nodes = append(file.Nodes, SeedNodeYAML{
			Name:  n.Name,
			Type:  string(n.Type),
			X:     n.Position.X,
			Y:     n.Position.Y,
			Color: n.Color,
		})
	}

	return yaml.Marshal(file)
}
