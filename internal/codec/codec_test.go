package codec

import (
	"bytes"
	"strings"
	"testing"

	"topoedit/internal/domain"
)

func sampleGraph() *domain.Graph {
	nodes := []*domain.Node{
		domain.NewNode("n1", domain.NodeSpec{Name: "CSC Building", X: 150, Y: 150, Color: "#2196f3"}),
		domain.NewNode("n2", domain.NodeSpec{Name: "Rack", X: 450, Y: 150, Color: "#00bcd4", Type: domain.NodeTypeServer}),
	}
	link := domain.NewLink("l1", "n1", "n2")
	link.Geometry = domain.Segment{From: nodes[0].Center(), To: nodes[1].Center()}
	link.Level = domain.TrafficHigh
	return domain.DeriveGraph(nodes, []*domain.Link{link})
}

func TestLookup(t *testing.T) {
	for _, format := range []string{"json", "yaml", "yml"} {
		if _, err := Lookup(format); err != nil {
			t.Errorf("Lookup(%q) error: %v", format, err)
		}
	}
	if _, err := Lookup("ansible"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestJSONCodec(t *testing.T) {
	c := NewJSONCodec()
	var buf bytes.Buffer
	if err := c.Export(sampleGraph(), &buf); err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	if !strings.Contains(buf.String(), `"level": "high"`) {
		t.Errorf("export missing link level:\n%s", buf.String())
	}

	graph, err := c.Parse(&buf)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(graph.Nodes) != 2 || len(graph.Links) != 1 {
		t.Fatalf("unexpected graph %s", graph.Summary())
	}
	if graph.Links[0].Points[1] != (domain.Point{X: 450, Y: 150}) {
		t.Errorf("unexpected link points %v", graph.Links[0].Points)
	}

	if _, err := c.Parse(strings.NewReader("{")); err == nil {
		t.Error("expected parse error")
	}
}

func TestYAMLCodec(t *testing.T) {
	c := NewYAMLCodec()
	var buf bytes.Buffer
	if err := c.Export(sampleGraph(), &buf); err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	if strings.Contains(buf.String(), "animations") {
		t.Error("YAML export should omit animations")
	}

	graph, err := c.Parse(&buf)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(graph.Nodes) != 2 || len(graph.Links) != 1 {
		t.Fatalf("unexpected graph %s", graph.Summary())
	}
	if graph.Nodes[1].Type != domain.NodeTypeServer {
		t.Errorf("node type = %s, want server", graph.Nodes[1].Type)
	}
	link := graph.Links[0]
	if link.Level != domain.TrafficHigh || link.Color != "red" {
		t.Errorf("unexpected link style %s/%s", link.Level, link.Color)
	}
	if link.Points != [2]domain.Point{{X: 150, Y: 150}, {X: 450, Y: 150}} {
		t.Errorf("geometry not derived from endpoints: %v", link.Points)
	}
}

func TestYAMLCodecDefaults(t *testing.T) {
	doc := "nodes:\n  - id: a\n    name: A\n  - id: b\n    name: B\n    type: ap\nlinks:\n  - from: a\n    to: b\n"
	graph, err := NewYAMLCodec().Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if graph.Nodes[0].Type != domain.NodeTypeBuilding {
		t.Errorf("default type = %s, want building", graph.Nodes[0].Type)
	}
	if graph.Nodes[1].Type != domain.NodeTypeAccessPoint {
		t.Errorf("type = %s, want access_point", graph.Nodes[1].Type)
	}
	if graph.Links[0].Level != domain.TrafficIdle {
		t.Errorf("default level = %s, want idle", graph.Links[0].Level)
	}

	if _, err := NewYAMLCodec().Parse(strings.NewReader("nodes:\n  - id: r\n    type: router\n")); err == nil {
		t.Error("expected error for unknown type")
	}
}

func TestJSONCodecNormalizes(t *testing.T) {
	doc := `{"nodes":[{"id":"a","name":"A","position":{"x":10,"y":20}},{"id":"b","name":"B","type":"ap","position":{"x":30,"y":40}}],
		"links":[{"id":"x","from":"a","to":"b","points":[{"x":0,"y":0},{"x":0,"y":0}]}]}`
	graph, err := NewJSONCodec().Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if graph.Nodes[0].Type != domain.NodeTypeBuilding {
		t.Errorf("default type = %s", graph.Nodes[0].Type)
	}
	if b := graph.Nodes[1]; b.Type != domain.NodeTypeAccessPoint || b.Coverage != domain.DefaultCoverageRadius {
		t.Errorf("access point = %+v", b)
	}
	link := graph.Links[0]
	if link.Level != domain.TrafficIdle || link.Color != "yellow" {
		t.Errorf("unexpected link style %s/%s", link.Level, link.Color)
	}
	if link.Points != [2]domain.Point{{X: 10, Y: 20}, {X: 30, Y: 40}} {
		t.Errorf("stale geometry kept: %v", link.Points)
	}
	if graph.Animations == nil {
		t.Error("animations should be an empty list")
	}

	if _, err := NewJSONCodec().Parse(strings.NewReader(`{"nodes":[{"id":"r","type":"router"}]}`)); err == nil {
		t.Error("expected error for unknown type")
	}
}
