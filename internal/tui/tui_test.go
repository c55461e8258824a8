package tui

import (
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"topoedit/internal/domain"
	"topoedit/internal/topology"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	opts := topology.DefaultOptions()
	opts.Seeds = []domain.NodeSpec{
		{Name: "CSC Building", X: 150, Y: 150, Color: "#2196f3", Type: domain.NodeTypeBuilding},
		{Name: "ECE Building", X: 450, Y: 150, Color: "#f44336", Type: domain.NodeTypeBuilding},
		{Name: "Library", X: 300, Y: 350, Color: "#4caf50", Type: domain.NodeTypeBuilding},
	}
	return New(opts, rand.New(rand.NewPCG(3, 4)), 16*time.Millisecond)
}

func press(t *testing.T, m Model, msgs ...tea.KeyMsg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	down  = tea.KeyMsg{Type: tea.KeyDown}
)

func TestLinkGesture(t *testing.T) {
	m := newTestModel(t)

	m = press(t, m, runes("l"), enter)
	if state, start := m.Editor().DrawState(); state != topology.DrawArmed || start != "n1" {
		t.Fatalf("expected armed on n1, got %v %s", state, start)
	}

	// moving the highlight drags the preview to the next node
	m = press(t, m, down)
	seg, ok := m.graph.Session.Preview, m.graph.Session.Armed
	if !ok || seg == nil || seg.To != (domain.Point{X: 450, Y: 150}) {
		t.Fatalf("preview should end on n2, got %+v", seg)
	}

	m = press(t, m, enter)
	if len(m.graph.Links) != 1 {
		t.Fatalf("expected 1 link, got %d", len(m.graph.Links))
	}
	if m.graph.Links[0].From != "n1" || m.graph.Links[0].To != "n2" {
		t.Errorf("unexpected link %+v", m.graph.Links[0])
	}
	if !strings.Contains(m.message, "l1") {
		t.Errorf("message = %q", m.message)
	}
}

func TestClickWithoutLinkModeSelects(t *testing.T) {
	m := press(t, newTestModel(t), enter)

	if state, _ := m.Editor().DrawState(); state != topology.DrawIdle {
		t.Error("click with link mode off should not arm")
	}
	if !strings.Contains(m.message, "CSC Building") {
		t.Errorf("expected node details, got %q", m.message)
	}
}

func TestAddNodes(t *testing.T) {
	m := press(t, newTestModel(t), runes("1"), runes("2"), runes("3"), runes("4"))

	if len(m.graph.Nodes) != 7 {
		t.Fatalf("expected 7 nodes, got %d", len(m.graph.Nodes))
	}
	want := []domain.NodeType{domain.NodeTypeBuilding, domain.NodeTypeServer, domain.NodeTypeSwitch, domain.NodeTypeAccessPoint}
	for i, typ := range want {
		if got := m.graph.Nodes[3+i].Type; got != typ {
			t.Errorf("node %d type = %s, want %s", 3+i, got, typ)
		}
	}
	if len(m.nodes.Rows()) != 7 {
		t.Errorf("table has %d rows", len(m.nodes.Rows()))
	}
}

func TestDragMovesLinks(t *testing.T) {
	m := newTestModel(t)
	if _, err := m.Editor().AddLink("n1", "n2"); err != nil {
		t.Fatal(err)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyShiftRight}, tea.KeyMsg{Type: tea.KeyShiftDown})

	if got := m.graph.Nodes[0].Position; got != (domain.Point{X: 160, Y: 160}) {
		t.Errorf("n1 at %v", got)
	}
	if got := m.graph.Links[0].Points[0]; got != (domain.Point{X: 160, Y: 160}) {
		t.Errorf("link start at %v", got)
	}
}

func TestTrafficKeys(t *testing.T) {
	m := newTestModel(t)
	m.Editor().AddLink("n1", "n2")
	m.Editor().AddLink("n2", "n3")

	m = press(t, m, runes("t"))
	if len(m.handles) != 2 || len(m.graph.Animations) != 2 {
		t.Fatalf("expected 2 animations, got handles %v", m.handles)
	}

	next, cmd := m.Update(tickMsg(time.Now()))
	m = next.(Model)
	if cmd == nil {
		t.Error("tick should schedule the next frame")
	}
	for _, a := range m.graph.Animations {
		if a.Progress <= 0 {
			t.Errorf("animation %d did not advance", a.Handle)
		}
	}

	m = press(t, m, runes("x"))
	if len(m.graph.Animations) != 1 || m.graph.Animations[0].LinkID != "l1" {
		t.Errorf("expected only l1 animated, got %+v", m.graph.Animations)
	}

	m = press(t, m, runes("p"))
	before := m.graph.Animations[0].Progress
	next, _ = m.Update(tickMsg(time.Now()))
	m = next.(Model)
	if m.graph.Animations[0].Progress != before {
		t.Error("paused model should not advance")
	}
}

func TestClearAll(t *testing.T) {
	m := newTestModel(t)
	m.Editor().AddLink("n1", "n2")
	m = press(t, m, runes("t"), runes("1"), down, down, down, runes("c"))

	if len(m.graph.Nodes) != 3 || len(m.graph.Links) != 0 || len(m.graph.Animations) != 0 {
		t.Errorf("after clear: %s", m.graph.Summary())
	}
	if m.nodes.Cursor() != 0 {
		t.Errorf("cursor = %d", m.nodes.Cursor())
	}

	m = press(t, m, runes("x"))
	if m.message != "No traffic running" {
		t.Errorf("message = %q", m.message)
	}
}

func TestQuit(t *testing.T) {
	_, cmd := newTestModel(t).Update(runes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestView(t *testing.T) {
	m := newTestModel(t)
	m.Editor().AddLink("n1", "n2")
	m = press(t, m, runes("l"), enter)

	view := m.View()
	for _, want := range []string{"topoedit", "CSC Building", "l1", "linking from n1"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
