package topology

import (
	"errors"
	"testing"

	"topoedit/internal/domain"
	"topoedit/internal/scene"
)

func newDraw(t *testing.T) (*LinkDraw, *Store, *scene.Memory, domain.NodeID, domain.NodeID) {
	t.Helper()
	m := scene.NewMemory()
	s := NewStore(m)
	a := s.AddNode(building("A", 150, 150))
	b := s.AddNode(building("B", 450, 150))
	d := NewLinkDraw(s, m)
	d.SetEnabled(true)
	return d, s, m, a, b
}

func TestLinkDrawTransitions(t *testing.T) {
	t.Run("idle click arms with degenerate preview", func(t *testing.T) {
		d, _, m, a, _ := newDraw(t)

		res, err := d.Click(a)
		if err != nil {
			t.Fatal(err)
		}
		if res.Action != ClickArmed {
			t.Errorf("expected armed, got %s", res.Action)
		}
		state, start := d.State()
		if state != DrawArmed || start != a {
			t.Errorf("state = %s(%s), want armed(%s)", state, start, a)
		}
		seg, ok := d.Preview()
		if !ok || !seg.Degenerate() {
			t.Errorf("expected degenerate preview, got %v", seg)
		}
		if m.CountKind(scene.KindLine) != 1 {
			t.Errorf("expected preview line, got %d lines", m.CountKind(scene.KindLine))
		}
	})

	t.Run("clicking the start node again is a no-op", func(t *testing.T) {
		d, s, m, a, _ := newDraw(t)
		d.Click(a)

		res, err := d.Click(a)
		if err != nil {
			t.Fatal(err)
		}
		if res.Action != ClickNoop {
			t.Errorf("expected noop, got %s", res.Action)
		}
		if state, start := d.State(); state != DrawArmed || start != a {
			t.Errorf("expected still armed on %s", a)
		}
		if s.LinkCount() != 0 {
			t.Error("no link should be created")
		}
		if m.CountKind(scene.KindLine) != 1 {
			t.Error("preview should remain the only line")
		}
	})

	t.Run("clicking another node creates exactly one link", func(t *testing.T) {
		d, s, m, a, b := newDraw(t)
		d.Click(a)

		res, err := d.Click(b)
		if err != nil {
			t.Fatal(err)
		}
		if res.Action != ClickLinked || res.Link == "" {
			t.Fatalf("expected linked with id, got %+v", res)
		}
		if s.LinkCount() != 1 {
			t.Errorf("expected 1 link, got %d", s.LinkCount())
		}
		link, _ := s.Link(res.Link)
		if link.FromID != a || link.ToID != b {
			t.Errorf("link endpoints %s-%s, want %s-%s", link.FromID, link.ToID, a, b)
		}
		if state, _ := d.State(); state != DrawIdle {
			t.Errorf("expected idle, got %s", state)
		}
		if _, ok := d.Preview(); ok {
			t.Error("preview should be gone")
		}
		if m.CountKind(scene.KindLine) != 1 {
			t.Errorf("expected only the link line, got %d lines", m.CountKind(scene.KindLine))
		}
	})

	t.Run("turning link mode off while armed cancels", func(t *testing.T) {
		d, s, m, a, b := newDraw(t)
		d.Click(a)
		d.SetEnabled(false)

		if state, _ := d.State(); state != DrawIdle {
			t.Errorf("expected idle, got %s", state)
		}
		if m.CountKind(scene.KindLine) != 0 {
			t.Error("preview should be destroyed")
		}

		res, _ := d.Click(b)
		if res.Action != ClickSelected {
			t.Errorf("expected selection with link mode off, got %s", res.Action)
		}
		if s.LinkCount() != 0 {
			t.Error("no link should be created")
		}
	})

	t.Run("unknown node is rejected without state change", func(t *testing.T) {
		d, _, _, a, _ := newDraw(t)
		d.Click(a)

		if _, err := d.Click("n99"); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		if state, start := d.State(); state != DrawArmed || start != a {
			t.Error("expected gesture to stay armed")
		}
	})
}

func TestLinkDrawPreview(t *testing.T) {
	t.Run("pointer moves far end only", func(t *testing.T) {
		d, _, m, a, _ := newDraw(t)
		d.Click(a)
		d.PointerMoved(domain.Point{X: 300, Y: 400})

		seg, _ := d.Preview()
		want := domain.Segment{From: domain.Point{X: 150, Y: 150}, To: domain.Point{X: 300, Y: 400}}
		if seg != want {
			t.Errorf("preview %v, want %v", seg, want)
		}
		shape, _ := m.Shape(d.preview)
		if shape.Points[1] != want.To {
			t.Errorf("rendered preview end %v, want %v", shape.Points[1], want.To)
		}
		if shape.Style.Stroke != "lime" || len(shape.Style.Dash) != 2 {
			t.Errorf("unexpected preview style %+v", shape.Style)
		}
	})

	t.Run("pointer moves are ignored while idle", func(t *testing.T) {
		d, _, m, _, _ := newDraw(t)
		d.PointerMoved(domain.Point{X: 1, Y: 1})
		if m.CountKind(scene.KindLine) != 0 {
			t.Error("no preview should exist")
		}
	})

	t.Run("anchor follows the start node", func(t *testing.T) {
		d, s, _, a, _ := newDraw(t)
		d.Click(a)
		d.PointerMoved(domain.Point{X: 300, Y: 400})

		s.MoveNode(a, domain.Point{X: 10, Y: 20})
		d.AnchorMoved(a)

		seg, _ := d.Preview()
		if seg.From != (domain.Point{X: 10, Y: 20}) || seg.To != (domain.Point{X: 300, Y: 400}) {
			t.Errorf("unexpected preview %v", seg)
		}
	})
}
