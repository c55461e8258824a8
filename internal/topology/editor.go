package topology

import (
	"log"

	"topoedit/internal/domain"
	"topoedit/internal/scene"
)

// Options configures an Editor
type Options struct {
	Traffic   TrafficOptions
	Palette   Palette
	Placement Placement

	// Seeds are the nodes placed on construction and after ClearAll
	Seeds []domain.NodeSpec
}

// DefaultOptions returns options with stock traffic, palette and
// placement and no seeds
func DefaultOptions() Options {
	return Options{
		Traffic:   DefaultTrafficOptions(),
		Palette:   DefaultPalette(),
		Placement: DefaultPlacement(),
	}
}

// Stats summarizes the editor for metrics
type Stats struct {
	Nodes      int
	Links      int
	Animations int
	Armed      bool
	LinkMode   bool
}

// Editor is the topology engine's public surface. A mutating operation
// finishes all geometry updates before it requests its redraw.
type Editor struct {
	surface  scene.Surface
	rand     Rand
	opts     Options
	store    *Store
	draw     *LinkDraw
	sync     *Synchronizer
	animator *Animator
}

// New creates an editor drawing on surface and places the seed nodes
func New(surface scene.Surface, rnd Rand, opts Options) *Editor {
	store := NewStore(surface)
	draw := NewLinkDraw(store, surface)
	e := &Editor{
		surface:  surface,
		rand:     rnd,
		opts:     opts,
		store:    store,
		draw:     draw,
		sync:     NewSynchronizer(store, draw),
		animator: NewAnimator(store, surface, rnd, opts.Traffic),
	}
	e.seed()
	e.surface.RequestRedraw()
	return e
}

// AddNode places a node
func (e *Editor) AddNode(spec domain.NodeSpec) domain.NodeID {
	id := e.store.AddNode(spec)
	e.surface.RequestRedraw()
	return id
}

// AddNodeOfType places a toolbar node of type t at a random position
func (e *Editor) AddNodeOfType(t domain.NodeType) (domain.NodeID, error) {
	spec, err := e.opts.Palette.Spec(t, e.opts.Placement, e.rand)
	if err != nil {
		return "", err
	}
	return e.AddNode(spec), nil
}

// AddLink connects two nodes directly, bypassing the gesture
func (e *Editor) AddLink(a, b domain.NodeID) (domain.LinkID, error) {
	id, err := e.store.AddLink(a, b)
	if err != nil {
		return "", err
	}
	e.surface.RequestRedraw()
	return id, nil
}

// Node returns a node by id
func (e *Editor) Node(id domain.NodeID) (*domain.Node, error) {
	return e.store.Node(id)
}

// Link returns a link by id
func (e *Editor) Link(id domain.LinkID) (*domain.Link, error) {
	return e.store.Link(id)
}

// OnNodeClicked feeds a node click to the link gesture
func (e *Editor) OnNodeClicked(id domain.NodeID) (ClickResult, error) {
	res, err := e.draw.Click(id)
	if err != nil {
		return res, err
	}
	if res.Action == ClickLinked {
		log.Printf("Linked %s: %s -> %s", res.Link, e.linkOrigin(res.Link), id)
	}
	e.surface.RequestRedraw()
	return res, nil
}

// OnPointerMoved moves the preview while a link is being drawn
func (e *Editor) OnPointerMoved(x, y float64) {
	if state, _ := e.draw.State(); state != DrawArmed {
		return
	}
	e.draw.PointerMoved(domain.Point{X: x, Y: y})
	e.surface.RequestRedraw()
}

// SetLinkMode toggles link mode; turning it off cancels an armed gesture
func (e *Editor) SetLinkMode(on bool) {
	e.draw.SetEnabled(on)
	e.surface.RequestRedraw()
}

// LinkMode reports whether link mode is on
func (e *Editor) LinkMode() bool {
	return e.draw.Enabled()
}

// DrawState returns the link gesture state
func (e *Editor) DrawState() (DrawState, domain.NodeID) {
	return e.draw.State()
}

// OnNodeDragged moves a node and every link attached to it
func (e *Editor) OnNodeDragged(id domain.NodeID, x, y float64) error {
	if _, err := e.sync.OnNodeMoved(id, domain.Point{X: x, Y: y}); err != nil {
		return err
	}
	e.surface.RequestRedraw()
	return nil
}

// StartTraffic starts one traffic animation on a link
func (e *Editor) StartTraffic(id domain.LinkID) (AnimationHandle, error) {
	h, err := e.animator.Start(id)
	if err != nil {
		return 0, err
	}
	e.surface.RequestRedraw()
	return h, nil
}

// StartAllTraffic starts one animation on every link. Links at their cap
// are skipped.
func (e *Editor) StartAllTraffic() []AnimationHandle {
	var handles []AnimationHandle
	for _, link := range e.store.Links() {
		h, err := e.animator.Start(link.ID)
		if err != nil {
			log.Printf("Skipping traffic on %s: %v", link.ID, err)
			continue
		}
		handles = append(handles, h)
	}
	e.surface.RequestRedraw()
	return handles
}

// StopTraffic stops an animation and releases its marker
func (e *Editor) StopTraffic(h AnimationHandle) error {
	if err := e.animator.Stop(h); err != nil {
		return err
	}
	e.surface.RequestRedraw()
	return nil
}

// Animation returns a running animation by handle
func (e *Editor) Animation(h AnimationHandle) (*Animation, bool) {
	return e.animator.Get(h)
}

// Frame advances every traffic animation by one step and returns how many
// stepped
func (e *Editor) Frame() int {
	n := e.animator.Advance()
	if n > 0 {
		e.surface.RequestRedraw()
	}
	return n
}

// ClearAll stops every animation, destroys every node and link, cancels
// any link gesture and places the seed nodes again. Link mode is kept.
func (e *Editor) ClearAll() {
	stopped := e.animator.StopAll()
	e.draw.Reset()
	e.store.RemoveAll()
	e.seed()
	e.surface.RequestRedraw()
	log.Printf("Cleared topology (%d animations stopped), reseeded %d nodes", stopped, len(e.opts.Seeds))
}

// Load replaces the topology with the nodes and links of graph, as
// ClearAll does but without placing seeds. Node and link ids are
// reassigned; links with an unknown or repeated endpoint are skipped.
// It returns the number of links skipped.
func (e *Editor) Load(graph *domain.Graph) int {
	e.animator.StopAll()
	e.draw.Reset()
	e.store.RemoveAll()

	ids := make(map[domain.NodeID]domain.NodeID, len(graph.Nodes))
	for _, n := range graph.Nodes {
		ids[n.ID] = e.store.AddNode(domain.NodeSpec{
			Name:  n.Name,
			X:     n.Position.X,
			Y:     n.Position.Y,
			Color: n.Color,
			Type:  n.Type,
		})
	}

	skipped := 0
	for _, l := range graph.Links {
		from, ok1 := ids[l.From]
		to, ok2 := ids[l.To]
		if !ok1 || !ok2 {
			log.Printf("Skipping link %s: unknown endpoint %s or %s", l.ID, l.From, l.To)
			skipped++
			continue
		}
		if _, err := e.store.AddLink(from, to); err != nil {
			log.Printf("Skipping link %s: %v", l.ID, err)
			skipped++
		}
	}

	e.surface.RequestRedraw()
	log.Printf("Loaded topology: %d nodes, %d links", e.store.NodeCount(), e.store.LinkCount())
	return skipped
}

// SetSeeds replaces the seed set used by the next ClearAll
func (e *Editor) SetSeeds(seeds []domain.NodeSpec) {
	e.opts.Seeds = append([]domain.NodeSpec(nil), seeds...)
}

// Snapshot returns the current view of the topology
func (e *Editor) Snapshot() *domain.Graph {
	graph := domain.DeriveGraph(e.store.Nodes(), e.store.Links())

	state, start := e.draw.State()
	graph.Session = domain.SessionState{
		LinkMode: e.draw.Enabled(),
		Armed:    state == DrawArmed,
		Start:    start,
	}
	if seg, ok := e.draw.Preview(); ok {
		graph.Session.Preview = &seg
	}

	for _, anim := range e.animator.Active() {
		link, err := e.store.Link(anim.Link())
		if err != nil {
			continue
		}
		graph.Animations = append(graph.Animations, domain.AnimationState{
			Handle:   uint64(anim.Handle()),
			LinkID:   anim.Link(),
			Progress: anim.Progress(),
			Speed:    anim.Speed(),
			Marker:   link.Geometry.At(anim.Progress()),
		})
	}
	graph.SortAnimations()
	return graph
}

// Stats returns counts for metrics
func (e *Editor) Stats() Stats {
	state, _ := e.draw.State()
	return Stats{
		Nodes:      e.store.NodeCount(),
		Links:      e.store.LinkCount(),
		Animations: e.animator.Count(),
		Armed:      state == DrawArmed,
		LinkMode:   e.draw.Enabled(),
	}
}

func (e *Editor) seed() {
	for _, spec := range e.opts.Seeds {
		e.store.AddNode(spec)
	}
}

func (e *Editor) linkOrigin(id domain.LinkID) domain.NodeID {
	link, err := e.store.Link(id)
	if err != nil {
		return ""
	}
	return link.FromID
}
