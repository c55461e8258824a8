package topology

import (
	"topoedit/internal/domain"
	"topoedit/internal/scene"
)

// DrawState is the state of the link-draw gesture
type DrawState int

const (
	DrawIdle DrawState = iota
	DrawArmed
)

func (s DrawState) String() string {
	if s == DrawArmed {
		return "armed"
	}
	return "idle"
}

// ClickAction reports what a node click did
type ClickAction string

const (
	ClickSelected ClickAction = "selected" // link mode off; the UI may show node details
	ClickArmed    ClickAction = "armed"
	ClickLinked   ClickAction = "linked"
	ClickNoop     ClickAction = "noop" // start node clicked again
)

// ClickResult is the outcome of a node click
type ClickResult struct {
	Action ClickAction   `json:"action"`
	Node   domain.NodeID `json:"node"`
	Link   domain.LinkID `json:"link,omitempty"`
}

// LinkDraw runs the two-click link gesture. While armed it owns a preview
// segment from the start node's center to the pointer.
type LinkDraw struct {
	store   *Store
	surface scene.Surface

	enabled bool
	state   DrawState
	start   domain.NodeID
	preview scene.Handle

	// end is the pointer position; until the pointer moves the preview
	// is degenerate at the start node's center
	end      domain.Point
	tracking bool
}

// NewLinkDraw creates an idle gesture with link mode off
func NewLinkDraw(store *Store, surface scene.Surface) *LinkDraw {
	return &LinkDraw{store: store, surface: surface}
}

// Click handles a click on a node
func (d *LinkDraw) Click(id domain.NodeID) (ClickResult, error) {
	node, err := d.store.Node(id)
	if err != nil {
		return ClickResult{}, err
	}

	if !d.enabled {
		return ClickResult{Action: ClickSelected, Node: id}, nil
	}

	switch {
	case d.state == DrawIdle:
		d.state = DrawArmed
		d.start = id
		d.tracking = false
		d.preview = d.surface.CreateShape(scene.KindLine, previewStyle())
		d.surface.SetPoints(d.preview, node.Center(), node.Center())
		return ClickResult{Action: ClickArmed, Node: id}, nil

	case id == d.start:
		return ClickResult{Action: ClickNoop, Node: id}, nil

	default:
		linkID, err := d.store.AddLink(d.start, id)
		if err != nil {
			return ClickResult{}, err
		}
		d.disarm()
		return ClickResult{Action: ClickLinked, Node: id, Link: linkID}, nil
	}
}

// PointerMoved moves the preview's far end. It does not change state.
func (d *LinkDraw) PointerMoved(p domain.Point) {
	if d.state != DrawArmed {
		return
	}
	d.end = p
	d.tracking = true
	d.redrawPreview()
}

// AnchorMoved follows the start node when it is dragged while armed
func (d *LinkDraw) AnchorMoved(id domain.NodeID) {
	if d.state != DrawArmed || id != d.start {
		return
	}
	d.redrawPreview()
}

// SetEnabled toggles link mode. Turning it off cancels an armed gesture.
func (d *LinkDraw) SetEnabled(on bool) {
	d.enabled = on
	if !on {
		d.Reset()
	}
}

// Enabled reports whether link mode is on
func (d *LinkDraw) Enabled() bool {
	return d.enabled
}

// Reset returns to idle and destroys the preview
func (d *LinkDraw) Reset() {
	if d.state == DrawArmed {
		d.disarm()
	}
}

// State returns the gesture state and, when armed, the start node
func (d *LinkDraw) State() (DrawState, domain.NodeID) {
	return d.state, d.start
}

// Preview returns the preview segment while armed
func (d *LinkDraw) Preview() (domain.Segment, bool) {
	if d.state != DrawArmed {
		return domain.Segment{}, false
	}
	node, err := d.store.Node(d.start)
	if err != nil {
		return domain.Segment{}, false
	}
	if !d.tracking {
		return domain.Segment{From: node.Center(), To: node.Center()}, true
	}
	return domain.Segment{From: node.Center(), To: d.end}, true
}

func (d *LinkDraw) disarm() {
	d.surface.DestroyShape(d.preview)
	d.state = DrawIdle
	d.start = ""
	d.preview = 0
	d.tracking = false
}

func (d *LinkDraw) redrawPreview() {
	seg, ok := d.Preview()
	if !ok {
		return
	}
	d.surface.SetPoints(d.preview, seg.From, seg.To)
}
