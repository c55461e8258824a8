package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"topoedit/internal/codec"
	"topoedit/internal/domain"
	"topoedit/internal/metrics"
	"topoedit/internal/scene"
	"topoedit/internal/topology"
)

var (
	// ErrStopped is returned when the run loop is not running anymore
	ErrStopped = errors.New("canvas stopped")

	// ErrBadDocument is returned when an import document cannot be parsed
	ErrBadDocument = errors.New("bad document")
)

// CanvasOptions configures a CanvasService
type CanvasOptions struct {
	// Interval is the time between animation frames
	Interval time.Duration

	// Metrics is optional
	Metrics *metrics.Registry

	// Scene is the streaming surface the editor draws on, if any. It
	// enables SceneState.
	Scene *scene.Stream
}

// SceneState is the full shape list as of a scene frame sequence number.
// Clients apply frames with a greater Seq on top of it.
type SceneState struct {
	Seq    uint64        `json:"seq"`
	Shapes []scene.Shape `json:"shapes"`
}

// LoadResult reports an import
type LoadResult struct {
	Nodes        int `json:"nodes"`
	Links        int `json:"links"`
	LinksSkipped int `json:"links_skipped"`
}

// CanvasService serializes editor operations and animation frames on one
// goroutine
type CanvasService struct {
	editor   *topology.Editor
	bus      *EventBus
	metrics  *metrics.Registry
	stream   *scene.Stream
	interval time.Duration

	cmds chan func()
	done chan struct{}
}

// NewCanvasService creates a service around editor. Call Run to start it.
func NewCanvasService(editor *topology.Editor, bus *EventBus, opts CanvasOptions) *CanvasService {
	if opts.Interval <= 0 {
		opts.Interval = time.Second / 60
	}
	return &CanvasService{
		editor:   editor,
		bus:      bus,
		metrics:  opts.Metrics,
		stream:   opts.Scene,
		interval: opts.Interval,
		cmds:     make(chan func()),
		done:     make(chan struct{}),
	}
}

// Run executes submitted operations and advances animations every frame
// interval until ctx is cancelled
func (s *CanvasService) Run(ctx context.Context) error {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.updateGauges()
	log.Printf("Canvas running at %s per frame", s.interval)

	for {
		select {
		case fn := <-s.cmds:
			fn()
		case <-ticker.C:
			s.frame()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *CanvasService) frame() {
	start := time.Now()
	stepped := s.editor.Frame()
	if s.metrics != nil {
		s.metrics.RecordFrame(stepped, time.Since(start))
	}
}

// do runs fn on the loop and waits for its result
func (s *CanvasService) do(ctx context.Context, fn func(e *topology.Editor) error) error {
	errc := make(chan error, 1)
	task := func() { errc <- fn(s.editor) }

	select {
	case s.cmds <- task:
	case <-s.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// gesture runs fn, then records its outcome and refreshes the gauges
func (s *CanvasService) gesture(ctx context.Context, kind string, fn func(e *topology.Editor) error) error {
	return s.do(ctx, func(e *topology.Editor) error {
		err := fn(e)
		if s.metrics != nil {
			s.metrics.RecordGesture(kind, err)
			s.updateGauges()
		}
		return err
	})
}

// updateGauges must run on the loop
func (s *CanvasService) updateGauges() {
	if s.metrics != nil {
		s.metrics.UpdateTopology(s.editor.Stats())
	}
}

// AddNode places a node
func (s *CanvasService) AddNode(ctx context.Context, spec domain.NodeSpec) (domain.NodeID, error) {
	var id domain.NodeID
	err := s.gesture(ctx, "add_node", func(e *topology.Editor) error {
		id = e.AddNode(spec)
		return nil
	})
	if err != nil {
		return "", err
	}
	s.bus.Publish(Event{Type: EventNodeCreated, Payload: map[string]string{"node_id": string(id), "type": string(spec.Type)}})
	return id, nil
}

// AddNodeOfType places a toolbar node at a random position
func (s *CanvasService) AddNodeOfType(ctx context.Context, t domain.NodeType) (domain.NodeID, error) {
	var id domain.NodeID
	err := s.gesture(ctx, "add_node", func(e *topology.Editor) error {
		var err error
		id, err = e.AddNodeOfType(t)
		return err
	})
	if err != nil {
		return "", err
	}
	s.bus.Publish(Event{Type: EventNodeCreated, Payload: map[string]string{"node_id": string(id), "type": string(t)}})
	return id, nil
}

// AddLink connects two nodes directly
func (s *CanvasService) AddLink(ctx context.Context, a, b domain.NodeID) (domain.LinkID, error) {
	var id domain.LinkID
	err := s.gesture(ctx, "add_link", func(e *topology.Editor) error {
		var err error
		id, err = e.AddLink(a, b)
		return err
	})
	if err != nil {
		return "", err
	}
	s.publishLink(id, a, b)
	return id, nil
}

// Click feeds a node click to the link gesture
func (s *CanvasService) Click(ctx context.Context, id domain.NodeID) (topology.ClickResult, error) {
	var (
		res    topology.ClickResult
		origin domain.NodeID
	)
	err := s.gesture(ctx, "click", func(e *topology.Editor) error {
		_, start := e.DrawState()
		var err error
		res, err = e.OnNodeClicked(id)
		origin = start
		return err
	})
	if err != nil {
		return res, err
	}

	switch res.Action {
	case topology.ClickArmed:
		s.bus.Publish(Event{Type: EventLinkArmed, Payload: map[string]string{"node_id": string(id)}})
	case topology.ClickLinked:
		s.publishLink(res.Link, origin, id)
	}
	return res, nil
}

// PointerMoved moves the link preview. It does nothing unless armed.
func (s *CanvasService) PointerMoved(ctx context.Context, x, y float64) error {
	return s.do(ctx, func(e *topology.Editor) error {
		e.OnPointerMoved(x, y)
		return nil
	})
}

// Drag moves a node and its incident links
func (s *CanvasService) Drag(ctx context.Context, id domain.NodeID, x, y float64) error {
	err := s.gesture(ctx, "drag", func(e *topology.Editor) error {
		return e.OnNodeDragged(id, x, y)
	})
	if err != nil {
		return err
	}
	s.bus.Publish(Event{Type: EventNodeMoved, Payload: map[string]interface{}{"node_id": id, "x": x, "y": y}})
	return nil
}

// SetLinkMode toggles link mode
func (s *CanvasService) SetLinkMode(ctx context.Context, on bool) error {
	err := s.gesture(ctx, "link_mode", func(e *topology.Editor) error {
		e.SetLinkMode(on)
		return nil
	})
	if err != nil {
		return err
	}
	s.bus.Publish(Event{Type: EventLinkModeChanged, Payload: map[string]bool{"link_mode": on}})
	return nil
}

// StartTraffic starts an animation on a link
func (s *CanvasService) StartTraffic(ctx context.Context, link domain.LinkID) (topology.AnimationHandle, error) {
	var h topology.AnimationHandle
	err := s.gesture(ctx, "start_traffic", func(e *topology.Editor) error {
		var err error
		h, err = e.StartTraffic(link)
		return err
	})
	if err != nil {
		return 0, err
	}
	s.bus.Publish(Event{Type: EventTrafficStarted, Payload: map[string]interface{}{"handle": h, "link_id": link}})
	return h, nil
}

// StartAllTraffic starts an animation on every link
func (s *CanvasService) StartAllTraffic(ctx context.Context) ([]topology.AnimationHandle, error) {
	var handles []topology.AnimationHandle
	err := s.gesture(ctx, "start_traffic", func(e *topology.Editor) error {
		handles = e.StartAllTraffic()
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(handles) > 0 {
		s.bus.Publish(Event{Type: EventTrafficStarted, Payload: map[string]interface{}{"handles": handles}})
	}
	return handles, nil
}

// StopTraffic stops an animation
func (s *CanvasService) StopTraffic(ctx context.Context, h topology.AnimationHandle) error {
	err := s.gesture(ctx, "stop_traffic", func(e *topology.Editor) error {
		return e.StopTraffic(h)
	})
	if err != nil {
		return err
	}
	s.bus.Publish(Event{Type: EventTrafficStopped, Payload: map[string]interface{}{"handle": h}})
	return nil
}

// ClearAll resets the topology to the seed nodes
func (s *CanvasService) ClearAll(ctx context.Context) error {
	err := s.gesture(ctx, "clear", func(e *topology.Editor) error {
		e.ClearAll()
		return nil
	})
	if err != nil {
		return err
	}
	s.bus.Publish(Event{Type: EventTopologyCleared})
	return nil
}

// SetSeeds replaces the seeds used by the next ClearAll
func (s *CanvasService) SetSeeds(ctx context.Context, seeds []domain.NodeSpec) error {
	err := s.do(ctx, func(e *topology.Editor) error {
		e.SetSeeds(seeds)
		return nil
	})
	if err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.RecordSeedReload()
	}
	s.bus.Publish(Event{Type: EventSeedsReloaded, Payload: map[string]int{"nodes": len(seeds)}})
	return nil
}

// Step advances every animation by one frame outside the clock
func (s *CanvasService) Step(ctx context.Context) (int, error) {
	var n int
	err := s.do(ctx, func(e *topology.Editor) error {
		start := time.Now()
		n = e.Frame()
		if s.metrics != nil {
			s.metrics.RecordFrame(n, time.Since(start))
		}
		return nil
	})
	return n, err
}

// Snapshot returns the current view of the topology
func (s *CanvasService) Snapshot(ctx context.Context) (*domain.Graph, error) {
	var graph *domain.Graph
	err := s.do(ctx, func(e *topology.Editor) error {
		graph = e.Snapshot()
		return nil
	})
	return graph, err
}

// Stats returns editor counts
func (s *CanvasService) Stats(ctx context.Context) (topology.Stats, error) {
	var stats topology.Stats
	err := s.do(ctx, func(e *topology.Editor) error {
		stats = e.Stats()
		return nil
	})
	return stats, err
}

// SceneState returns every live shape with the last published frame
// sequence number
func (s *CanvasService) SceneState(ctx context.Context) (*SceneState, error) {
	if s.stream == nil {
		return nil, fmt.Errorf("no streaming surface configured")
	}
	var state SceneState
	err := s.do(ctx, func(e *topology.Editor) error {
		state = SceneState{Seq: s.stream.Seq(), Shapes: s.stream.Shapes()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// Export writes the topology in the given format
func (s *CanvasService) Export(ctx context.Context, format string, w io.Writer) error {
	c, err := codec.Lookup(format)
	if err != nil {
		return err
	}
	graph, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}
	return c.Export(graph, w)
}

// Import replaces the topology with a document in the given format
func (s *CanvasService) Import(ctx context.Context, format string, r io.Reader) (*LoadResult, error) {
	c, err := codec.Lookup(format)
	if err != nil {
		return nil, err
	}
	graph, err := c.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadDocument, err)
	}

	var result LoadResult
	err = s.gesture(ctx, "import", func(e *topology.Editor) error {
		result.LinksSkipped = e.Load(graph)
		stats := e.Stats()
		result.Nodes, result.Links = stats.Nodes, stats.Links
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.bus.Publish(Event{Type: EventTopologyLoaded, Payload: result})
	return &result, nil
}

func (s *CanvasService) publishLink(id domain.LinkID, from, to domain.NodeID) {
	s.bus.Publish(Event{
		Type:    EventLinkCreated,
		Payload: map[string]string{"link_id": string(id), "from_id": string(from), "to_id": string(to)},
	})
}
