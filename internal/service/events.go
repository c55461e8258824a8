package service

import (
	"sync"
	"sync/atomic"

	"topoedit/internal/metrics"
	"topoedit/internal/scene"
)

// EventType defines the type of event
type EventType string

const (
	EventNodeCreated     EventType = "node_created"
	EventLinkCreated     EventType = "link_created"
	EventLinkArmed       EventType = "link_armed"
	EventLinkModeChanged EventType = "link_mode_changed"
	EventNodeMoved       EventType = "node_moved"
	EventTrafficStarted  EventType = "traffic_started"
	EventTrafficStopped  EventType = "traffic_stopped"
	EventTopologyCleared EventType = "topology_cleared"
	EventTopologyLoaded  EventType = "topology_loaded"
	EventSeedsReloaded   EventType = "seeds_reloaded"
	EventSceneFrame      EventType = "scene"
)

// Event represents an event that occurred in the system
type Event struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// EventName returns the SSE event name
func (e Event) EventName() string {
	return string(e.Type)
}

// Sequence returns the frame number of a scene event
func (e Event) Sequence() (uint64, bool) {
	if e.Type != EventSceneFrame {
		return 0, false
	}
	switch f := e.Payload.(type) {
	case scene.Frame:
		return f.Seq, true
	case *scene.Frame:
		return f.Seq, f != nil
	}
	return 0, false
}

// EventBus allows publishing and subscribing to events. A subscriber
// whose channel is full misses the event; scene frames carry a sequence
// number so the gap can be detected downstream.
type EventBus struct {
	mu          sync.RWMutex
	subscribers []chan<- Event
	dropped     atomic.Uint64
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make([]chan<- Event, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (eb *EventBus) Subscribe(ch chan<- Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.subscribers = append(eb.subscribers, ch)
}

// Unsubscribe removes a subscriber. The channel is not closed.
func (eb *EventBus) Unsubscribe(ch chan<- Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	for i, sub := range eb.subscribers {
		if sub == ch {
			eb.subscribers = append(eb.subscribers[:i], eb.subscribers[i+1:]...)
			return
		}
	}
}

// Publish sends an event to all subscribers
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	for _, ch := range eb.subscribers {
		select {
		case ch <- event:
		default:
			eb.dropped.Add(1)
		}
	}
}

// Dropped returns how many deliveries were skipped for full subscribers
func (eb *EventBus) Dropped() uint64 {
	return eb.dropped.Load()
}

// ScenePublisher forwards scene frames from a streaming surface to the
// event bus
type ScenePublisher struct {
	bus     *EventBus
	metrics *metrics.Registry
}

// NewScenePublisher creates a publisher. reg may be nil.
func NewScenePublisher(bus *EventBus, reg *metrics.Registry) *ScenePublisher {
	return &ScenePublisher{bus: bus, metrics: reg}
}

// PublishFrame implements scene.Publisher
func (p *ScenePublisher) PublishFrame(f scene.Frame) {
	if p.metrics != nil {
		p.metrics.RecordSceneFrame(f)
	}
	p.bus.Publish(Event{Type: EventSceneFrame, Payload: f})
}
