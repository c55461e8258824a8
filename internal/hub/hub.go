// Package hub streams events to browsers over Server-Sent Events.
//
// Scene frames are incremental, so a client that misses one can no longer
// reconstruct the canvas. A client whose buffer fills up is therefore
// disconnected rather than skipped; on reconnect it fetches the full scene
// again. Events lost before they reach the hub, either upstream or in a
// full broadcast queue, disconnect every client the same way.
package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Named is implemented by events that carry an SSE event name
type Named interface {
	EventName() string
}

// Sequenced is implemented by events that belong to a numbered stream.
// ok is false for events outside the stream.
type Sequenced interface {
	Sequence() (seq uint64, ok bool)
}

// Client is one connected event stream
type Client struct {
	id     string
	events chan []byte
}

// Hub fans events out to connected clients. Membership changes and
// broadcasts are handled by Run on a single goroutine.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	broadcast  chan interface{}
	done       chan struct{}

	keepAlive time.Duration
	buffer    int
	onCount   func(int)

	// lost is set when Broadcast drops an event; lastSeq is owned by Run
	lost    atomic.Bool
	lastSeq uint64
}

// New creates a hub with a 30s keep-alive and a 64 message client buffer
func New() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan interface{}, 256),
		done:       make(chan struct{}),
		keepAlive:  30 * time.Second,
		buffer:     64,
	}
}

// WithKeepAlive sets the keep-alive comment interval
func (h *Hub) WithKeepAlive(d time.Duration) *Hub {
	if d > 0 {
		h.keepAlive = d
	}
	return h
}

// WithBuffer sets how many messages a client may lag behind before it is
// disconnected
func (h *Hub) WithBuffer(n int) *Hub {
	if n > 0 {
		h.buffer = n
	}
	return h
}

// OnClientCount registers a callback run with the client count whenever
// a client connects or disconnects
func (h *Hub) OnClientCount(fn func(int)) *Hub {
	h.onCount = fn
	return h
}

// Run processes registrations and broadcasts until ctx is cancelled, then
// disconnects every client
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case c := <-h.register:
			h.add(c)
		case c := <-h.unregister:
			h.remove(c, "disconnected")
		case event := <-h.broadcast:
			h.fanout(event)
		case <-ctx.Done():
			h.resetAll("hub stopped")
			h.countChanged(0)
			return
		}
	}
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	log.Printf("SSE client connected: %s (total: %d)", c.id, n)
	h.countChanged(n)
}

// remove is a no-op for a client that was already dropped
func (h *Hub) remove(c *Client, reason string) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		h.drop(c)
	}
	n := len(h.clients)
	h.mu.Unlock()

	if ok {
		log.Printf("SSE client %s: %s (total: %d)", reason, c.id, n)
		h.countChanged(n)
	}
}

// drop closes the client's stream; h.mu must be held
func (h *Hub) drop(c *Client) {
	delete(h.clients, c)
	close(c.events)
}

// gap reports whether events went missing before event. A numbered event
// must follow the previous one directly.
func (h *Hub) gap(event interface{}) bool {
	missed := h.lost.Swap(false)
	if sq, ok := event.(Sequenced); ok {
		if seq, ok := sq.Sequence(); ok {
			if h.lastSeq != 0 && seq != h.lastSeq+1 {
				missed = true
			}
			h.lastSeq = seq
		}
	}
	return missed
}

// resetAll disconnects every client so each one resyncs
func (h *Hub) resetAll(reason string) {
	h.mu.Lock()
	n := len(h.clients)
	for c := range h.clients {
		h.drop(c)
	}
	h.mu.Unlock()

	if n > 0 {
		log.Printf("SSE: %s, disconnected %d clients", reason, n)
		h.countChanged(0)
	}
}

func (h *Hub) fanout(event interface{}) {
	if h.gap(event) {
		h.resetAll("events were lost")
		return
	}

	msg, err := encode(event)
	if err != nil {
		log.Printf("Failed to marshal event: %v", err)
		return
	}

	var slow []*Client
	h.mu.RLock()
	for c := range h.clients {
		select {
		case c.events <- msg:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.remove(c, "too slow, disconnected")
	}
}

// Broadcast queues an event for every connected client
func (h *Hub) Broadcast(event interface{}) {
	select {
	case h.broadcast <- event:
	default:
		h.lost.Store(true)
		log.Println("Broadcast channel full, dropping event")
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP streams events to one client until it goes away, the hub
// stops or the client is dropped for lagging
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	c := &Client{id: uuid.NewString(), events: make(chan []byte, h.buffer)}
	select {
	case h.register <- c:
	case <-h.done:
		http.Error(w, "event hub stopped", http.StatusServiceUnavailable)
		return
	case <-r.Context().Done():
		return
	}
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
	}()

	header := w.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")

	fmt.Fprintf(w, ": connected %s\n\n", c.id)
	flusher.Flush()

	keepAlive := time.NewTicker(h.keepAlive)
	defer keepAlive.Stop()

	for {
		var msg []byte
		select {
		case m, ok := <-c.events:
			if !ok {
				return
			}
			msg = m
		case <-keepAlive.C:
			msg = []byte(": keepalive\n\n")
		case <-r.Context().Done():
			return
		}
		if _, err := w.Write(msg); err != nil {
			return
		}
		flusher.Flush()
	}
}

func (h *Hub) countChanged(n int) {
	if h.onCount != nil {
		h.onCount(n)
	}
}

// encode formats an event as an SSE message. Named events get an
// "event:" line so browsers can dispatch on it.
func encode(event interface{}) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	if named, ok := event.(Named); ok {
		return fmt.Appendf(nil, "event: %s\ndata: %s\n\n", named.EventName(), data), nil
	}
	return fmt.Appendf(nil, "data: %s\n\n", data), nil
}
