package hub

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

type namedEvent struct {
	Type string `json:"type"`
}

func (e namedEvent) EventName() string { return e.Type }

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestEncode(t *testing.T) {
	t.Run("named event gets event line", func(t *testing.T) {
		msg, err := encode(namedEvent{Type: "frame"})
		if err != nil {
			t.Fatal(err)
		}
		want := "event: frame\ndata: {\"type\":\"frame\"}\n\n"
		if string(msg) != want {
			t.Errorf("encode() = %q, want %q", msg, want)
		}
	})

	t.Run("plain event is data only", func(t *testing.T) {
		msg, err := encode(map[string]int{"n": 1})
		if err != nil {
			t.Fatal(err)
		}
		if string(msg) != "data: {\"n\":1}\n\n" {
			t.Errorf("encode() = %q", msg)
		}
	})

	t.Run("unmarshalable event fails", func(t *testing.T) {
		if _, err := encode(make(chan int)); err == nil {
			t.Error("expected error")
		}
	})
}

func TestHubBroadcast(t *testing.T) {
	var count atomic.Int64
	h := New().OnClientCount(func(n int) { count.Store(int64(n)) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	srv := httptest.NewServer(h)
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %s", ct)
	}

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	if err != nil || !strings.HasPrefix(line, ": connected ") {
		t.Fatalf("expected connected comment, got %q (%v)", line, err)
	}

	waitFor(t, func() bool { return h.ClientCount() == 1 })
	if count.Load() != 1 {
		t.Errorf("client count callback = %d, want 1", count.Load())
	}

	h.Broadcast(namedEvent{Type: "link_created"})

	var got []string
	for len(got) < 2 {
		line, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}
		got = append(got, line)
	}
	if got[0] != "event: link_created" {
		t.Errorf("event line = %q", got[0])
	}
	if got[1] != `data: {"type":"link_created"}` {
		t.Errorf("data line = %q", got[1])
	}

	cancel()
	waitFor(t, func() bool { return count.Load() == 0 })
}

func TestHubStopped(t *testing.T) {
	h := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h.Run(ctx)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/events", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	h := New().WithBuffer(1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	c := &Client{id: "slow", events: make(chan []byte, h.buffer)}
	h.register <- c
	waitFor(t, func() bool { return h.ClientCount() == 1 })

	h.Broadcast(namedEvent{Type: "scene"})
	h.Broadcast(namedEvent{Type: "scene"})
	waitFor(t, func() bool { return h.ClientCount() == 0 })

	if msg, ok := <-c.events; !ok || !strings.HasPrefix(string(msg), "event: scene") {
		t.Errorf("expected the buffered frame first, got %q (open %v)", msg, ok)
	}
	if _, ok := <-c.events; ok {
		t.Error("slow client stream should be closed")
	}

	// a late unregister of a dropped client is harmless
	h.unregister <- c
	if h.ClientCount() != 0 {
		t.Errorf("client count = %d", h.ClientCount())
	}
}

type seqEvent struct {
	Seq uint64 `json:"seq"`
}

func (e seqEvent) EventName() string        { return "scene" }
func (e seqEvent) Sequence() (uint64, bool) { return e.Seq, true }

func TestHubResyncsOnSequenceGap(t *testing.T) {
	h := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	c := &Client{id: "viewer", events: make(chan []byte, 8)}
	h.register <- c
	waitFor(t, func() bool { return h.ClientCount() == 1 })

	h.Broadcast(seqEvent{Seq: 1})
	h.Broadcast(seqEvent{Seq: 2})
	h.Broadcast(namedEvent{Type: "node_created"}) // unnumbered events do not break the run
	h.Broadcast(seqEvent{Seq: 4})
	waitFor(t, func() bool { return h.ClientCount() == 0 })

	var got []string
	for msg := range c.events {
		got = append(got, strings.SplitN(string(msg), "\n", 2)[1])
	}
	want := []string{"data: {\"seq\":1}\n\n", "data: {\"seq\":2}\n\n", "data: {\"type\":\"node_created\"}\n\n"}
	if len(got) != len(want) {
		t.Fatalf("delivered %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("message %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestHubResyncsAfterBroadcastOverflow(t *testing.T) {
	h := New()
	c := &Client{id: "viewer", events: make(chan []byte, 8)}
	h.clients[c] = struct{}{}

	// nothing drains the queue until Run starts
	for range cap(h.broadcast) + 1 {
		h.Broadcast(namedEvent{Type: "node_moved"})
	}
	if !h.lost.Load() {
		t.Fatal("overflow was not recorded")
	}

	h.fanout(namedEvent{Type: "node_moved"})
	if h.ClientCount() != 0 {
		t.Errorf("client count = %d, want 0", h.ClientCount())
	}
	if _, ok := <-c.events; ok {
		t.Error("client stream should be closed")
	}

	// the next event flows normally to new clients
	c2 := &Client{id: "fresh", events: make(chan []byte, 8)}
	h.clients[c2] = struct{}{}
	h.fanout(namedEvent{Type: "node_moved"})
	if len(c2.events) != 1 {
		t.Errorf("fresh client got %d messages, want 1", len(c2.events))
	}
}
