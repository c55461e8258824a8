package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"topoedit/internal/hub"
	"topoedit/internal/scene"
)

func TestEventSequence(t *testing.T) {
	tests := []struct {
		name   string
		event  Event
		seq    uint64
		wantOK bool
	}{
		{"scene frame", Event{Type: EventSceneFrame, Payload: scene.Frame{Seq: 7}}, 7, true},
		{"frame pointer", Event{Type: EventSceneFrame, Payload: &scene.Frame{Seq: 3}}, 3, true},
		{"nil frame pointer", Event{Type: EventSceneFrame, Payload: (*scene.Frame)(nil)}, 0, false},
		{"other event", Event{Type: EventNodeCreated, Payload: scene.Frame{Seq: 7}}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq, ok := tt.event.Sequence()
			if seq != tt.seq || ok != tt.wantOK {
				t.Errorf("Sequence() = %d, %v; want %d, %v", seq, ok, tt.seq, tt.wantOK)
			}
		})
	}
}

func TestSkippedFramesDisconnectStreams(t *testing.T) {
	bus := NewEventBus()
	sub := make(chan Event, 2)
	bus.Subscribe(sub)

	pub := NewScenePublisher(bus, nil)
	for seq := uint64(1); seq <= 4; seq++ {
		pub.PublishFrame(scene.Frame{Seq: seq})
	}
	if got := bus.Dropped(); got != 2 {
		t.Errorf("Dropped() = %d, want 2", got)
	}

	h := hub.New()
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
	waitForClients(t, h, 1)

	// frames 1 and 2 got through, 3 and 4 were skipped
	h.Broadcast(<-sub)
	h.Broadcast(<-sub)
	pub.PublishFrame(scene.Frame{Seq: 5})
	h.Broadcast(<-sub)

	waitForClients(t, h, 0)
}

func waitForClients(t *testing.T, h *hub.Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("client count = %d, want %d", h.ClientCount(), n)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
