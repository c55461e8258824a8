package watcher

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"topoedit/internal/domain"
)

func TestWatchSeedsReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seeds.yaml")
	if err := os.WriteFile(path, []byte("nodes:\n  - name: A\n"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan []domain.NodeSpec, 4)
	done := make(chan error, 1)
	go func() {
		done <- WatchSeeds(ctx, path, 20*time.Millisecond, func(s []domain.NodeSpec) { got <- s })
	}()

	// give the watcher time to register the directory
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(path, []byte("nodes: [\n"), 0644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("nodes:\n  - name: A\n  - name: B\n"), 0644); err != nil {
		t.Fatal(err)
	}

	// a truncated intermediate state may be delivered first
	deadline := time.After(3 * time.Second)
	for found := false; !found; {
		select {
		case seeds := <-got:
			found = len(seeds) == 2 && seeds[1].Name == "B"
		case <-deadline:
			t.Fatal("seed change not delivered")
		}
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Watch() = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "nope", "seeds.yaml"), func() {})
	if err := w.Watch(context.Background()); err == nil {
		t.Error("expected error watching a missing directory")
	}
}

func TestWatchSeedsSkipsUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seeds.yaml")
	same := []byte("nodes:\n  - name: A\n")
	if err := os.WriteFile(path, same, 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan []domain.NodeSpec, 4)
	go WatchSeeds(ctx, path, 20*time.Millisecond, func(s []domain.NodeSpec) { got <- s })
	time.Sleep(100 * time.Millisecond)

	replaceFile(t, path, same)
	time.Sleep(150 * time.Millisecond)
	replaceFile(t, path, []byte("nodes:\n  - name: C\n"))

	deadline := time.After(3 * time.Second)
	for found := false; !found; {
		select {
		case seeds := <-got:
			if len(seeds) == 1 && seeds[0].Name == "A" {
				t.Fatal("unchanged seed file was reapplied")
			}
			found = len(seeds) == 1 && seeds[0].Name == "C"
		case <-deadline:
			t.Fatal("seed change not delivered")
		}
	}
}

func TestDebouncerCoalesces(t *testing.T) {
	fired := make(chan struct{}, 4)
	d := &debouncer{delay: 30 * time.Millisecond, fn: func() { fired <- struct{}{} }}
	for range 5 {
		d.trigger()
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("debouncer never fired")
	}
	select {
	case <-fired:
		t.Error("debouncer fired twice for one burst")
	case <-time.After(100 * time.Millisecond):
	}
	d.stop()
}

// replaceFile saves the way most editors do, so no truncated state is seen
func replaceFile(t *testing.T, path string, data []byte) {
	t.Helper()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}
}

func TestWatchSeedsReportsBrokenStartupFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seeds.yaml")
	if err := os.WriteFile(path, []byte("nodes: [\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	WatchSeeds(ctx, path, 20*time.Millisecond, func([]domain.NodeSpec) {})

	if !bytes.Contains(buf.Bytes(), []byte("Seed file unreadable at startup")) {
		t.Errorf("startup failure not logged, got %q", buf.String())
	}
}
