package watcher

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type eventRecorder struct {
	mu     sync.Mutex
	events []string
}

func (r *eventRecorder) record(kind, filename string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, kind+":"+filename)
}

func (r *eventRecorder) has(want string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e == want {
			return true
		}
	}
	return false
}

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func startWatcher(t *testing.T) (string, *eventRecorder) {
	t.Helper()
	root := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	rec := &eventRecorder{}
	go func() { _ = Watch(ctx, root, logger, rec.record) }()

	// Let the watcher register before mutating the directory.
	time.Sleep(100 * time.Millisecond)
	return root, rec
}

func TestWatcherReportsCreate(t *testing.T) {
	root, rec := startWatcher(t)

	if err := os.WriteFile(filepath.Join(root, "new.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return rec.has("created:new.txt")
	}, "create event not reported")
}

func TestWatcherReportsDelete(t *testing.T) {
	root, rec := startWatcher(t)

	path := filepath.Join(root, "gone.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return rec.has("created:gone.txt")
	}, "create event not reported")

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return rec.has("deleted:gone.txt")
	}, "delete event not reported")
}

func TestWatcherIgnoresOtherExtensions(t *testing.T) {
	root, rec := startWatcher(t)

	if err := os.WriteFile(filepath.Join(root, "ignored.md"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "seen.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return rec.has("created:seen.txt")
	}, "txt event not reported")

	if rec.has("created:ignored.md") {
		t.Error("non-txt file should not be reported")
	}
}
