package watcher

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestDebouncerCoalescesIntoSortedBatch(t *testing.T) {
	got := make(chan []string, 4)
	d := NewDebouncer(20*time.Millisecond, 0, func(paths []string) { got <- paths })

	for _, p := range []string{"/b", "/a", "/b", "/a"} {
		d.Add(p)
	}
	if !d.Pending() {
		t.Error("Expected pending batch")
	}

	select {
	case paths := <-got:
		if len(paths) != 2 || paths[0] != "/a" || paths[1] != "/b" {
			t.Errorf("Expected [/a /b], got %v", paths)
		}
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for flush")
	}

	time.Sleep(60 * time.Millisecond)
	if n := len(got); n != 0 {
		t.Errorf("Expected a single flush, got %d more", n)
	}
	if d.Pending() {
		t.Error("Expected nothing pending after flushing")
	}
}

func TestDebouncerCancel(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(20*time.Millisecond, 0, func([]string) { calls.Add(1) })
	d.Add("/a")
	d.Cancel()

	time.Sleep(60 * time.Millisecond)
	if calls.Load() != 0 {
		t.Errorf("Expected cancelled batch not to flush, got %d", calls.Load())
	}
	if d.Pending() {
		t.Error("Expected cancel to drop the batch")
	}
}

func TestDebouncerMaxWaitBoundsABurst(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(100*time.Millisecond, 150*time.Millisecond, func([]string) { calls.Add(1) })
	defer d.Cancel()

	// Writes every 10ms never leave a 100ms quiet gap.
	deadline := time.Now().Add(400 * time.Millisecond)
	for time.Now().Before(deadline) {
		d.Add("/busy")
		time.Sleep(10 * time.Millisecond)
	}
	if calls.Load() == 0 {
		t.Error("Expected max wait to flush during a continuous burst")
	}
}

func TestDebouncerDefaults(t *testing.T) {
	d := NewDebouncer(0, 0, func([]string) {})
	if d.Duration() != DefaultDebounceDuration {
		t.Errorf("Expected default duration, got %v", d.Duration())
	}
	if d.MaxWait() != defaultMaxWaitFactor*DefaultDebounceDuration {
		t.Errorf("Expected default max wait, got %v", d.MaxWait())
	}
	if d := NewDebouncer(time.Second, time.Millisecond, func([]string) {}); d.MaxWait() != time.Second {
		t.Errorf("Expected max wait raised to the quiet period, got %v", d.MaxWait())
	}
}

func TestWatcherReportsChangedFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "sv.yaml")
	other := filepath.Join(dir, "other.txt")
	if err := os.WriteFile(target, []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}

	got := make(chan []string, 4)
	w, err := New([]string{target}, func(paths []string) { got <- paths }, Options{Debounce: 30 * time.Millisecond})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(other, []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(target, []byte{byte('b' + i)}, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	abs, _ := filepath.Abs(target)
	select {
	case paths := <-got:
		if len(paths) != 1 || paths[0] != abs {
			t.Errorf("Expected [%s], got %v", abs, paths)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for change notification")
	}
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "SHEET.md")
	w, err := New([]string{path}, func([]string) {}, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	_ = w.Close()
}

func TestWatcherRequiresFiles(t *testing.T) {
	if _, err := New(nil, func([]string) {}, Options{}); err == nil {
		t.Error("Expected error for empty path list")
	}
}
