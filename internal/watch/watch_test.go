// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

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

type bursts struct {
	mu   sync.Mutex
	runs [][]string
}

func (b *bursts) record(_ context.Context, changed []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.runs = append(b.runs, changed)
}

func (b *bursts) snapshot() [][]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([][]string(nil), b.runs...)
}

func startWatch(t *testing.T, roots []string, b *bursts) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Watch(ctx, roots, 50*time.Millisecond, nil, b.record) }()
	t.Cleanup(func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Watch returned %v", err)
		}
	})
	// Give the watcher time to register its directories.
	time.Sleep(100 * time.Millisecond)
}

func TestWatchDebouncesBurst(t *testing.T) {
	src := t.TempDir()
	b := &bursts{}
	startWatch(t, []string{src}, b)

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(filepath.Join(src, "a.md"), []byte{byte('a' + i)}, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	eventually(t, 2*time.Second, 20*time.Millisecond, func() bool { return len(b.snapshot()) >= 1 },
		"expected a rebuild after writing a.md")
	time.Sleep(200 * time.Millisecond)

	runs := b.snapshot()
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1 for a single burst: %v", len(runs), runs)
	}
	if len(runs[0]) != 1 || filepath.Base(runs[0][0]) != "a.md" {
		t.Errorf("changed = %v, want [.../a.md]", runs[0])
	}
}

func TestWatchNewSubdirectory(t *testing.T) {
	src := t.TempDir()
	b := &bursts{}
	startWatch(t, []string{src}, b)

	sub := filepath.Join(src, "part")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	time.Sleep(150 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(sub, "b.md"), []byte("b"), 0o644); err != nil {
		t.Fatal(err)
	}

	eventually(t, 2*time.Second, 20*time.Millisecond, func() bool {
		for _, run := range b.snapshot() {
			for _, p := range run {
				if p == filepath.Join(sub, "b.md") {
					return true
				}
			}
		}
		return false
	}, "expected a rebuild for a file in a new subdirectory")
}

func TestWatchFileRoot(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "docpress.yaml")
	if err := os.WriteFile(config, []byte("title: A\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	b := &bursts{}
	startWatch(t, []string{config}, b)

	// Siblings of a watched file are not reported.
	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(200 * time.Millisecond)
	if runs := b.snapshot(); len(runs) != 0 {
		t.Fatalf("unexpected runs for sibling file: %v", runs)
	}

	if err := os.WriteFile(config, []byte("title: B\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	eventually(t, 2*time.Second, 20*time.Millisecond, func() bool { return len(b.snapshot()) == 1 },
		"expected a rebuild after editing the project file")
}

func TestWatchMissingRoot(t *testing.T) {
	err := Watch(context.Background(), []string{filepath.Join(t.TempDir(), "nope")}, 0, nil, func(context.Context, []string) {})
	if err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestIgnored(t *testing.T) {
	tests := map[string]bool{
		"/p/a.md":      false,
		"/p/a.md~":     true,
		"/p/.a.md.swp": true,
		"/p/.#a.md":    true,
	}
	for path, want := range tests {
		if got := ignored(path); got != want {
			t.Errorf("ignored(%q) = %v, want %v", path, got, want)
		}
	}
}
