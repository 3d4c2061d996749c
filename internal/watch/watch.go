// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package watch reruns a build when project sources change.
// Implements: docs/ARCHITECTURE § Watch Mode.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period that ends a burst of changes.
const DefaultDebounce = 300 * time.Millisecond

// Func is called with the changed paths after each burst of changes.
type Func func(ctx context.Context, changed []string)

// Watch watches roots until ctx is done. Directories are watched
// recursively, including ones created later; file roots are watched
// through their parent directory so editors that replace files on save
// are still seen. After debounce without further events fn runs with
// the changed paths. fn runs on the watcher goroutine, so runs never
// overlap.
func Watch(ctx context.Context, roots []string, debounce time.Duration, logger *slog.Logger, fn Func) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	var m matcher
	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", root, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return fmt.Errorf("watching %s: %w", root, err)
		}
		if info.IsDir() {
			if err := addDirsRecursive(w, abs); err != nil {
				return fmt.Errorf("watching %s: %w", root, err)
			}
			m.trees = append(m.trees, abs)
			continue
		}
		if err := w.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("watching %s: %w", root, err)
		}
		m.files = append(m.files, abs)
	}

	logger.Info("watcher: started", slog.Any("roots", roots), slog.Duration("debounce", debounce))

	var (
		timer   *time.Timer
		timerCh <-chan time.Time
		pending = map[string]bool{}
	)
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerCh = timer.C
			return
		}
		timer.Reset(debounce)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			timer, timerCh = nil, nil
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			clear(pending)

			logger.Debug("watcher: change burst", slog.Int("paths", len(changed)))
			fn(ctx, changed)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create != 0 && m.inTree(ev.Name) {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					}
				}
			}
			if ev.Op == fsnotify.Chmod || !m.match(ev.Name) || ignored(ev.Name) {
				continue
			}
			logger.Debug("watcher: event", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			pending[ev.Name] = true
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// matcher decides which event paths belong to the watched roots.
type matcher struct {
	trees []string
	files []string
}

func (m *matcher) match(path string) bool {
	for _, f := range m.files {
		if path == f {
			return true
		}
	}
	return m.inTree(path)
}

func (m *matcher) inTree(path string) bool {
	for _, t := range m.trees {
		if path == t || strings.HasPrefix(path, t+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// ignored skips editor swap and backup files.
func ignored(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".#") ||
		strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx")
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
