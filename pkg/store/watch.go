package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"tableflip.dev/daylog/pkg/activity"
)

// Change is emitted by Diskv.Watch when a record file is written or removed,
// including writes made by another process sharing the directory.
type Change struct {
	// ID is empty when the change could not be tied to a single record and
	// callers should reload everything.
	ID activity.ID
}

const watchDebounce = 100 * time.Millisecond

// Watch streams changes until ctx is cancelled. The channel is closed once
// ctx is done or the watcher fails.
func (p *Diskv) Watch(ctx context.Context) (<-chan Change, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	var closeOnce sync.Once
	closeWatcher := func() {
		closeOnce.Do(func() { _ = watcher.Close() })
	}

	dirs, err := collectDirs(p.basePath)
	if err != nil {
		closeWatcher()
		return nil, fmt.Errorf("store: enumerate directories: %w", err)
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			closeWatcher()
			return nil, fmt.Errorf("store: watch %s: %w", dir, err)
		}
	}

	changes := make(chan Change, 64)

	go func() {
		defer close(changes)
		defer closeWatcher()

		watched := make(map[string]struct{}, len(dirs))
		for _, dir := range dirs {
			watched[dir] = struct{}{}
		}

		send := func(c Change) {
			select {
			case changes <- c:
			default:
			}
		}
		throttle := newChangeThrottle(watchDebounce)
		defer throttle.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
				throttle.Enqueue(Change{}, send)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if evt.Op&fsnotify.Create == fsnotify.Create {
					if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
						dir := filepath.Clean(evt.Name)
						if _, found := watched[dir]; !found && watcher.Add(dir) == nil {
							watched[dir] = struct{}{}
						}
						continue
					}
				}
				throttle.Enqueue(Change{ID: p.idForPath(evt.Name)}, send)
			}
		}
	}()

	return changes, nil
}

func collectDirs(base string) ([]string, error) {
	dirs := []string{base}
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() && path != base {
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs, err
}

func (p *Diskv) idForPath(path string) activity.ID {
	rel, err := filepath.Rel(p.basePath, path)
	if err != nil || rel == "." {
		return ""
	}
	// Records live one shard directory deep.
	shard := filepath.Dir(rel)
	if shard == "." || filepath.Dir(shard) != "." {
		return ""
	}
	return activity.ID(filepath.Base(rel))
}

// changeThrottle coalesces bursts of filesystem events into one delivery
// per record.
type changeThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[activity.ID]struct{}
	delay   time.Duration
}

func newChangeThrottle(delay time.Duration) *changeThrottle {
	return &changeThrottle{delay: delay, pending: make(map[activity.ID]struct{})}
}

func (t *changeThrottle) Enqueue(c Change, send func(Change)) {
	t.mu.Lock()
	t.pending[c.ID] = struct{}{}
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() { t.flush(send) })
	}
	t.mu.Unlock()
}

func (t *changeThrottle) flush(send func(Change)) {
	t.mu.Lock()
	pending := t.pending
	t.pending = make(map[activity.ID]struct{})
	t.timer = nil
	t.mu.Unlock()

	if _, all := pending[""]; all {
		send(Change{})
		return
	}
	for id := range pending {
		send(Change{ID: id})
	}
}

func (t *changeThrottle) Stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
