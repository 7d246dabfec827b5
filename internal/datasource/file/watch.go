package file

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports changes to one file. It watches the parent directory, so
// editors and tools that replace the file by rename are seen too.
type Watcher struct {
	path     string
	debounce time.Duration
	w        *fsnotify.Watcher
}

// NewWatcher starts watching path. Bursts of events closer together than
// debounce are reported once.
func NewWatcher(path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{path: abs, debounce: debounce, w: w}, nil
}

// Run calls onChange after every settled write or re-creation of the file.
// onChange runs on the Run goroutine, so calls never overlap. Run returns
// ctx.Err() when ctx is done, or the first watcher error.
func (m *Watcher) Run(ctx context.Context, onChange func(path string)) error {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-m.w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != m.path || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(m.debounce)
			} else {
				timer.Reset(m.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			onChange(m.path)

		case err, ok := <-m.w.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch %s: %w", m.path, err)
		}
	}
}

func (m *Watcher) Close() error { return m.w.Close() }
