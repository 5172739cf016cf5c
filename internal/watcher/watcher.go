// Package watcher reports settled changes to files in a directory.
//
// Editors and copy tools write files in several steps, so a write only
// becomes an event once the file's size and modification time have stopped
// changing for the settle delay.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ytnotebook/ytnotebook/internal/logger"
)

// Watcher watches directories (not recursively) with fsnotify.
type Watcher struct {
	logger *logger.Logger
	opts   Options
	fs     *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]*pendingEvent
	known   map[string]bool
	stopped bool

	events   chan Event
	errors   chan error
	done     chan struct{}
	stopOnce sync.Once
}

type pendingEvent struct {
	size    int64
	modTime time.Time
	timer   *time.Timer
}

// New creates a watcher.
func New(log *logger.Logger, opts Options) (*Watcher, error) {
	opts.setDefaults()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		logger:  log,
		opts:    opts,
		fs:      fsw,
		pending: make(map[string]*pendingEvent),
		known:   make(map[string]bool),
		events:  make(chan Event, 100),
		errors:  make(chan error, 10),
		done:    make(chan struct{}),
	}, nil
}

// Watch adds a directory. Files already present count as known, so later
// writes to them are reported as modifications.
func (w *Watcher) Watch(dir string) error {
	dir = filepath.Clean(dir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read dir: %w", err)
	}

	w.mu.Lock()
	for _, e := range entries {
		if !e.IsDir() {
			w.known[filepath.Join(dir, e.Name())] = true
		}
	}
	w.mu.Unlock()

	if err := w.fs.Add(dir); err != nil {
		return fmt.Errorf("failed to add watch: %w", err)
	}
	w.logger.Debug("watching directory", "path", dir)
	return nil
}

// Start processes events until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.done:
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handle(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.mu.Lock()
			if !w.stopped {
				select {
				case w.errors <- err:
				default:
					w.logger.Warn("dropping watcher error", "error", err)
				}
			}
			w.mu.Unlock()
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	path := ev.Name
	if w.opts.shouldIgnore(path) {
		return
	}

	switch {
	case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		w.mu.Lock()
		if p, ok := w.pending[path]; ok {
			p.timer.Stop()
			delete(w.pending, path)
		}
		wasKnown := w.known[path]
		delete(w.known, path)
		if wasKnown {
			w.emitLocked(Event{Type: EventRemoved, Path: path})
		}
		w.mu.Unlock()
	case ev.Op&(fsnotify.Write|fsnotify.Create) != 0:
		w.startSettling(path)
	}
}

func (w *Watcher) startSettling(path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}

	if p, ok := w.pending[path]; ok {
		p.timer.Stop()
	}
	w.pending[path] = &pendingEvent{
		size:    info.Size(),
		modTime: info.ModTime(),
		timer:   time.AfterFunc(w.opts.SettleDelay, func() { w.checkSettled(path) }),
	}
}

func (w *Watcher) checkSettled(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, ok := w.pending[path]
	if !ok || w.stopped {
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		delete(w.pending, path)
		if w.known[path] {
			delete(w.known, path)
			w.emitLocked(Event{Type: EventRemoved, Path: path})
		}
		return
	}

	if info.Size() != p.size || !info.ModTime().Equal(p.modTime) {
		p.size = info.Size()
		p.modTime = info.ModTime()
		p.timer = time.AfterFunc(w.opts.SettleDelay, func() { w.checkSettled(path) })
		return
	}

	delete(w.pending, path)

	typ := EventModified
	if !w.known[path] {
		typ = EventAdded
		w.known[path] = true
	}
	w.emitLocked(Event{Type: typ, Path: path, Size: info.Size(), ModTime: info.ModTime()})
}

// emitLocked must be called with mu held. Stop flips stopped under the
// same lock before closing the channels.
func (w *Watcher) emitLocked(ev Event) {
	if w.stopped {
		return
	}
	select {
	case w.events <- ev:
	case <-w.done:
	}
}

// Events returns settled file events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns errors reported by the underlying watcher.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Stop releases resources and closes the Events and Errors channels.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)

		w.mu.Lock()
		w.stopped = true
		for _, p := range w.pending {
			p.timer.Stop()
		}
		clear(w.pending)
		w.mu.Unlock()

		err = w.fs.Close()

		close(w.events)
		close(w.errors)
	})
	if errors.Is(err, fsnotify.ErrClosed) {
		return nil
	}
	return err
}
