// Package watcher monitors content roots and style files for changes and
// invalidates the engine's caches in development mode. Rapid bursts of
// filesystem events (editor saves, git checkouts) are debounced into a
// single invalidation.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/weftworks/weft/internal/logging"
)

// ChangeEvent represents a relevant file change
type ChangeEvent struct {
	Type    EventType
	Path    string
	ModTime time.Time
}

// EventType represents the type of file change
type EventType int

const (
	EventTypeCreated EventType = iota
	EventTypeModified
	EventTypeDeleted
	EventTypeRenamed
)

// String returns the string representation of the EventType
func (e EventType) String() string {
	switch e {
	case EventTypeCreated:
		return "created"
	case EventTypeModified:
		return "modified"
	case EventTypeDeleted:
		return "deleted"
	case EventTypeRenamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// FileFilter determines if a changed file is relevant
type FileFilter func(path string) bool

// ChangeHandler handles a debounced batch of change events
type ChangeHandler func(events []ChangeEvent)

// ContentWatcher watches content and style files with debouncing
type ContentWatcher struct {
	watcher  *fsnotify.Watcher
	delay    time.Duration
	filters  []FileFilter
	handlers []ChangeHandler
	logger   logging.Logger

	mutex   sync.Mutex
	pending []ChangeEvent
	timer   *time.Timer
}

// New creates a content watcher with the given debounce delay.
func New(debounceDelay time.Duration, logger logging.Logger) (*ContentWatcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	return &ContentWatcher{
		watcher: fsWatcher,
		delay:   debounceDelay,
		logger:  logger.WithComponent("watcher"),
	}, nil
}

// DataFileFilter accepts structured-data files.
func DataFileFilter(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// AddFilter adds a file filter. With no filters, every event passes.
func (cw *ContentWatcher) AddFilter(filter FileFilter) {
	cw.mutex.Lock()
	defer cw.mutex.Unlock()
	cw.filters = append(cw.filters, filter)
}

// AddHandler adds a change handler invoked with each debounced batch.
func (cw *ContentWatcher) AddHandler(handler ChangeHandler) {
	cw.mutex.Lock()
	defer cw.mutex.Unlock()
	cw.handlers = append(cw.handlers, handler)
}

// AddRecursive watches a directory tree. Directories created later inside
// the tree are picked up as they appear. A missing root is skipped: content
// roots are allowed to be absent.
func (cw *ContentWatcher) AddRecursive(root string) error {
	info, err := os.Stat(root)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return cw.watcher.Add(root)
	}

	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return cw.watcher.Add(path)
		}
		return nil
	})
}

// AddFile watches a single file's directory so replace-on-save editors are
// still observed. A missing file is skipped.
func (cw *ContentWatcher) AddFile(path string) error {
	dir := filepath.Dir(path)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}
	return cw.watcher.Add(dir)
}

// Start runs the watch loop until the context is cancelled.
func (cw *ContentWatcher) Start(ctx context.Context) {
	go cw.watchLoop(ctx)
}

// Stop closes the underlying watcher.
func (cw *ContentWatcher) Stop() error {
	cw.mutex.Lock()
	if cw.timer != nil {
		cw.timer.Stop()
	}
	cw.mutex.Unlock()
	return cw.watcher.Close()
}

func (cw *ContentWatcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			cw.handleEvent(ctx, event)
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.logger.Warn(ctx, err, "file watcher error")
		}
	}
}

func (cw *ContentWatcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	// Watch newly created directories so deep content trees stay covered.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := cw.watcher.Add(event.Name); err != nil {
				cw.logger.Warn(ctx, err, "failed to watch new directory", "path", event.Name)
			}
			return
		}
	}

	cw.mutex.Lock()
	filters := cw.filters
	cw.mutex.Unlock()

	for _, filter := range filters {
		if !filter(event.Name) {
			return
		}
	}

	change := ChangeEvent{
		Type: eventType(event.Op),
		Path: event.Name,
	}
	if info, err := os.Stat(event.Name); err == nil {
		change.ModTime = info.ModTime()
	}

	cw.enqueue(change)
}

// enqueue adds an event to the pending batch and (re)arms the debounce
// timer; the batch flushes once events stop arriving for the delay window.
func (cw *ContentWatcher) enqueue(change ChangeEvent) {
	cw.mutex.Lock()
	defer cw.mutex.Unlock()

	cw.pending = append(cw.pending, change)

	if cw.timer != nil {
		cw.timer.Stop()
	}
	cw.timer = time.AfterFunc(cw.delay, cw.flush)
}

func (cw *ContentWatcher) flush() {
	cw.mutex.Lock()
	events := cw.pending
	cw.pending = nil
	handlers := cw.handlers
	cw.mutex.Unlock()

	if len(events) == 0 {
		return
	}

	cw.logger.Debug(context.Background(), "content changed", "events", len(events), "first", events[0].Path)
	for _, handler := range handlers {
		handler(events)
	}
}

func eventType(op fsnotify.Op) EventType {
	switch {
	case op&fsnotify.Create != 0:
		return EventTypeCreated
	case op&fsnotify.Write != 0:
		return EventTypeModified
	case op&fsnotify.Remove != 0:
		return EventTypeDeleted
	case op&fsnotify.Rename != 0:
		return EventTypeRenamed
	default:
		return EventTypeModified
	}
}
