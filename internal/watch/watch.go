// Package watch pushes directory change notifications to subscribers.
// One fsnotify watcher is shared; each subscriber sees only events for
// the single directory it asked about, so a pane refreshes exactly when
// its current listing changes.
package watch

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/filewright/filewright/backend/internal/monitoring"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Event is one observed change inside a watched directory.
type Event struct {
	Path string    `json:"path"`
	Op   string    `json:"op"`
	At   time.Time `json:"at"`
}

// Subscription delivers events for one directory until cancelled.
type Subscription struct {
	C      <-chan Event
	dir    string
	id     uint64
	cancel func()
}

// Close detaches the subscription and releases the directory watch when
// it was the last subscriber.
func (s *Subscription) Close() { s.cancel() }

// Watcher multiplexes one fsnotify watcher across subscribers.
type Watcher struct {
	fs      *fsnotify.Watcher
	log     *zap.Logger
	metrics *monitoring.Metrics

	mu     sync.Mutex
	nextID uint64
	subs   map[string]map[uint64]chan Event
	done   chan struct{}
}

// New starts a Watcher. Logger and metrics may be nil.
func New(log *zap.Logger, metrics *monitoring.Metrics) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("start watcher: %w", err)
	}
	w := &Watcher{
		fs:      fsw,
		log:     log,
		metrics: metrics,
		subs:    make(map[string]map[uint64]chan Event),
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Subscribe starts watching dir and returns a subscription for its
// events. Multiple subscribers can share one directory.
func (w *Watcher) Subscribe(dir string) (*Subscription, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.subs[dir]) == 0 {
		if err := w.fs.Add(dir); err != nil {
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
		w.subs[dir] = make(map[uint64]chan Event)
		w.log.Debug("directory watched", zap.String("dir", dir))
	}

	w.nextID++
	id := w.nextID
	ch := make(chan Event, 16)
	w.subs[dir][id] = ch

	sub := &Subscription{C: ch, dir: dir, id: id}
	sub.cancel = func() { w.unsubscribe(dir, id) }
	return sub, nil
}

func (w *Watcher) unsubscribe(dir string, id uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	chans, ok := w.subs[dir]
	if !ok {
		return
	}
	if ch, ok := chans[id]; ok {
		delete(chans, id)
		close(ch)
	}
	if len(chans) == 0 {
		delete(w.subs, dir)
		// Best effort; the directory may already be gone.
		_ = w.fs.Remove(dir)
		w.log.Debug("directory unwatched", zap.String("dir", dir))
	}
}

// Close stops the watcher and closes every subscription channel.
func (w *Watcher) Close() error {
	close(w.done)
	err := w.fs.Close()

	w.mu.Lock()
	defer w.mu.Unlock()
	for dir, chans := range w.subs {
		for id, ch := range chans {
			delete(chans, id)
			close(ch)
		}
		delete(w.subs, dir)
	}
	return err
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.dispatch(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) dispatch(ev fsnotify.Event) {
	out := Event{Path: ev.Name, Op: opString(ev.Op), At: time.Now()}
	dir := filepath.Dir(ev.Name)

	w.mu.Lock()
	defer w.mu.Unlock()
	chans := w.subs[dir]
	if len(chans) == 0 {
		return
	}
	if w.metrics != nil {
		w.metrics.WatchEvents.Inc()
	}
	for _, ch := range chans {
		select {
		case ch <- out:
		default:
			// Slow subscriber; drop rather than stall the loop. The UI
			// refreshes on the next event anyway.
		}
	}
}

func opString(op fsnotify.Op) string {
	switch {
	case op.Has(fsnotify.Create):
		return "create"
	case op.Has(fsnotify.Write):
		return "write"
	case op.Has(fsnotify.Remove):
		return "remove"
	case op.Has(fsnotify.Rename):
		return "rename"
	case op.Has(fsnotify.Chmod):
		return "chmod"
	default:
		return "unknown"
	}
}
