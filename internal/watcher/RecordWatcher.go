package watcher

import (
	"fmt"
	"path/filepath"
	"plantao/internal/providers"
	"plantao/internal/structures"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// ChangeOp is what happened to the record file.
type ChangeOp int

const (
	OpWrite ChangeOp = iota
	OpReplace
	OpRemove
)

func (op ChangeOp) String() string {
	switch op {
	case OpWrite:
		return "write"
	case OpReplace:
		return "replace"
	case OpRemove:
		return "remove"
	default:
		return "unknown"
	}
}

type Change struct {
	Path string
	Op   ChangeOp
}

// RecordWatcher follows the data directory and reacts to changes of the
// record file, whether they come from this process or from a hand edit.
type RecordWatcher struct {
	logger providers.Logger
	cache  providers.CacheProviderInterface
	dir    string
	file   string

	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	done     chan struct{}
	wg       sync.WaitGroup
	onChange []func(Change)
}

func NewRecordWatcher(logger providers.Logger, cache providers.CacheProviderInterface, recordPath string) *RecordWatcher {
	return &RecordWatcher{
		logger: logger,
		cache:  cache,
		dir:    filepath.Dir(recordPath),
		file:   filepath.Base(recordPath),
	}
}

// OnChange registers fn to run after the cache was purged for a change.
func (rw *RecordWatcher) OnChange(fn func(Change)) {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	rw.onChange = append(rw.onChange, fn)
}

func (rw *RecordWatcher) Start() error {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if rw.watcher != nil {
		return fmt.Errorf("watcher already running")
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := w.Add(rw.dir); err != nil {
		_ = w.Close()
		return fmt.Errorf("watch %s: %w", rw.dir, err)
	}

	rw.watcher = w
	rw.done = make(chan struct{})
	rw.wg.Add(1)
	go rw.loop(w, rw.done)

	rw.logger.Infof(providers.TypeApp, "Watching %s for changes", filepath.Join(rw.dir, rw.file))
	return nil
}

// Stop blocks until the event loop has exited. Safe to call when not started.
func (rw *RecordWatcher) Stop() error {
	rw.mu.Lock()
	w := rw.watcher
	if w == nil {
		rw.mu.Unlock()
		return nil
	}
	rw.watcher = nil
	close(rw.done)
	rw.mu.Unlock()

	err := w.Close()
	rw.wg.Wait()
	return err
}

func (rw *RecordWatcher) loop(w *fsnotify.Watcher, done <-chan struct{}) {
	defer rw.wg.Done()
	for {
		select {
		case <-done:
			return
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if change, ok := rw.convert(event); ok {
				rw.handle(change)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			rw.logger.Errorf(providers.TypeApp, "Watcher error: %s", err)
		}
	}
}

func (rw *RecordWatcher) convert(event fsnotify.Event) (Change, bool) {
	if filepath.Base(event.Name) != rw.file {
		return Change{}, false
	}
	var op ChangeOp
	switch {
	case event.Has(fsnotify.Create):
		op = OpReplace
	case event.Has(fsnotify.Write):
		op = OpWrite
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		op = OpRemove
	default:
		return Change{}, false
	}
	return Change{Path: event.Name, Op: op}, true
}

func (rw *RecordWatcher) handle(change Change) {
	rw.cache.Clear()
	rw.logger.Infof(providers.TypeStore, "Record file %s: %s", change.Op, change.Path)

	rw.mu.Lock()
	handlers := append([]func(Change){}, rw.onChange...)
	rw.mu.Unlock()
	for _, fn := range handlers {
		fn(change)
	}
}

func NewWatcherProvider(conf *structures.Config, logger providers.Logger, cache providers.CacheProviderInterface) *RecordWatcher {
	return NewRecordWatcher(logger, cache, providers.RecordPath(conf))
}
