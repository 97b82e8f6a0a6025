package catalog

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	og "github.com/reoring/optgrammar"
)

// ErrHolderStopped is returned by WatchFile after Stop.
var ErrHolderStopped = errors.New("catalog: holder stopped")

// Holder keeps the current catalog loaded from a file and swaps it on
// Reload. A failed reload keeps the previous catalog.
type Holder struct {
	mu       sync.RWMutex
	cat      *Catalog
	path     string
	blob     og.BlobCodec
	logger   zerolog.Logger
	watcher  *fsnotify.Watcher
	onChange []func(*Catalog)
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewHolder loads path. blob may be nil for the default codec.
func NewHolder(path string, blob og.BlobCodec, logger zerolog.Logger) (*Holder, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}
	h := &Holder{
		path:   absPath,
		blob:   blob,
		logger: logger,
		stopCh: make(chan struct{}),
	}
	cat, err := h.load()
	if err != nil {
		return nil, err
	}
	h.cat = cat
	return h, nil
}

func (h *Holder) load() (*Catalog, error) {
	cat, err := Load(h.path)
	if err != nil {
		return nil, err
	}
	if h.blob != nil {
		cat = cat.WithBlobCodec(h.blob)
	}
	return cat, nil
}

// Get returns the current catalog.
func (h *Holder) Get() *Catalog {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cat
}

// Reload reads the file again.
func (h *Holder) Reload() error {
	cat, err := h.load()
	if err != nil {
		h.logger.Error().Err(err).Str("path", h.path).Msg("catalog reload failed, keeping old catalog")
		return fmt.Errorf("reload catalog: %w", err)
	}

	h.mu.Lock()
	old := h.cat
	h.cat = cat
	listeners := append([]func(*Catalog){}, h.onChange...)
	h.mu.Unlock()

	h.logger.Info().
		Int("old_operations", len(old.Operations())).
		Int("new_operations", len(cat.Operations())).
		Msg("catalog reloaded")

	for _, fn := range listeners {
		fn(cat)
	}
	return nil
}

// OnChange registers fn to run after every successful reload.
func (h *Holder) OnChange(fn func(*Catalog)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onChange = append(h.onChange, fn)
}

// WatchFile reloads the catalog whenever the file is written or
// re-created. The directory is watched so editors that save by rename are
// picked up.
func (h *Holder) WatchFile() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(h.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch directory: %w", err)
	}
	h.mu.Lock()
	select {
	case <-h.stopCh:
		h.mu.Unlock()
		watcher.Close()
		return ErrHolderStopped
	default:
	}
	h.watcher = watcher
	h.mu.Unlock()

	go h.watchLoop(watcher)

	h.logger.Info().Str("path", h.path).Msg("watching catalog for changes")
	return nil
}

// Stop ends watching. It is safe to call more than once and from any
// goroutine; WatchFile fails with ErrHolderStopped afterwards.
func (h *Holder) Stop() {
	h.stopOnce.Do(func() {
		h.mu.Lock()
		close(h.stopCh)
		watcher := h.watcher
		h.mu.Unlock()
		if watcher != nil {
			watcher.Close()
		}
	})
}

func (h *Holder) watchLoop(watcher *fsnotify.Watcher) {
	filename := filepath.Base(h.path)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				h.logger.Debug().
					Str("event", event.Op.String()).
					Str("file", event.Name).
					Msg("catalog file changed")
				_ = h.Reload()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			h.logger.Error().Err(err).Msg("catalog watcher error")

		case <-h.stopCh:
			return
		}
	}
}
