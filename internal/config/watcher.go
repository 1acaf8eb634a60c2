package config

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// reloadDelay coalesces the burst of events editors emit for a single save.
const reloadDelay = 100 * time.Millisecond

// Watcher reloads the config file when it changes and hands valid results to
// subscribers. Invalid edits are logged and ignored.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	logger  *zap.Logger

	mu      sync.RWMutex
	current *Config
	subs    []func(*Config)

	timerMu sync.Mutex
	timer   *time.Timer

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewWatcher watches the directory holding path so atomic saves (write to a
// temp file, rename over) are seen too. The file itself may not exist yet.
func NewWatcher(path string, current *Config, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch config directory: %w", err)
	}
	return &Watcher{
		path:    path,
		watcher: fw,
		logger:  logger,
		current: current,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}, nil
}

// Subscribe registers fn to receive every successfully reloaded config.
func (w *Watcher) Subscribe(fn func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.subs = append(w.subs, fn)
}

// Current returns the last valid config.
func (w *Watcher) Current() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Start runs the watch loop until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) {
	go w.loop(ctx)
	w.logger.Debug("config watcher started", zap.String("path", w.path))
}

// Stop ends the watch loop and waits for it to exit.
func (w *Watcher) Stop() {
	select {
	case <-w.stopCh:
	default:
		close(w.stopCh)
	}
	<-w.doneCh
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.doneCh)
	defer w.watcher.Close()
	defer w.cancelReload()

	target := filepath.Clean(w.path)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.scheduleReload()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) scheduleReload() {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(reloadDelay, w.reload)
}

func (w *Watcher) cancelReload() {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.logger.Warn("config reload failed, keeping current", zap.Error(err))
		return
	}
	if err := cfg.Validate(); err != nil {
		w.logger.Warn("invalid config, keeping current", zap.Error(err))
		return
	}

	w.mu.Lock()
	w.current = cfg
	subs := slices.Clone(w.subs)
	w.mu.Unlock()

	w.logger.Info("config reloaded", zap.String("path", w.path))
	for _, fn := range subs {
		fn(cfg)
	}
}
