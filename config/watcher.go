package config

import (
	"context"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/halcyonmkt/halcyon/logging"
)

const namedLogger = "cfgwatcher"

// Watcher looks for updates to the configuration file and hands reloaded
// configs to registered listeners, used to bump log levels at runtime.
type Watcher struct {
	log  *logging.Logger
	path string

	mu        sync.Mutex
	cfg       Config
	listeners []func(Config)
}

// NewWatcher loads the config file and starts watching it for changes
// until the context is cancelled.
func NewWatcher(ctx context.Context, log *logging.Logger, path string) (*Watcher, error) {
	log = log.Named(namedLogger)
	// always notify configuration changes
	log.SetLevel(logging.DebugLevel)

	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		log:  log,
		path: path,
		cfg:  cfg,
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(path); err != nil {
		return nil, err
	}
	w.log.Info("config watcher started", logging.String("config", path))
	go w.watch(ctx, fsw)
	return w, nil
}

// Get returns the most recently loaded configuration.
func (w *Watcher) Get() Config {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cfg
}

// OnConfigUpdate registers functions called after each successful reload.
func (w *Watcher) OnConfigUpdate(fns ...func(Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.listeners = append(w.listeners, fns...)
}

func (w *Watcher) watch(ctx context.Context, fsw *fsnotify.Watcher) {
	defer fsw.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-fsw.Events:
			if !ok {
				return
			}
			if evt.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.reload()
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.log.Error("config watcher error", logging.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Read(w.path)
	if err != nil {
		w.log.Error("could not reload configuration", logging.Error(err))
		return
	}
	w.mu.Lock()
	w.cfg = cfg
	listeners := append([]func(Config){}, w.listeners...)
	w.mu.Unlock()
	w.log.Debug("configuration reloaded", logging.String("config", w.path))
	for _, f := range listeners {
		f(cfg)
	}
}
