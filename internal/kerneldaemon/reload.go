package kerneldaemon

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"mixrand/internal/cpurng"
	"mixrand/internal/logging"
)

// reloadDebounce absorbs the burst of write events a single config
// save typically produces (editors often truncate-then-write).
const reloadDebounce = 100 * time.Millisecond

// configWatcher holds the live CPU-RNG parameters the poll loop reads,
// swapped in by watch whenever the config file changes. The zero value
// (no ConfigPath, no Reload) behaves as a static snapshot.
type configWatcher struct {
	mu               sync.RWMutex
	cpuParams        cpurng.Params
	fallbackMixBytes int

	reload func() (cpurng.Params, int, error)
	logger *logging.Logger
}

func newConfigWatcher(initialCPU cpurng.Params, initialFallback int, reload func() (cpurng.Params, int, error), logger *logging.Logger) *configWatcher {
	return &configWatcher{cpuParams: initialCPU, fallbackMixBytes: initialFallback, reload: reload, logger: logger}
}

func (w *configWatcher) snapshot() (cpurng.Params, int) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.cpuParams, w.fallbackMixBytes
}

// watch blocks until done is closed, reloading configuration whenever
// configPath changes on disk. It is a no-op if configPath or the
// reload callback is empty/nil, so callers can start it unconditionally.
func (w *configWatcher) watch(configPath string, done <-chan struct{}) {
	if configPath == "" || w.reload == nil {
		<-done
		return
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		logf(w.logger, slog.LevelWarn, "config hot-reload disabled: %s", err)
		<-done
		return
	}
	defer fsWatcher.Close()

	dir := filepath.Dir(configPath)
	if err := fsWatcher.Add(dir); err != nil {
		logf(w.logger, slog.LevelWarn, "config hot-reload disabled: %s", err)
		<-done
		return
	}

	target := filepath.Clean(configPath)
	var debounce *time.Timer

	for {
		select {
		case <-done:
			if debounce != nil {
				debounce.Stop()
			}
			return

		case event, ok := <-fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(reloadDebounce, w.doReload)

		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return
			}
			logf(w.logger, slog.LevelWarn, "config watcher error: %s", err)
		}
	}
}

func (w *configWatcher) doReload() {
	cpu, fallbackMixBytes, err := w.reload()
	if err != nil {
		logf(w.logger, slog.LevelWarn, "config reload failed, keeping previous values: %s", err)
		return
	}
	w.mu.Lock()
	w.cpuParams = cpu
	w.fallbackMixBytes = fallbackMixBytes
	w.mu.Unlock()
	logf(w.logger, slog.LevelInfo, "configuration reloaded")
}
