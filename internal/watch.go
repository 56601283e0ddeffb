package internal

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	pkgconfig "github.com/starford/laguz/pkg/config"
)

// watchConfig watches the config file and applies log level changes at
// runtime. Other config fields require a restart. Editors often replace
// the file (write to temp, rename over), so the parent directory is
// watched and events are debounced before re-reading.
func watchConfig(ctx context.Context, path string, level *slog.LevelVar, logger *slog.Logger) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warn("config watch: init failed", slog.String("error", err.Error()))
		return
	}
	defer w.Close()

	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		logger.Warn("config watch: add failed",
			slog.String("dir", dir),
			slog.String("error", err.Error()))
		return
	}

	logger.Info("config watch: started", slog.String("path", path))

	var reloadTimer *time.Timer
	var reloadCh <-chan time.Time

	scheduleReload := func() {
		if reloadTimer == nil {
			reloadTimer = time.NewTimer(200 * time.Millisecond)
			reloadCh = reloadTimer.C
		} else {
			reloadTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			logger.Info("config watch: stopped")
			return

		case <-reloadCh:
			cfg := NewDefaultConfig()
			if err := pkgconfig.Load(path, cfg); err != nil {
				logger.Warn("config watch: reload failed", slog.String("error", err.Error()))
				continue
			}
			if cfg.App.LogLevel != level.Level() {
				logger.Info("config watch: log level changed",
					slog.String("from", level.Level().String()),
					slog.String("to", cfg.App.LogLevel.String()))
				level.Set(cfg.App.LogLevel)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				scheduleReload()
			}

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logger.Warn("config watch: error", slog.String("error", err.Error()))
		}
	}
}
