package registry

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ganot/chronicle/internal/summaryfile"
)

// Watcher keeps registry freshness bookkeeping in sync with the file
// system: whenever a registered project's summary document changes on disk,
// the entry's last_touched/expires stamps are refreshed. It is the
// "external collaborator" responsible for freshness; the core never blocks
// on it.
type Watcher struct {
	service  *Service
	interval time.Duration
	logger   *slog.Logger
}

// NewWatcher creates a watcher over the given registry service. interval
// bounds how quickly newly registered projects are picked up.
func NewWatcher(service *Service, interval time.Duration, logger *slog.Logger) *Watcher {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Watcher{service: service, interval: interval, logger: logger}
}

// Run watches registered summary directories until ctx is cancelled. The
// watch list is refreshed from the registry on a fixed interval, so
// projects registered while running are picked up without restarts.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	watched := make(map[string]bool)
	w.refresh(ctx, fw, watched)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("registry watcher started")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("registry watcher stopped")
			return nil

		case <-ticker.C:
			w.refresh(ctx, fw, watched)

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.handleEvent(ctx, ev.Name)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

// refresh reconciles the fsnotify watch list against current registrations.
func (w *Watcher) refresh(ctx context.Context, fw *fsnotify.Watcher, watched map[string]bool) {
	entries, err := w.service.List(ctx)
	if err != nil {
		w.logger.Warn("watcher: list registry failed", "error", err)
		return
	}
	for _, entry := range entries {
		dir := entry.SummaryDir
		if dir == "" || watched[dir] {
			continue
		}
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}
		if err := fw.Add(dir); err != nil {
			w.logger.Warn("watcher: add dir failed", "dir", dir, "error", err)
			continue
		}
		watched[dir] = true
		w.logger.Debug("watcher: watching", "dir", dir)
	}
}

// handleEvent touches the registry entry owning a changed summary file.
func (w *Watcher) handleEvent(ctx context.Context, path string) {
	if filepath.Base(path) != summaryfile.SummaryFile {
		return
	}
	// The watched dir is <project>/.chronicle, so the project root is
	// two levels up from the changed file.
	projectRoot := filepath.Dir(filepath.Dir(path))
	if err := w.service.Touch(ctx, projectRoot); err != nil {
		w.logger.Debug("watcher: touch failed", "path", projectRoot, "error", err)
		return
	}
	w.logger.Debug("watcher: touched", "path", projectRoot)
}
