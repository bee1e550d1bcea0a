package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/booruapp/tagsearch-server/internal/config"
	"github.com/booruapp/tagsearch-server/internal/logger"
	"github.com/booruapp/tagsearch-server/internal/service"
	"github.com/booruapp/tagsearch-server/internal/watcher"
)

// DictionaryWatcherHandle wraps the tag dictionary watcher with shutdown capability.
// Watcher is nil when no dictionary file is configured.
type DictionaryWatcherHandle struct {
	*watcher.Watcher
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *DictionaryWatcherHandle) Shutdown() error {
	if h.Watcher == nil {
		return nil
	}
	h.cancel()
	return h.Watcher.Stop()
}

// ProvideDictionaryWatcher loads the tag dictionary and keeps it in sync with
// the file on disk.
func ProvideDictionaryWatcher(i do.Injector) (*DictionaryWatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	tags := do.MustInvoke[*service.TagService](i)

	path := cfg.Search.TagsFile
	if path == "" {
		log.Info("No tag dictionary configured")
		return &DictionaryWatcherHandle{}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())

	if _, _, err := tags.LoadDictionary(ctx, path); err != nil {
		cancel()
		return nil, err
	}

	w, err := watcher.New(log.Logger, watcher.Options{})
	if err != nil {
		cancel()
		return nil, err
	}

	// Start in background
	go func() {
		if err := w.Start(ctx); err != nil {
			log.Error("Dictionary watcher error", "error", err)
		}
	}()
	go func() {
		if err := tags.WatchDictionary(ctx, w, path); err != nil {
			log.Error("Dictionary watch failed", "path", path, "error", err)
		}
	}()

	log.Info("Tag dictionary watcher started", "path", path)

	return &DictionaryWatcherHandle{Watcher: w, cancel: cancel}, nil
}
