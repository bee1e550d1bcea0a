package providers

import (
	"context"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/booruapp/tagsearch-server/internal/config"
	"github.com/booruapp/tagsearch-server/internal/logger"
	"github.com/booruapp/tagsearch-server/internal/search"
	"github.com/booruapp/tagsearch-server/internal/service"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.SearchIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve tag index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewSearchIndex(search.Options{
		DataPath: filepath.Join(cfg.Data.BasePath, "search"),
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Info("Tag index initialized", "documents", docCount)

	return &SearchIndexHandle{SearchIndex: index}, nil
}

// TriggerTagReindexIfNeeded rebuilds the tag index in the background when it
// has drifted from the store. Should be called after all services are wired.
func TriggerTagReindexIfNeeded(i do.Injector) {
	tags := do.MustInvoke[*service.TagService](i)
	log := do.MustInvoke[*logger.Logger](i)

	go func() {
		rebuilt, err := tags.EnsureIndexed(context.Background())
		if err != nil {
			log.Error("Tag index check failed", "error", err)
			return
		}
		if rebuilt {
			log.Info("Tag index rebuilt from store")
		}
	}()
}
