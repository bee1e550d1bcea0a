package providers

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/booruapp/tagsearch-server/internal/config"
	"github.com/booruapp/tagsearch-server/internal/logger"
	"github.com/booruapp/tagsearch-server/internal/media/images"
)

// ProvideImageStorage provides storage for hashed query images.
func ProvideImageStorage(i do.Injector) (*images.Storage, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	storage, err := images.NewStorageWithSubdir(cfg.Data.BasePath, "queries")
	if err != nil {
		return nil, fmt.Errorf("query image storage: %w", err)
	}

	log.Info("Query image storage initialized")
	return storage, nil
}

// ProvideImageProcessor provides the query image processor.
func ProvideImageProcessor(i do.Injector) (*images.Processor, error) {
	storage := do.MustInvoke[*images.Storage](i)
	log := do.MustInvoke[*logger.Logger](i)

	return images.NewProcessor(storage, log.Logger), nil
}
