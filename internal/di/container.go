// Package di provides dependency injection configuration for the tag search server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/booruapp/tagsearch-server/internal/config"
	"github.com/booruapp/tagsearch-server/internal/di/providers"
	"github.com/booruapp/tagsearch-server/internal/logger"
	"github.com/booruapp/tagsearch-server/internal/media/images"
	"github.com/booruapp/tagsearch-server/internal/service"
	"github.com/booruapp/tagsearch-server/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSlogLogger)
	do.Provide(injector, providers.ProvideValidator)

	// Storage layer
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideImageStorage)
	do.Provide(injector, providers.ProvideImageProcessor)

	// Business services
	do.Provide(injector, providers.ProvidePreferencesService)
	do.Provide(injector, providers.ProvideImageService)
	do.Provide(injector, providers.ProvideDialogService)
	do.Provide(injector, providers.ProvideTagService)

	// Workers
	do.Provide(injector, providers.ProvideDictionaryWatcher)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and starts the HTTP server.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*validation.Validator](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*images.Storage](injector)
	_ = do.MustInvoke[*images.Processor](injector)

	// Business services
	_ = do.MustInvoke[*service.PreferencesService](injector)
	_ = do.MustInvoke[*service.ImageService](injector)
	_ = do.MustInvoke[*service.DialogService](injector)
	_ = do.MustInvoke[*service.TagService](injector)

	// Workers
	if _, err := do.Invoke[*providers.DictionaryWatcherHandle](injector); err != nil {
		return err
	}

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	providers.TriggerTagReindexIfNeeded(injector)

	return nil
}
