package providers

import (
	"github.com/samber/do/v2"

	"github.com/booruapp/tagsearch-server/internal/config"
	"github.com/booruapp/tagsearch-server/internal/logger"
	"github.com/booruapp/tagsearch-server/internal/media/images"
	"github.com/booruapp/tagsearch-server/internal/service"
	"github.com/booruapp/tagsearch-server/internal/validation"
)

// ProvideValidator provides the request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvidePreferencesService provides the preferences service.
func ProvidePreferencesService(i do.Injector) (*service.PreferencesService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewPreferencesService(storeHandle.Store, validator, cfg.Search.DefaultSavePath, log.Logger), nil
}

// ProvideImageService provides the query image service.
func ProvideImageService(i do.Injector) (*service.ImageService, error) {
	processor := do.MustInvoke[*images.Processor](i)
	preferences := do.MustInvoke[*service.PreferencesService](i)
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewImageService(processor, preferences, cfg.Search.MaxUploadBytes, log.Logger), nil
}

// ProvideDialogService provides the dialog session service.
func ProvideDialogService(i do.Injector) (*service.DialogService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	imageService := do.MustInvoke[*service.ImageService](i)
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewDialogService(storeHandle.Store, imageService, cfg.Search.SessionTTL, log.Logger), nil
}

// ProvideTagService provides the tag autocomplete service.
func ProvideTagService(i do.Injector) (*service.TagService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTagService(storeHandle.Store, indexHandle.SearchIndex, log.Logger), nil
}
