package api

import (
	"github.com/booruapp/tagsearch-server/internal/search"
	"github.com/booruapp/tagsearch-server/internal/service"
)

// Services groups the business services used by handlers.
type Services struct {
	Dialogs     *service.DialogService
	Tags        *service.TagService
	Preferences *service.PreferencesService
	Images      *service.ImageService
	Search      *search.SearchIndex
}
