package service

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"

	"github.com/booruapp/tagsearch-server/internal/dialog"
	"github.com/booruapp/tagsearch-server/internal/domain"
	domainerrors "github.com/booruapp/tagsearch-server/internal/errors"
	"github.com/booruapp/tagsearch-server/internal/store"
	"github.com/booruapp/tagsearch-server/internal/validation"
)

// PreferencesService manages the persisted user preferences.
type PreferencesService struct {
	store           *store.Store
	validator       *validation.Validator
	defaultSavePath string
	logger          *slog.Logger
}

// NewPreferencesService creates a new preferences service.
// defaultSavePath seeds SavePath the first time preferences are read.
func NewPreferencesService(store *store.Store, validator *validation.Validator, defaultSavePath string, logger *slog.Logger) *PreferencesService {
	return &PreferencesService{
		store:           store,
		validator:       validator,
		defaultSavePath: defaultSavePath,
		logger:          logger,
	}
}

// Get returns the preferences, creating defaults on first use.
func (s *PreferencesService) Get(ctx context.Context) (*domain.Preferences, error) {
	prefs, err := s.store.GetOrCreatePreferences(ctx, s.defaultSavePath)
	if err != nil {
		return nil, fromStore(err)
	}
	return prefs, nil
}

// PreferencesUpdate contains fields that can be updated. Nil fields are left unchanged.
type PreferencesUpdate struct {
	Language *string `json:"language,omitempty" validate:"omitempty,language"`
	SavePath *string `json:"save_path,omitempty" validate:"omitempty,min=1,max=4096"`
}

// Update applies a partial update.
func (s *PreferencesService) Update(ctx context.Context, update *PreferencesUpdate) (*domain.Preferences, error) {
	if err := s.validator.Validate(update); err != nil {
		return nil, err
	}

	prefs, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	if update.Language != nil {
		prefs.Language = strings.TrimSpace(*update.Language)
	}
	if update.SavePath != nil {
		path := filepath.Clean(*update.SavePath)
		if !filepath.IsAbs(path) {
			return nil, domainerrors.ValidationWithDetails("validation failed",
				map[string]string{"save_path": "must be an absolute path"})
		}
		prefs.SavePath = path
	}

	prefs.Touch()
	if err := s.store.UpsertPreferences(ctx, prefs); err != nil {
		return nil, fmt.Errorf("save preferences: %w", fromStore(err))
	}

	s.logger.Info("preferences updated",
		"language", prefs.Language,
		"save_path", prefs.SavePath,
	)

	return prefs, nil
}

// Locale resolves the language preference to a supported locale.
func (s *PreferencesService) Locale(ctx context.Context) (language.Tag, error) {
	prefs, err := s.Get(ctx)
	if err != nil {
		return language.English, err
	}
	return dialog.Locale(prefs.Language), nil
}

// SavePath returns the directory relative image paths are resolved against.
func (s *PreferencesService) SavePath(ctx context.Context) (string, error) {
	prefs, err := s.Get(ctx)
	if err != nil {
		return "", err
	}
	return prefs.SavePath, nil
}
