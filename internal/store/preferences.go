package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/booruapp/tagsearch-server/internal/domain"
)

const preferencesKey = "preferences"

// ErrPreferencesNotFound is returned when no preferences have been saved.
var ErrPreferencesNotFound = ErrNotFound.WithMessage("preferences not found")

// GetPreferences retrieves the saved preferences.
func (s *Store) GetPreferences(ctx context.Context) (*domain.Preferences, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var prefs domain.Preferences
	if err := s.get([]byte(preferencesKey), &prefs); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrPreferencesNotFound
		}
		return nil, fmt.Errorf("get preferences: %w", err)
	}
	return &prefs, nil
}

// UpsertPreferences creates or updates the preferences.
func (s *Store) UpsertPreferences(ctx context.Context, prefs *domain.Preferences) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.set([]byte(preferencesKey), prefs)
}

// DeletePreferences removes the saved preferences.
func (s *Store) DeletePreferences(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.delete([]byte(preferencesKey))
}

// GetOrCreatePreferences retrieves preferences or saves defaults if none exist.
func (s *Store) GetOrCreatePreferences(ctx context.Context, defaultSavePath string) (*domain.Preferences, error) {
	prefs, err := s.GetPreferences(ctx)
	if err == nil {
		return prefs, nil
	}

	if !errors.Is(err, ErrPreferencesNotFound) {
		return nil, err
	}

	prefs = domain.NewPreferences(defaultSavePath)
	if err := s.UpsertPreferences(ctx, prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}
