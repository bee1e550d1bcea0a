package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/booruapp/tagsearch-server/internal/domain"
)

// TagIndexer is the interface for keeping the autocomplete index in sync.
// Store uses this to update search without depending on the search implementation.
type TagIndexer interface {
	IndexTags(ctx context.Context, tags []*domain.Tag) error
	DeleteTags(ctx context.Context, names []string) error
}

// NoopTagIndexer is a no-op implementation for testing.
type NoopTagIndexer struct{}

// IndexTags is a no-op.
func (NoopTagIndexer) IndexTags(context.Context, []*domain.Tag) error { return nil }

// DeleteTags is a no-op.
func (NoopTagIndexer) DeleteTags(context.Context, []string) error { return nil }

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	// Tag indexer for keeping autocomplete in sync with tag changes.
	// Set via SetTagIndexer after store creation to avoid circular dependencies.
	tagIndexer TagIndexer
}

// New creates a new Store instance with the given database path.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	store := &Store{
		db:         db,
		logger:     logger,
		tagIndexer: NoopTagIndexer{},
	}

	if logger != nil {
		logger.Info("Badger database opened successfully", "path", path)
	}

	return store, nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("Closing database connection")
	}
	return s.db.Close()
}

// SetTagIndexer sets the indexer notified of tag changes.
func (s *Store) SetTagIndexer(indexer TagIndexer) {
	if indexer == nil {
		indexer = NoopTagIndexer{}
	}
	s.tagIndexer = indexer
}

// Ping checks that the database is usable.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.db.IsClosed() {
		return errors.New("database is closed")
	}
	return s.db.View(func(*badger.Txn) error { return nil })
}

// RunGC runs one round of value log garbage collection.
// Returns nil when there was nothing to collect.
func (s *Store) RunGC() error {
	err := s.db.RunValueLogGC(0.5)
	if errors.Is(err, badger.ErrNoRewrite) {
		return nil
	}
	return err
}

// Helper methods for database operations.

// get retrieves a value by key.
func (s *Store) get(key []byte, dest any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, dest)
		})
	})
}

// set stores a value by key.
func (s *Store) set(key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

// delete removes a key from the database.
func (s *Store) delete(key []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

// exists checks if a key exists.
func (s *Store) exists(key []byte) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
