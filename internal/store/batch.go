package store

import (
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/booruapp/tagsearch-server/internal/domain"
)

// BatchWriter provides efficient bulk write operations using BadgerDB's WriteBatch.
type BatchWriter struct {
	store     *Store
	batch     *badger.WriteBatch
	maxSize   int
	count     int
	autoFlush bool
}

// NewBatchWriter creates a new batch writer that will auto-flush when maxSize is reached.
func (s *Store) NewBatchWriter(maxSize int) *BatchWriter {
	return &BatchWriter{
		store:     s,
		batch:     s.db.NewWriteBatch(),
		maxSize:   maxSize,
		autoFlush: true,
	}
}

// PutTag adds a tag to the batch.
func (b *BatchWriter) PutTag(t *domain.Tag) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal tag: %w", err)
	}

	if err := b.batch.Set([]byte(tagPrefix+t.Name), data); err != nil {
		return fmt.Errorf("batch set tag: %w", err)
	}
	return b.added()
}

// DeleteTag adds a tag deletion to the batch.
func (b *BatchWriter) DeleteTag(name string) error {
	if err := b.batch.Delete([]byte(tagPrefix + name)); err != nil {
		return fmt.Errorf("batch delete tag: %w", err)
	}
	return b.added()
}

func (b *BatchWriter) added() error {
	b.count++
	if b.autoFlush && b.count >= b.maxSize {
		if err := b.Flush(); err != nil {
			return fmt.Errorf("auto flush: %w", err)
		}
	}
	return nil
}

// Flush commits all pending writes in the batch.
func (b *BatchWriter) Flush() error {
	if b.count == 0 {
		return nil
	}

	if err := b.batch.Flush(); err != nil {
		return fmt.Errorf("flush batch: %w", err)
	}

	b.batch = b.store.db.NewWriteBatch()
	b.count = 0
	return nil
}

// Cancel discards any pending writes.
func (b *BatchWriter) Cancel() {
	b.batch.Cancel()
}
