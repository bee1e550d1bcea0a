package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/booruapp/tagsearch-server/internal/domain"
	"github.com/booruapp/tagsearch-server/internal/normalize"
)

// tagPrefix keys known tags: tag:{name} → Tag JSON.
// Badger iterates keys in byte order, so listings come back sorted case-sensitively.
const tagPrefix = "tag:"

// Tag errors.
var (
	ErrTagNotFound = ErrNotFound.WithMessage("tag not found")
	ErrTagInvalid  = ErrInvalidInput.WithMessage("tag name is empty")
)

// PutTags stores tags, overwriting any with the same name, and indexes them.
// Names are normalized; empty names are rejected.
func (s *Store) PutTags(ctx context.Context, names []string, source domain.TagSource) ([]*domain.Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := time.Now()
	tags := make([]*domain.Tag, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, raw := range names {
		name := normalize.Tag(raw)
		if name == "" {
			return nil, ErrTagInvalid
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		tags = append(tags, &domain.Tag{
			Name:      name,
			Key:       normalize.TagKey(name),
			Source:    source,
			CreatedAt: now,
		})
	}

	batch := s.NewBatchWriter(1000)
	defer batch.Cancel()
	for _, t := range tags {
		if err := batch.PutTag(t); err != nil {
			return nil, err
		}
	}
	if err := batch.Flush(); err != nil {
		return nil, err
	}

	if err := s.tagIndexer.IndexTags(ctx, tags); err != nil && s.logger != nil {
		s.logger.Warn("failed to index tags", "count", len(tags), "error", err)
	}

	return tags, nil
}

// GetTag retrieves a tag by exact name.
func (s *Store) GetTag(ctx context.Context, name string) (*domain.Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := buildKey(tagPrefix, name)
	defer releaseKey(key)

	var t domain.Tag
	if err := s.get(key, &t); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, fmt.Errorf("get tag: %w", err)
	}
	return &t, nil
}

// DeleteTag removes a tag by exact name.
func (s *Store) DeleteTag(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := buildKey(tagPrefix, name)
	defer releaseKey(key)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check tag exists: %w", err)
	}
	if !exists {
		return ErrTagNotFound
	}
	if err := s.delete(key); err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}

	if err := s.tagIndexer.DeleteTags(ctx, []string{name}); err != nil && s.logger != nil {
		s.logger.Warn("failed to remove tag from index", "tag", name, "error", err)
	}
	return nil
}

// ListTags returns all tags in case-sensitive name order.
func (s *Store) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var tags []*domain.Tag
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(tagPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var t domain.Tag
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &t)
			}); err != nil {
				return err
			}
			tags = append(tags, &t)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// ListTagsPage returns one page of tags in case-sensitive name order.
func (s *Store) ListTagsPage(ctx context.Context, params PageParams) (*Page[*domain.Tag], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	after, err := decodeCursor(params.Cursor, tagPrefix)
	if err != nil {
		return nil, err
	}
	limit := params.limit()

	page := &Page[*domain.Tag]{Items: make([]*domain.Tag, 0, limit)}
	err = s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(tagPrefix)
		opts.PrefetchSize = min(limit+1, opts.PrefetchSize)
		it := txn.NewIterator(opts)
		defer it.Close()

		it.Rewind()
		if after != nil {
			it.Seek(after)
			if it.Valid() && bytes.Equal(it.Item().Key(), after) {
				it.Next()
			}
		}

		var lastKey []byte
		for ; it.Valid(); it.Next() {
			if len(page.Items) == limit {
				page.HasMore = true
				page.NextCursor = encodeCursor(lastKey)
				return nil
			}

			item := it.Item()
			var t domain.Tag
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &t)
			}); err != nil {
				return err
			}
			page.Items = append(page.Items, &t)
			lastKey = item.KeyCopy(lastKey)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list tags page: %w", err)
	}
	return page, nil
}

// CountTags returns the number of known tags.
func (s *Store) CountTags(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.countPrefix([]byte(tagPrefix))
}

// ReplaceDictionaryTags makes the dictionary-sourced tags equal to names.
// User-added tags are left alone. Returns the number of tags added and removed.
func (s *Store) ReplaceDictionaryTags(ctx context.Context, names []string) (added, removed int, err error) {
	existing, err := s.ListTags(ctx)
	if err != nil {
		return 0, 0, err
	}

	want := make(map[string]bool, len(names))
	for _, raw := range names {
		if name := normalize.Tag(raw); name != "" {
			want[name] = true
		}
	}

	have := make(map[string]bool, len(existing))
	var stale []string
	for _, t := range existing {
		have[t.Name] = true
		if t.Source == domain.TagSourceDictionary && !want[t.Name] {
			stale = append(stale, t.Name)
		}
	}

	var fresh []string
	for name := range want {
		if !have[name] {
			fresh = append(fresh, name)
		}
	}

	if len(stale) > 0 {
		batch := s.NewBatchWriter(1000)
		defer batch.Cancel()
		for _, name := range stale {
			if err := batch.DeleteTag(name); err != nil {
				return 0, 0, err
			}
		}
		if err := batch.Flush(); err != nil {
			return 0, 0, err
		}
		if err := s.tagIndexer.DeleteTags(ctx, stale); err != nil && s.logger != nil {
			s.logger.Warn("failed to remove tags from index", "count", len(stale), "error", err)
		}
	}

	if len(fresh) > 0 {
		if _, err := s.PutTags(ctx, fresh, domain.TagSourceDictionary); err != nil {
			return 0, len(stale), err
		}
	}

	return len(fresh), len(stale), nil
}
