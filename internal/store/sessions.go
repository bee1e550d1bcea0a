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
)

// dialogPrefix keys open dialog sessions: dialog:{id} → DialogSession JSON.
// Entries carry a Badger TTL matching the session's expiry.
const dialogPrefix = "dialog:"

// Dialog session errors.
var (
	ErrDialogNotFound = ErrNotFound.WithMessage("dialog session not found")
	ErrDialogExists   = ErrAlreadyExists.WithMessage("dialog session already exists")
)

// CreateDialog stores a new dialog session.
func (s *Store) CreateDialog(ctx context.Context, session *domain.DialogSession) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := buildKey(dialogPrefix, session.ID)
	defer releaseKey(key)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check dialog exists: %w", err)
	}
	if exists {
		return ErrDialogExists
	}

	return s.putDialog(key, session)
}

// GetDialog retrieves a dialog session by ID.
// Expired sessions are reported as not found.
func (s *Store) GetDialog(ctx context.Context, id string) (*domain.DialogSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := buildKey(dialogPrefix, id)
	defer releaseKey(key)

	var session domain.DialogSession
	if err := s.get(key, &session); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrDialogNotFound
		}
		return nil, fmt.Errorf("get dialog: %w", err)
	}

	if session.IsExpired() {
		return nil, ErrDialogNotFound
	}

	return &session, nil
}

// UpdateDialog replaces an existing dialog session.
// The existence check and the write share one transaction, so a session
// taken concurrently is never written back.
func (s *Store) UpdateDialog(ctx context.Context, session *domain.DialogSession) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := buildKey(dialogPrefix, session.ID)
	defer releaseKey(key)

	entry, err := dialogEntry(key, session)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrDialogNotFound
			}
			return fmt.Errorf("check dialog exists: %w", err)
		}
		return txn.SetEntry(entry)
	})
}

// TakeDialog atomically reads and deletes a dialog session.
// A session can be taken only once.
func (s *Store) TakeDialog(ctx context.Context, id string) (*domain.DialogSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := buildKey(dialogPrefix, id)
	defer releaseKey(key)

	var session domain.DialogSession
	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrDialogNotFound
		}
		if err != nil {
			return err
		}
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &session)
		}); err != nil {
			return err
		}
		return txn.Delete(key)
	})
	if err != nil {
		return nil, err
	}

	if session.IsExpired() {
		return nil, ErrDialogNotFound
	}
	return &session, nil
}

// DeleteDialog removes a dialog session.
func (s *Store) DeleteDialog(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := buildKey(dialogPrefix, id)
	defer releaseKey(key)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check dialog exists: %w", err)
	}
	if !exists {
		return ErrDialogNotFound
	}
	return s.delete(key)
}

// CountDialogs returns the number of open dialog sessions.
func (s *Store) CountDialogs(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.countPrefix([]byte(dialogPrefix))
}

func (s *Store) putDialog(key []byte, session *domain.DialogSession) error {
	entry, err := dialogEntry(key, session)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(entry)
	})
}

// dialogEntry encodes session with a TTL ending at its expiry.
func dialogEntry(key []byte, session *domain.DialogSession) (*badger.Entry, error) {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return nil, ErrInvalidInput.WithMessage("dialog session already expired")
	}

	data, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("marshal dialog: %w", err)
	}

	// key comes from the pool and is released by the caller.
	return badger.NewEntry(bytes.Clone(key), data).WithTTL(ttl), nil
}

// countPrefix counts keys under prefix without fetching values.
func (s *Store) countPrefix(prefix []byte) (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}
