// Package images hashes, inspects and stores the images used for reverse
// image lookups.
package images

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Storage keeps uploaded query images on disk, keyed by their MD5 hash.
// Thread-safe for concurrent operations.
type Storage struct {
	basePath string
	mu       sync.RWMutex // Protects file operations
}

// NewStorage creates a Storage rooted at {basePath}/uploads/.
func NewStorage(basePath string) (*Storage, error) {
	return NewStorageWithSubdir(basePath, "uploads")
}

// NewStorageWithSubdir creates a Storage rooted at {basePath}/{subdir}/.
func NewStorageWithSubdir(basePath, subdir string) (*Storage, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}
	if subdir == "" {
		return nil, fmt.Errorf("subdirectory cannot be empty")
	}

	storagePath := filepath.Join(basePath, subdir)

	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", subdir, err)
	}

	return &Storage{
		basePath: storagePath,
	}, nil
}

// Save stores image data under its hash.
// Saving the same hash twice is a no-op.
func (s *Storage) Save(hash string, imgData []byte) error {
	if hash == "" {
		return fmt.Errorf("hash cannot be empty")
	}
	if len(imgData) == 0 {
		return fmt.Errorf("image data cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.Path(hash)
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create shard directory: %w", err)
	}
	if err := os.WriteFile(path, imgData, 0o644); err != nil {
		return fmt.Errorf("failed to write image file: %w", err)
	}

	return nil
}

// Get retrieves image data by hash.
func (s *Storage) Get(hash string) ([]byte, error) {
	if hash == "" {
		return nil, fmt.Errorf("hash cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.Path(hash))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("image not found for %s: %w", hash, err)
		}
		return nil, fmt.Errorf("failed to read image file: %w", err)
	}

	return data, nil
}

// Exists checks if an image is stored under hash.
func (s *Storage) Exists(hash string) bool {
	if hash == "" {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(s.Path(hash))
	return err == nil
}

// Delete removes the image stored under hash.
func (s *Storage) Delete(hash string) error {
	if hash == "" {
		return fmt.Errorf("hash cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.Path(hash)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete image file: %w", err)
	}

	return nil
}

// Path returns the filesystem path for a hash: {base}/{hash[:2]}/{hash}.
func (s *Storage) Path(hash string) string {
	shard := hash
	if len(shard) > 2 {
		shard = shard[:2]
	}
	return filepath.Join(s.basePath, shard, hash)
}
