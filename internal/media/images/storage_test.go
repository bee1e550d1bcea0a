package images

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHash = "0cc175b9c0f1b6a831c399e269772661"

func TestNewStorage(t *testing.T) {
	t.Run("creates uploads directory", func(t *testing.T) {
		tmpDir := t.TempDir()

		storage, err := NewStorage(tmpDir)
		require.NoError(t, err)
		require.NotNil(t, storage)

		info, err := os.Stat(filepath.Join(tmpDir, "uploads"))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("returns error for empty path", func(t *testing.T) {
		storage, err := NewStorage("")
		assert.Error(t, err)
		assert.Nil(t, storage)
		assert.Contains(t, err.Error(), "base path cannot be empty")
	})

	t.Run("returns error for empty subdir", func(t *testing.T) {
		storage, err := NewStorageWithSubdir(t.TempDir(), "")
		assert.Error(t, err)
		assert.Nil(t, storage)
	})
}

func TestStorage_SaveAndGet(t *testing.T) {
	storage := setupTestStorage(t)
	data := []byte("image bytes")

	require.NoError(t, storage.Save(testHash, data))
	assert.True(t, storage.Exists(testHash))

	got, err := storage.Get(testHash)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	// Sharded by the first two characters of the hash.
	assert.Equal(t, "0c", filepath.Base(filepath.Dir(storage.Path(testHash))))
}

func TestStorage_SaveIsIdempotent(t *testing.T) {
	storage := setupTestStorage(t)

	require.NoError(t, storage.Save(testHash, []byte("first")))
	require.NoError(t, storage.Save(testHash, []byte("second")))

	got, err := storage.Get(testHash)
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), got)
}

func TestStorage_Errors(t *testing.T) {
	storage := setupTestStorage(t)

	assert.ErrorContains(t, storage.Save("", []byte("x")), "hash cannot be empty")
	assert.ErrorContains(t, storage.Save(testHash, nil), "image data cannot be empty")

	_, err := storage.Get("missing")
	assert.ErrorContains(t, err, "image not found")

	_, err = storage.Get("")
	assert.Error(t, err)
	assert.False(t, storage.Exists(""))
}

func TestStorage_Delete(t *testing.T) {
	storage := setupTestStorage(t)
	require.NoError(t, storage.Save(testHash, []byte("x")))

	require.NoError(t, storage.Delete(testHash))
	assert.False(t, storage.Exists(testHash))

	// Deleting again is not an error.
	assert.NoError(t, storage.Delete(testHash))
	assert.Error(t, storage.Delete(""))
}

func setupTestStorage(t *testing.T) *Storage {
	t.Helper()
	storage, err := NewStorage(t.TempDir())
	require.NoError(t, err)
	return storage
}
