package service

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/booruapp/tagsearch-server/internal/media/images"
	"github.com/booruapp/tagsearch-server/internal/search"
	"github.com/booruapp/tagsearch-server/internal/store"
	"github.com/booruapp/tagsearch-server/internal/validation"
)

const testMaxUpload = 1 << 20

// testServices wires every service against temporary storage.
type testServices struct {
	store       *store.Store
	index       *search.SearchIndex
	preferences *PreferencesService
	images      *ImageService
	dialogs     *DialogService
	tags        *TagService
	savePath    string
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()

	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	st, err := store.New(filepath.Join(dir, "db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	index, err := search.NewSearchIndex(search.Options{DataPath: filepath.Join(dir, "search"), Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })
	st.SetTagIndexer(index)

	imageStorage, err := images.NewStorage(filepath.Join(dir, "images"))
	require.NoError(t, err)

	savePath := filepath.Join(dir, "pictures")
	require.NoError(t, os.MkdirAll(savePath, 0o755))

	prefs := NewPreferencesService(st, validation.New(), savePath, logger)
	imgs := NewImageService(images.NewProcessor(imageStorage, logger), prefs, testMaxUpload, logger)

	return &testServices{
		store:       st,
		index:       index,
		preferences: prefs,
		images:      imgs,
		dialogs:     NewDialogService(st, imgs, DefaultDialogTTL, logger),
		tags:        NewTagService(st, index, logger),
		savePath:    savePath,
	}
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := range 8 {
		for x := range 8 {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func ptr[T any](v T) *T { return &v }
