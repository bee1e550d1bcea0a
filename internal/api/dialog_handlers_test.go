package api

import (
	"crypto/md5"
	"encoding/hex"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/booruapp/tagsearch-server/internal/service"
)

func openDialog(t *testing.T, ts *testServer, tags string) DialogResponse {
	t.Helper()

	rec := ts.api.Post("/api/v1/dialogs", map[string]any{"tags": tags})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	env := decodeEnvelope[DialogResponse](t, rec)
	require.True(t, env.Success)
	return env.Data
}

func TestDialog_OpenAndGet(t *testing.T) {
	ts := setupTestServer(t, Options{})

	opened := openDialog(t, ts, "cat status:pending order:favcount")
	assert.True(t, strings.HasPrefix(opened.ID, "dlg-"))
	assert.Equal(t, "cat status:pending order:favcount", opened.Source)
	assert.Equal(t, 10, opened.Form.OrderIndex)
	assert.Equal(t, 4, opened.Form.StatusIndex)
	assert.Equal(t, "cat status:pending order:favcount", opened.Preview)
	assert.True(t, opened.ExpiresAt.After(opened.CreatedAt))

	rec := ts.api.Get("/api/v1/dialogs/" + opened.ID)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeEnvelope[DialogResponse](t, rec)
	assert.Equal(t, opened.Form, got.Data.Form)
}

func TestDialog_GetUnknown(t *testing.T) {
	ts := setupTestServer(t, Options{})

	for _, id := range []string{"dlg-doesnotexist000000000", "not-a-dialog"} {
		rec := ts.api.Get("/api/v1/dialogs/" + id)
		assert.Equal(t, http.StatusNotFound, rec.Code, id)
		env := decodeEnvelope[any](t, rec)
		assert.Equal(t, "NOT_FOUND", env.Code)
	}
}

func TestDialog_UpdateAndAccept(t *testing.T) {
	ts := setupTestServer(t, Options{})
	opened := openDialog(t, ts, "cat")

	rec := ts.api.Patch("/api/v1/dialogs/"+opened.ID, map[string]any{
		"rating_index": 8,
		"status_index": 2,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeEnvelope[DialogResponse](t, rec)
	assert.Equal(t, "cat status:active -rating:explicit", updated.Data.Preview)

	rec = ts.api.Post("/api/v1/dialogs/"+opened.ID+"/accept", map[string]any{})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	accepted := decodeEnvelope[service.AcceptResult](t, rec)
	assert.Equal(t, "cat status:active -rating:explicit", accepted.Data.Query)
	assert.Nil(t, accepted.Data.Image)

	// The dialog is closed once accepted.
	rec = ts.api.Post("/api/v1/dialogs/"+opened.ID+"/accept", map[string]any{})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDialog_UpdateOutOfRange(t *testing.T) {
	ts := setupTestServer(t, Options{})
	opened := openDialog(t, ts, "cat")

	rec := ts.api.Patch("/api/v1/dialogs/"+opened.ID, map[string]any{"order_index": 99})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope[any](t, rec)
	assert.Equal(t, "VALIDATION", env.Code)
}

func TestDialog_AcceptWithExtraPrefix(t *testing.T) {
	ts := setupTestServer(t, Options{})
	opened := openDialog(t, ts, "cat")

	rec := ts.api.Post("/api/v1/dialogs/"+opened.ID+"/accept", map[string]any{"extra_prefix": "md5:0123"})
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope[service.AcceptResult](t, rec)
	assert.Equal(t, "md5:0123 cat", env.Data.Query)
}

func TestDialog_SelectDate(t *testing.T) {
	ts := setupTestServer(t, Options{})
	opened := openDialog(t, ts, "cat")

	rec := ts.api.Post("/api/v1/dialogs/"+opened.ID+"/date", map[string]any{"date": "2024-03-05"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	env := decodeEnvelope[DialogResponse](t, rec)
	assert.Equal(t, "03/05/2024", env.Data.Form.Date)
	assert.Equal(t, "cat date:03/05/2024", env.Data.Preview)
	assert.Equal(t, 2024, env.Data.Calendar.Selected.Year())
}

func TestDialog_Cancel(t *testing.T) {
	ts := setupTestServer(t, Options{})
	opened := openDialog(t, ts, "cat")

	rec := ts.api.Delete("/api/v1/dialogs/" + opened.ID)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.api.Get("/api/v1/dialogs/" + opened.ID)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDialog_AcceptImagePath(t *testing.T) {
	ts := setupTestServer(t, Options{})
	opened := openDialog(t, ts, "cat rating:general")

	data := testPNG(t)
	require.NoError(t, os.WriteFile(filepath.Join(ts.savePath, "query.png"), data, 0o644))
	sum := md5.Sum(data)
	hash := hex.EncodeToString(sum[:])

	rec := ts.api.Post("/api/v1/dialogs/"+opened.ID+"/image", map[string]any{"path": "query.png"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	env := decodeEnvelope[service.AcceptResult](t, rec)
	assert.Equal(t, "md5:"+hash+" cat rating:general", env.Data.Query)
	require.NotNil(t, env.Data.Image)
	assert.Equal(t, hash, env.Data.Image.MD5)
	assert.Equal(t, "png", env.Data.Image.Info.Format)
}

func TestDialog_AcceptImageMissingFile(t *testing.T) {
	ts := setupTestServer(t, Options{})
	opened := openDialog(t, ts, "cat")

	rec := ts.api.Post("/api/v1/dialogs/"+opened.ID+"/image", map[string]any{"path": "missing.png"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	env := decodeEnvelope[service.AcceptResult](t, rec)
	assert.Equal(t, "cat", env.Data.Query)
	assert.Nil(t, env.Data.Image)
}

func TestDialog_AcceptImageData(t *testing.T) {
	ts := setupTestServer(t, Options{})
	opened := openDialog(t, ts, "")

	data := testPNG(t)
	sum := md5.Sum(data)

	rec := ts.api.Post("/api/v1/dialogs/"+opened.ID+"/image", map[string]any{"data": data})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	env := decodeEnvelope[service.AcceptResult](t, rec)
	assert.Equal(t, "md5:"+hex.EncodeToString(sum[:]), env.Data.Query)
}

func TestDialog_AcceptImageNothingPicked(t *testing.T) {
	ts := setupTestServer(t, Options{})
	opened := openDialog(t, ts, "cat")

	rec := ts.api.Post("/api/v1/dialogs/"+opened.ID+"/image", map[string]any{})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	env := decodeEnvelope[service.AcceptResult](t, rec)
	assert.Equal(t, "cat", env.Data.Query)
	assert.Nil(t, env.Data.Image)

	rec = ts.api.Get("/api/v1/dialogs/" + opened.ID)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDialog_AcceptImageRejectsNonImage(t *testing.T) {
	ts := setupTestServer(t, Options{})
	opened := openDialog(t, ts, "cat")
	require.NoError(t, os.WriteFile(filepath.Join(ts.savePath, "notes.txt"), []byte("hi"), 0o644))

	rec := ts.api.Post("/api/v1/dialogs/"+opened.ID+"/image", map[string]any{"path": "notes.txt"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// A rejected request leaves the dialog open.
	rec = ts.api.Get("/api/v1/dialogs/" + opened.ID)
	assert.Equal(t, http.StatusOK, rec.Code)
}
