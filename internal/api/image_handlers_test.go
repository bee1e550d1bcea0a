package api

import (
	"crypto/md5"
	"encoding/hex"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/booruapp/tagsearch-server/internal/media/images"
)

func TestHashImage(t *testing.T) {
	ts := setupTestServer(t, Options{})
	data := testPNG(t)
	sum := md5.Sum(data)
	hash := hex.EncodeToString(sum[:])

	rec := ts.api.Post("/api/v1/images/hash", map[string]any{"data": data})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	env := decodeEnvelope[images.Result](t, rec)
	assert.Equal(t, hash, env.Data.MD5)
	assert.Equal(t, "md5:"+hash, env.Data.Prefix)
	assert.Equal(t, "png", env.Data.Info.Format)
	assert.Equal(t, 8, env.Data.Info.Width)
	assert.NotEmpty(t, env.Data.BlurHash)
}

func TestHashImage_Rejected(t *testing.T) {
	ts := setupTestServer(t, Options{MaxUploadBytes: 16})

	tests := []struct {
		name   string
		data   []byte
		status int
		code   string
	}{
		{"not an image", []byte("plain text"), http.StatusBadRequest, "VALIDATION"},
		{"too large", testPNG(t), http.StatusRequestEntityTooLarge, "TOO_LARGE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.api.Post("/api/v1/images/hash", map[string]any{"data": tt.data})
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			env := decodeEnvelope[any](t, rec)
			assert.Equal(t, tt.code, env.Code)
		})
	}
}
