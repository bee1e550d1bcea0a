package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t, Options{})
	addTags(t, ts, "cat", "dog")

	rec := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	env := decodeEnvelope[HealthResponse](t, rec)
	assert.True(t, env.Success)
	assert.Equal(t, "healthy", env.Data.Status)
	assert.Equal(t, "healthy", env.Data.Components["database"].Status)
	assert.Equal(t, "2 tags indexed", env.Data.Components["search"].Message)
}

func TestHealthCheck_NoSearchIndex(t *testing.T) {
	ts := setupTestServer(t, Options{})
	ts.services.Search = nil

	rec := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope[HealthResponse](t, rec)
	assert.Equal(t, "degraded", env.Data.Status)
	assert.Equal(t, "degraded", env.Data.Components["search"].Status)
}
