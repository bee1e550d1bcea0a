package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/booruapp/tagsearch-server/internal/search"
)

func addTags(t *testing.T, ts *testServer, names ...string) ListTagsResponse {
	t.Helper()

	rec := ts.api.Post("/api/v1/tags", map[string]any{"tags": names})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeEnvelope[ListTagsResponse](t, rec).Data
}

func tagNames(tags []TagResponse) []string {
	names := make([]string, len(tags))
	for i, tag := range tags {
		names[i] = tag.Name
	}
	return names
}

func TestTags_AddAndList(t *testing.T) {
	ts := setupTestServer(t, Options{})

	added := addTags(t, ts, "Long Hair", "cat")
	assert.ElementsMatch(t, []string{"Long_Hair", "cat"}, tagNames(added.Tags))
	for _, tag := range added.Tags {
		assert.Equal(t, "user", tag.Source)
	}

	rec := ts.api.Get("/api/v1/tags")
	require.Equal(t, http.StatusOK, rec.Code)
	listed := decodeEnvelope[ListTagsResponse](t, rec)
	assert.Equal(t, []string{"Long_Hair", "cat"}, tagNames(listed.Data.Tags))
}

func TestTags_ListPages(t *testing.T) {
	ts := setupTestServer(t, Options{})
	addTags(t, ts, "a", "b", "c")

	rec := ts.api.Get("/api/v1/tags?limit=2")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	first := decodeEnvelope[ListTagsResponse](t, rec).Data
	assert.Equal(t, []string{"a", "b"}, tagNames(first.Tags))
	require.True(t, first.HasMore)

	rec = ts.api.Get("/api/v1/tags?limit=2&cursor=" + first.NextCursor)
	require.Equal(t, http.StatusOK, rec.Code)
	second := decodeEnvelope[ListTagsResponse](t, rec).Data
	assert.Equal(t, []string{"c"}, tagNames(second.Tags))
	assert.False(t, second.HasMore)

	rec = ts.api.Get("/api/v1/tags?cursor=bogus!")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTags_AddRequiresNames(t *testing.T) {
	ts := setupTestServer(t, Options{})

	rec := ts.api.Post("/api/v1/tags", map[string]any{"tags": []string{}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	env := decodeEnvelope[any](t, rec)
	assert.Equal(t, "VALIDATION", env.Code)

	rec = ts.api.Post("/api/v1/tags", map[string]any{"tags": []string{"   "}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTags_Autocomplete(t *testing.T) {
	ts := setupTestServer(t, Options{})
	addTags(t, ts, "long_hair", "Long_Sleeves", "looking_at_viewer", "cat")

	rec := ts.api.Get("/api/v1/tags/autocomplete?q=cat%20lo&limit=2")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	env := decodeEnvelope[search.SuggestResult](t, rec)
	assert.Equal(t, "lo", env.Data.Prefix)
	assert.Equal(t, uint64(3), env.Data.Total)
	require.Len(t, env.Data.Suggestions, 2)
	// Byte order puts upper case first.
	assert.Equal(t, "Long_Sleeves", env.Data.Suggestions[0].Name)
	assert.Equal(t, "long_hair", env.Data.Suggestions[1].Name)
}

func TestTags_AutocompleteLimitBounds(t *testing.T) {
	ts := setupTestServer(t, Options{})

	rec := ts.api.Get("/api/v1/tags/autocomplete?q=a&limit=101")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestTags_Delete(t *testing.T) {
	ts := setupTestServer(t, Options{})
	addTags(t, ts, "cat", "dog")

	rec := ts.api.Delete("/api/v1/tags/cat")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.api.Get("/api/v1/tags/autocomplete?q=c")
	env := decodeEnvelope[search.SuggestResult](t, rec)
	assert.Empty(t, env.Data.Suggestions)

	rec = ts.api.Delete("/api/v1/tags/cat")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
