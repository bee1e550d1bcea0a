package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/booruapp/tagsearch-server/internal/dialog"
	"github.com/booruapp/tagsearch-server/internal/query"
)

func TestDecompose(t *testing.T) {
	ts := setupTestServer(t, Options{})

	rec := ts.api.Post("/api/v1/query/decompose", map[string]any{
		"query": "cat order:score rating:safe status:active date:01/02/2024",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	env := decodeEnvelope[DecomposeResponse](t, rec)
	assert.True(t, env.Success)
	assert.Equal(t, "cat", strings.TrimSpace(env.Data.Query.Tags))
	assert.Equal(t, query.OrderScore, env.Data.Query.Order)
	assert.Equal(t, query.RatingSafe, env.Data.Query.Rating)
	assert.Equal(t, query.StatusActive, env.Data.Query.Status)
	assert.Equal(t, "01/02/2024", env.Data.Query.Date)

	assert.Equal(t, 4, env.Data.Form.OrderIndex)
	assert.Equal(t, 3, env.Data.Form.RatingIndex)
	assert.Equal(t, 2, env.Data.Form.StatusIndex)
}

func TestDecompose_UnknownValuesDropped(t *testing.T) {
	ts := setupTestServer(t, Options{})

	rec := ts.api.Post("/api/v1/query/decompose", map[string]any{"query": "cat order:bogus"})
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope[DecomposeResponse](t, rec)
	assert.Equal(t, "cat ", env.Data.Query.Tags)
	assert.False(t, env.Data.Query.Order.IsSet())
	assert.Equal(t, 0, env.Data.Form.OrderIndex)
}

func TestCompose(t *testing.T) {
	ts := setupTestServer(t, Options{})

	tests := []struct {
		name string
		body map[string]any
		want string
	}{
		{
			name: "all segments",
			body: map[string]any{
				"tags":         "cat",
				"order":        "score",
				"rating":       "-rating:explicit",
				"status":       "active",
				"date":         "01/02/2024",
				"extra_prefix": "md5:abc",
			},
			want: "md5:abc cat status:active order:score -rating:explicit date:01/02/2024",
		},
		{
			name: "tags only",
			body: map[string]any{"tags": "long_hair"},
			want: "long_hair",
		},
		{
			name: "nothing set",
			body: map[string]any{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.api.Post("/api/v1/query/compose", tt.body)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			env := decodeEnvelope[QueryResponse](t, rec)
			assert.Equal(t, tt.want, env.Data.Query)
		})
	}
}

func TestCompose_UnknownValueRejected(t *testing.T) {
	ts := setupTestServer(t, Options{})

	rec := ts.api.Post("/api/v1/query/compose", map[string]any{"tags": "cat", "order": "random"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope[any](t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, "VALIDATION", env.Code)
	assert.Equal(t, map[string]any{"order": "unknown order random"}, env.Details)
}

func TestOptions(t *testing.T) {
	ts := setupTestServer(t, Options{})

	rec := ts.api.Get("/api/v1/query/options?lang=fr")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	env := decodeEnvelope[OptionsResponse](t, rec)
	require.Len(t, env.Data.Combos.Orders, len(query.Orders())+1)
	assert.Equal(t, dialog.UnsetLabel, env.Data.Combos.Orders[0].Label)
	assert.Equal(t, "id", env.Data.Combos.Orders[1].Value)
	assert.Len(t, env.Data.Combos.Ratings, len(query.Ratings())+1)
	assert.Len(t, env.Data.Combos.Statuses, len(query.Statuses())+1)

	assert.Equal(t, "fr", env.Data.Labels.Locale)
	assert.Equal(t, "Choisir une date", env.Data.Labels.ChooseDate)
	assert.Equal(t, "French", env.Data.Labels.Language)
	assert.True(t, env.Data.Calendar.Max.After(env.Data.Calendar.Min))
}

func TestOptions_UsesLanguagePreference(t *testing.T) {
	ts := setupTestServer(t, Options{})

	rec := ts.api.Patch("/api/v1/preferences", map[string]any{"language": "French"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.api.Get("/api/v1/query/options")
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope[OptionsResponse](t, rec)
	assert.Equal(t, "fr", env.Data.Labels.Locale)
	assert.Equal(t, "Annuler", env.Data.Labels.Cancel)
}
