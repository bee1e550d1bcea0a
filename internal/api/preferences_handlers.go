package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/booruapp/tagsearch-server/internal/dialog"
	"github.com/booruapp/tagsearch-server/internal/domain"
	"github.com/booruapp/tagsearch-server/internal/service"
)

func (s *Server) registerPreferencesRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getPreferences",
		Method:      http.MethodGet,
		Path:        "/api/v1/preferences",
		Summary:     "Get preferences",
		Description: "Returns the language and save path preferences",
		Tags:        []string{"Preferences"},
	}, s.handleGetPreferences)

	huma.Register(s.api, huma.Operation{
		OperationID: "updatePreferences",
		Method:      http.MethodPatch,
		Path:        "/api/v1/preferences",
		Summary:     "Update preferences",
		Description: "Updates preferences; omitted fields are unchanged",
		Tags:        []string{"Preferences"},
	}, s.handleUpdatePreferences)
}

// PreferencesResponse contains preferences data in API responses.
type PreferencesResponse struct {
	Language  string    `json:"language" doc:"Interface language name or code"`
	Locale    string    `json:"locale" doc:"Locale used for labels"`
	SavePath  string    `json:"save_path" doc:"Directory the image picker opens in"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update time"`
}

// PreferencesOutput wraps the preferences response for Huma.
type PreferencesOutput struct {
	Body PreferencesResponse
}

// UpdatePreferencesRequest is the request body for updating preferences.
type UpdatePreferencesRequest struct {
	Language *string `json:"language,omitempty" doc:"Interface language, e.g. English or fr"`
	SavePath *string `json:"save_path,omitempty" doc:"Absolute directory path"`
}

// UpdatePreferencesInput wraps the update request for Huma.
type UpdatePreferencesInput struct {
	Body UpdatePreferencesRequest
}

func (s *Server) handleGetPreferences(ctx context.Context, _ *struct{}) (*PreferencesOutput, error) {
	prefs, err := s.services.Preferences.Get(ctx)
	if err != nil {
		return nil, err
	}
	return &PreferencesOutput{Body: preferencesResponse(prefs)}, nil
}

func (s *Server) handleUpdatePreferences(ctx context.Context, input *UpdatePreferencesInput) (*PreferencesOutput, error) {
	prefs, err := s.services.Preferences.Update(ctx, &service.PreferencesUpdate{
		Language: input.Body.Language,
		SavePath: input.Body.SavePath,
	})
	if err != nil {
		return nil, err
	}
	return &PreferencesOutput{Body: preferencesResponse(prefs)}, nil
}

func preferencesResponse(prefs *domain.Preferences) PreferencesResponse {
	return PreferencesResponse{
		Language:  prefs.Language,
		Locale:    dialog.Locale(prefs.Language).String(),
		SavePath:  prefs.SavePath,
		UpdatedAt: prefs.UpdatedAt,
	}
}
