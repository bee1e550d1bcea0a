package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/booruapp/tagsearch-server/internal/domain"
	"github.com/booruapp/tagsearch-server/internal/search"
	"github.com/booruapp/tagsearch-server/internal/store"
)

func (s *Server) registerTagRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "autocompleteTags",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags/autocomplete",
		Summary:     "Autocomplete tags",
		Description: "Completes the last word of the text being typed with known tags",
		Tags:        []string{"Tags"},
	}, s.handleAutocompleteTags)

	huma.Register(s.api, huma.Operation{
		OperationID: "listTags",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags",
		Summary:     "List tags",
		Description: "Returns known tags in byte order, one page at a time",
		Tags:        []string{"Tags"},
	}, s.handleListTags)

	huma.Register(s.api, huma.Operation{
		OperationID:   "addTags",
		Method:        http.MethodPost,
		Path:          "/api/v1/tags",
		Summary:       "Add tags",
		Description:   "Adds tags to the autocomplete vocabulary",
		Tags:          []string{"Tags"},
		DefaultStatus: http.StatusCreated,
	}, s.handleAddTags)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteTag",
		Method:        http.MethodDelete,
		Path:          "/api/v1/tags/{name}",
		Summary:       "Delete tag",
		Description:   "Removes a tag from the autocomplete vocabulary",
		Tags:          []string{"Tags"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteTag)
}

// === DTOs ===

// AutocompleteInput contains parameters for autocompletion.
type AutocompleteInput struct {
	Q     string `query:"q" maxLength:"8192" doc:"Text being typed; its last word is completed"`
	Limit int    `query:"limit" minimum:"0" maximum:"100" default:"10" doc:"Maximum suggestions"`
}

// AutocompleteOutput wraps the suggestions for Huma.
type AutocompleteOutput struct {
	Body *search.SuggestResult
}

// TagResponse contains tag data in API responses.
type TagResponse struct {
	Name      string    `json:"name" doc:"Tag name"`
	Source    string    `json:"source" doc:"user or dictionary"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
}

// ListTagsInput contains pagination parameters for listing tags.
type ListTagsInput struct {
	Limit  int    `query:"limit" minimum:"0" maximum:"1000" default:"100" doc:"Tags per page"`
	Cursor string `query:"cursor" doc:"Cursor from the previous page"`
}

// ListTagsResponse contains a list of tags.
type ListTagsResponse struct {
	Tags       []TagResponse `json:"tags" doc:"List of tags"`
	NextCursor string        `json:"next_cursor,omitempty" doc:"Cursor for the next page"`
	HasMore    bool          `json:"has_more" doc:"Whether more tags follow"`
}

// ListTagsOutput wraps the list tags response for Huma.
type ListTagsOutput struct {
	Body ListTagsResponse
}

// AddTagsRequest is the request body for adding tags.
type AddTagsRequest struct {
	Tags []string `json:"tags" minItems:"1" maxItems:"1000" doc:"Tag names; spaces become underscores"`
}

// AddTagsInput wraps the add tags request for Huma.
type AddTagsInput struct {
	Body AddTagsRequest
}

// DeleteTagInput contains parameters for deleting a tag.
type DeleteTagInput struct {
	Name string `path:"name" doc:"Tag name"`
}

// === Handlers ===

func (s *Server) handleAutocompleteTags(ctx context.Context, input *AutocompleteInput) (*AutocompleteOutput, error) {
	result, err := s.services.Tags.Suggest(ctx, input.Q, input.Limit)
	if err != nil {
		return nil, err
	}
	return &AutocompleteOutput{Body: result}, nil
}

func (s *Server) handleListTags(ctx context.Context, input *ListTagsInput) (*ListTagsOutput, error) {
	page, err := s.services.Tags.List(ctx, store.PageParams{Limit: input.Limit, Cursor: input.Cursor})
	if err != nil {
		return nil, err
	}
	return &ListTagsOutput{
		Body: ListTagsResponse{
			Tags:       tagResponses(page.Items),
			NextCursor: page.NextCursor,
			HasMore:    page.HasMore,
		},
	}, nil
}

func (s *Server) handleAddTags(ctx context.Context, input *AddTagsInput) (*ListTagsOutput, error) {
	tags, err := s.services.Tags.Add(ctx, input.Body.Tags...)
	if err != nil {
		return nil, err
	}
	return &ListTagsOutput{Body: ListTagsResponse{Tags: tagResponses(tags)}}, nil
}

func (s *Server) handleDeleteTag(ctx context.Context, input *DeleteTagInput) (*struct{}, error) {
	if err := s.services.Tags.Remove(ctx, input.Name); err != nil {
		return nil, err
	}
	return nil, nil
}

func tagResponses(tags []*domain.Tag) []TagResponse {
	out := make([]TagResponse, len(tags))
	for i, t := range tags {
		out[i] = TagResponse{
			Name:      t.Name,
			Source:    string(t.Source),
			CreatedAt: t.CreatedAt,
		}
	}
	return out
}
