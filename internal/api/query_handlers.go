package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/booruapp/tagsearch-server/internal/dialog"
	domainerrors "github.com/booruapp/tagsearch-server/internal/errors"
	"github.com/booruapp/tagsearch-server/internal/media/images"
	"github.com/booruapp/tagsearch-server/internal/query"
)

func (s *Server) registerQueryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "decomposeQuery",
		Method:      http.MethodPost,
		Path:        "/api/v1/query/decompose",
		Summary:     "Decompose query",
		Description: "Splits a raw query string into tags and order, rating, status and date filters",
		Tags:        []string{"Query"},
	}, s.handleDecompose)

	huma.Register(s.api, huma.Operation{
		OperationID: "composeQuery",
		Method:      http.MethodPost,
		Path:        "/api/v1/query/compose",
		Summary:     "Compose query",
		Description: "Builds a raw query string from tags and filters",
		Tags:        []string{"Query"},
	}, s.handleCompose)

	huma.Register(s.api, huma.Operation{
		OperationID: "getQueryOptions",
		Method:      http.MethodGet,
		Path:        "/api/v1/query/options",
		Summary:     "Form options",
		Description: "Returns combo box options, the calendar range and localized labels",
		Tags:        []string{"Query"},
	}, s.handleOptions)
}

// === DTOs ===

// DecomposeRequest is the request body for decomposing a query.
type DecomposeRequest struct {
	Query string `json:"query" maxLength:"8192" doc:"Raw query string"`
}

// DecomposeInput wraps the decompose request for Huma.
type DecomposeInput struct {
	Body DecomposeRequest
}

// DecomposeResponse holds a decomposed query and the matching form state.
type DecomposeResponse struct {
	Query query.Query `json:"query" doc:"Structured query"`
	Form  dialog.Form `json:"form" doc:"Form state with combo indices (0 = unset)"`
}

// DecomposeOutput wraps the decompose response for Huma.
type DecomposeOutput struct {
	Body DecomposeResponse
}

// ComposeRequest is the request body for composing a query.
type ComposeRequest struct {
	Tags        string `json:"tags,omitempty" maxLength:"8192" doc:"Free tag text"`
	Order       string `json:"order,omitempty" doc:"Order value, e.g. score"`
	Rating      string `json:"rating,omitempty" doc:"Whole rating token, e.g. -rating:safe"`
	Status      string `json:"status,omitempty" doc:"Status value, e.g. active"`
	Date        string `json:"date,omitempty" doc:"Date filter value, kept verbatim"`
	ExtraPrefix string `json:"extra_prefix,omitempty" doc:"Text placed before everything else, e.g. md5:<hash>"`
}

// ComposeInput wraps the compose request for Huma.
type ComposeInput struct {
	Body ComposeRequest
}

// QueryResponse holds a generated query string.
type QueryResponse struct {
	Query string `json:"query" doc:"Generated query string"`
}

// QueryOutput wraps a generated query for Huma.
type QueryOutput struct {
	Body QueryResponse
}

// OptionsInput contains parameters for the options request.
type OptionsInput struct {
	Lang string `query:"lang" doc:"Label language; defaults to the language preference"`
}

// OptionsResponse holds everything needed to render the search form.
type OptionsResponse struct {
	Combos   dialog.ComboOptions `json:"combos" doc:"Combo box options"`
	Calendar dialog.Calendar     `json:"calendar" doc:"Selectable date range"`
	Labels   dialog.Labels       `json:"labels" doc:"Localized labels"`
}

// OptionsOutput wraps the options response for Huma.
type OptionsOutput struct {
	Body OptionsResponse
}

// === Handlers ===

func (s *Server) handleDecompose(_ context.Context, input *DecomposeInput) (*DecomposeOutput, error) {
	q := query.Decompose(input.Body.Query)
	return &DecomposeOutput{
		Body: DecomposeResponse{Query: q, Form: dialog.FromQuery(q)},
	}, nil
}

func (s *Server) handleCompose(_ context.Context, input *ComposeInput) (*QueryOutput, error) {
	q, err := input.Body.toQuery()
	if err != nil {
		return nil, err
	}
	return &QueryOutput{
		Body: QueryResponse{Query: query.Compose(q, input.Body.ExtraPrefix)},
	}, nil
}

func (s *Server) handleOptions(ctx context.Context, input *OptionsInput) (*OptionsOutput, error) {
	locale := dialog.Locale(input.Lang)
	if input.Lang == "" {
		var err error
		if locale, err = s.services.Preferences.Locale(ctx); err != nil {
			return nil, err
		}
	}

	return &OptionsOutput{
		Body: OptionsResponse{
			Combos:   dialog.Options(),
			Calendar: dialog.NewCalendar(s.now(), ""),
			Labels:   dialog.LabelsFor(locale, images.FilterPatterns()),
		},
	}, nil
}

// toQuery checks filter values against their vocabularies. Unlike Decompose,
// which silently drops unknown tokens, an explicit unknown value is a client error.
func (r ComposeRequest) toQuery() (query.Query, error) {
	q := query.Query{Tags: r.Tags, Date: r.Date}
	invalid := map[string]string{}

	if r.Order != "" {
		if v, ok := query.ParseOrder(r.Order); ok {
			q.Order = v
		} else {
			invalid["order"] = "unknown order " + r.Order
		}
	}
	if r.Rating != "" {
		if v, ok := query.ParseRating(r.Rating); ok {
			q.Rating = v
		} else {
			invalid["rating"] = "unknown rating " + r.Rating
		}
	}
	if r.Status != "" {
		if v, ok := query.ParseStatus(r.Status); ok {
			q.Status = v
		} else {
			invalid["status"] = "unknown status " + r.Status
		}
	}

	if len(invalid) > 0 {
		return query.Query{}, domainerrors.ValidationWithDetails("validation failed", invalid)
	}
	return q, nil
}
