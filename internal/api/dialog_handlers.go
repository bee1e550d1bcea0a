package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/booruapp/tagsearch-server/internal/dialog"
	"github.com/booruapp/tagsearch-server/internal/domain"
	domainerrors "github.com/booruapp/tagsearch-server/internal/errors"
	"github.com/booruapp/tagsearch-server/internal/service"
)

func (s *Server) registerDialogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "openDialog",
		Method:        http.MethodPost,
		Path:          "/api/v1/dialogs",
		Summary:       "Open dialog",
		Description:   "Opens a search dialog pre-populated from a tag string",
		Tags:          []string{"Dialogs"},
		DefaultStatus: http.StatusCreated,
	}, s.handleOpenDialog)

	huma.Register(s.api, huma.Operation{
		OperationID: "getDialog",
		Method:      http.MethodGet,
		Path:        "/api/v1/dialogs/{id}",
		Summary:     "Get dialog",
		Description: "Returns the form state of an open dialog",
		Tags:        []string{"Dialogs"},
	}, s.handleGetDialog)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateDialog",
		Method:      http.MethodPatch,
		Path:        "/api/v1/dialogs/{id}",
		Summary:     "Update dialog",
		Description: "Changes form fields of an open dialog",
		Tags:        []string{"Dialogs"},
	}, s.handleUpdateDialog)

	huma.Register(s.api, huma.Operation{
		OperationID: "selectDialogDate",
		Method:      http.MethodPost,
		Path:        "/api/v1/dialogs/{id}/date",
		Summary:     "Select date",
		Description: "Records a calendar selection in the date field",
		Tags:        []string{"Dialogs"},
	}, s.handleSelectDate)

	huma.Register(s.api, huma.Operation{
		OperationID: "acceptDialog",
		Method:      http.MethodPost,
		Path:        "/api/v1/dialogs/{id}/accept",
		Summary:     "Accept dialog",
		Description: "Generates the query string and closes the dialog",
		Tags:        []string{"Dialogs"},
	}, s.handleAcceptDialog)

	huma.Register(s.api, huma.Operation{
		OperationID:  "acceptDialogImage",
		Method:       http.MethodPost,
		Path:         "/api/v1/dialogs/{id}/image",
		Summary:      "Search by image",
		Description:  "Hashes an image, then generates the query with its md5 prefix and closes the dialog",
		Tags:         []string{"Dialogs"},
		MaxBodyBytes: s.uploadBodyLimit(),
	}, s.handleAcceptDialogImage)

	huma.Register(s.api, huma.Operation{
		OperationID:   "cancelDialog",
		Method:        http.MethodDelete,
		Path:          "/api/v1/dialogs/{id}",
		Summary:       "Cancel dialog",
		Description:   "Closes the dialog without generating a query",
		Tags:          []string{"Dialogs"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleCancelDialog)
}

// === DTOs ===

// OpenDialogRequest is the request body for opening a dialog.
type OpenDialogRequest struct {
	Tags string `json:"tags,omitempty" maxLength:"8192" doc:"Current tag string"`
}

// OpenDialogInput wraps the open dialog request for Huma.
type OpenDialogInput struct {
	Body OpenDialogRequest `required:"false"`
}

// DialogIDInput contains the dialog ID path parameter.
type DialogIDInput struct {
	ID string `path:"id" doc:"Dialog ID"`
}

// DialogResponse contains dialog data in API responses.
type DialogResponse struct {
	ID        string          `json:"id" doc:"Dialog ID"`
	Source    string          `json:"source" doc:"Tag string the dialog was opened with"`
	Form      dialog.Form     `json:"form" doc:"Form state with combo indices (0 = unset)"`
	Preview   string          `json:"preview" doc:"Query the form would generate now"`
	Calendar  dialog.Calendar `json:"calendar" doc:"Date picker state"`
	CreatedAt time.Time       `json:"created_at" doc:"Creation time"`
	ExpiresAt time.Time       `json:"expires_at" doc:"Time the dialog is discarded if left open"`
}

// DialogOutput wraps the dialog response for Huma.
type DialogOutput struct {
	Body DialogResponse
}

// UpdateDialogRequest is the request body for updating a dialog.
type UpdateDialogRequest struct {
	Tags        *string `json:"tags,omitempty" maxLength:"8192" doc:"Free tag text"`
	OrderIndex  *int    `json:"order_index,omitempty" doc:"Order combo index, 0 = unset"`
	RatingIndex *int    `json:"rating_index,omitempty" doc:"Rating combo index, 0 = unset"`
	StatusIndex *int    `json:"status_index,omitempty" doc:"Status combo index, 0 = unset"`
	Date        *string `json:"date,omitempty" doc:"Date field text, MM/DD/YYYY"`
}

// UpdateDialogInput wraps the update dialog request for Huma.
type UpdateDialogInput struct {
	ID   string `path:"id" doc:"Dialog ID"`
	Body UpdateDialogRequest
}

// SelectDateRequest is the request body for a calendar selection.
type SelectDateRequest struct {
	Date string `json:"date" format:"date" doc:"Selected day, YYYY-MM-DD"`
}

// SelectDateInput wraps the select date request for Huma.
type SelectDateInput struct {
	ID   string `path:"id" doc:"Dialog ID"`
	Body SelectDateRequest
}

// AcceptDialogRequest is the request body for accepting a dialog.
type AcceptDialogRequest struct {
	ExtraPrefix string `json:"extra_prefix,omitempty" doc:"Text placed before the generated query"`
}

// AcceptDialogInput wraps the accept dialog request for Huma.
type AcceptDialogInput struct {
	ID   string              `path:"id" doc:"Dialog ID"`
	Body AcceptDialogRequest `required:"false"`
}

// AcceptImageRequest is the request body for an image search.
// Data wins when both are set; neither means nothing was picked.
type AcceptImageRequest struct {
	Path string `json:"path,omitempty" doc:"Image path; relative paths start in the save path preference"`
	Data []byte `json:"data,omitempty" doc:"Base64 encoded image"`
}

// AcceptImageInput wraps the image search request for Huma.
type AcceptImageInput struct {
	ID   string             `path:"id" doc:"Dialog ID"`
	Body AcceptImageRequest `required:"false"`
}

// AcceptOutput wraps the accept result for Huma.
type AcceptOutput struct {
	Body *service.AcceptResult
}

// === Handlers ===

func (s *Server) handleOpenDialog(ctx context.Context, input *OpenDialogInput) (*DialogOutput, error) {
	session, err := s.services.Dialogs.Open(ctx, input.Body.Tags)
	if err != nil {
		return nil, err
	}
	return &DialogOutput{Body: s.dialogResponse(session)}, nil
}

func (s *Server) handleGetDialog(ctx context.Context, input *DialogIDInput) (*DialogOutput, error) {
	session, err := s.services.Dialogs.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &DialogOutput{Body: s.dialogResponse(session)}, nil
}

func (s *Server) handleUpdateDialog(ctx context.Context, input *UpdateDialogInput) (*DialogOutput, error) {
	session, err := s.services.Dialogs.Update(ctx, input.ID, &service.FormUpdate{
		Tags:        input.Body.Tags,
		OrderIndex:  input.Body.OrderIndex,
		RatingIndex: input.Body.RatingIndex,
		StatusIndex: input.Body.StatusIndex,
		Date:        input.Body.Date,
	})
	if err != nil {
		return nil, err
	}
	return &DialogOutput{Body: s.dialogResponse(session)}, nil
}

func (s *Server) handleSelectDate(ctx context.Context, input *SelectDateInput) (*DialogOutput, error) {
	day, err := time.Parse(time.DateOnly, input.Body.Date)
	if err != nil {
		return nil, domainerrors.Validationf("date %q is not YYYY-MM-DD", input.Body.Date)
	}

	session, err := s.services.Dialogs.SelectDate(ctx, input.ID, day)
	if err != nil {
		return nil, err
	}
	return &DialogOutput{Body: s.dialogResponse(session)}, nil
}

func (s *Server) handleAcceptDialog(ctx context.Context, input *AcceptDialogInput) (*AcceptOutput, error) {
	result, err := s.services.Dialogs.Accept(ctx, input.ID, input.Body.ExtraPrefix)
	if err != nil {
		return nil, err
	}
	return &AcceptOutput{Body: result}, nil
}

func (s *Server) handleAcceptDialogImage(ctx context.Context, input *AcceptImageInput) (*AcceptOutput, error) {
	var (
		result *service.AcceptResult
		err    error
	)
	switch {
	case len(input.Body.Data) > 0:
		result, err = s.services.Dialogs.AcceptImageData(ctx, input.ID, input.Body.Data)
	default:
		// An empty path means nothing was picked: accept without a prefix.
		result, err = s.services.Dialogs.AcceptImage(ctx, input.ID, input.Body.Path)
	}
	if err != nil {
		return nil, err
	}
	return &AcceptOutput{Body: result}, nil
}

func (s *Server) handleCancelDialog(ctx context.Context, input *DialogIDInput) (*struct{}, error) {
	if err := s.services.Dialogs.Cancel(ctx, input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Server) dialogResponse(session *domain.DialogSession) DialogResponse {
	return DialogResponse{
		ID:        session.ID,
		Source:    session.Source,
		Form:      session.Form,
		Preview:   session.Form.Generate(""),
		Calendar:  s.services.Dialogs.Calendar(session),
		CreatedAt: session.CreatedAt,
		ExpiresAt: session.ExpiresAt,
	}
}

// uploadBodyLimit allows for base64 growth of the largest accepted image.
func (s *Server) uploadBodyLimit() int64 {
	if s.opts.MaxUploadBytes <= 0 {
		return 0
	}
	return s.opts.MaxUploadBytes/3*4 + 64*1024
}
