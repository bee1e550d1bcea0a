package api

import (
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/booruapp/tagsearch-server/internal/errors"
	"github.com/booruapp/tagsearch-server/internal/http/response"
)

// EnvelopeTransformer wraps every huma response body in the response envelope.
// Errors become response.ErrorEnvelope, everything else response.Envelope.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	switch body := v.(type) {
	case response.Envelope, response.ErrorEnvelope:
		return v, nil
	case *APIError:
		return response.WrapError(domainerrors.Code(body.Code), body.Message, body.Details), nil
	case *domainerrors.Error:
		return response.WrapError(body.Code, body.Message, body.Details), nil
	case error:
		code, _ := strconv.Atoi(status)
		return response.WrapError(domainerrors.Code(statusToCode(code)), body.Error(), nil), nil
	}
	return response.Wrap(v), nil
}
