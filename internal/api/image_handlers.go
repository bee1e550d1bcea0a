package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/booruapp/tagsearch-server/internal/media/images"
)

func (s *Server) registerImageRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:  "hashImage",
		Method:       http.MethodPost,
		Path:         "/api/v1/images/hash",
		Summary:      "Hash image",
		Description:  "Returns the md5 reverse search prefix, format, size and blurhash of an uploaded image",
		Tags:         []string{"Images"},
		MaxBodyBytes: s.uploadBodyLimit(),
	}, s.handleHashImage)
}

// HashImageRequest is the request body for hashing an image.
type HashImageRequest struct {
	Data []byte `json:"data" doc:"Base64 encoded image"`
}

// HashImageInput wraps the hash image request for Huma.
type HashImageInput struct {
	Body HashImageRequest
}

// HashImageOutput wraps the hash result for Huma.
type HashImageOutput struct {
	Body *images.Result
}

func (s *Server) handleHashImage(ctx context.Context, input *HashImageInput) (*HashImageOutput, error) {
	result, err := s.services.Images.HashUpload(ctx, input.Body.Data)
	if err != nil {
		return nil, err
	}
	return &HashImageOutput{Body: result}, nil
}
