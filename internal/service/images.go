package service

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	domainerrors "github.com/booruapp/tagsearch-server/internal/errors"
	"github.com/booruapp/tagsearch-server/internal/media/images"
)

// ImageService hashes query images for reverse lookups.
type ImageService struct {
	processor   *images.Processor
	preferences *PreferencesService
	maxBytes    int64
	logger      *slog.Logger
}

// NewImageService creates a new image service. Uploads larger than maxBytes are rejected.
func NewImageService(processor *images.Processor, preferences *PreferencesService, maxBytes int64, logger *slog.Logger) *ImageService {
	return &ImageService{
		processor:   processor,
		preferences: preferences,
		maxBytes:    maxBytes,
		logger:      logger,
	}
}

// HashUpload validates and hashes uploaded image bytes.
func (s *ImageService) HashUpload(ctx context.Context, data []byte) (*images.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, domainerrors.Validation("image data is required")
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return nil, domainerrors.TooLargef("image is %d bytes, limit is %d", len(data), s.maxBytes)
	}

	if _, err := images.Inspect(data); err != nil {
		return nil, domainerrors.Validation("not a supported image").WithCause(err)
	}

	result, err := s.processor.Process(data)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "process image")
	}
	return result, nil
}

// HashPath hashes the image at path. Relative paths are resolved against the
// save path preference. An empty path (nothing picked) or a file that does not
// exist yields an empty result, which callers turn into a search without an
// md5 prefix. The picker filter applies only to files that exist.
func (s *ImageService) HashPath(ctx context.Context, path string) (*images.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if path == "" {
		return &images.Result{}, nil
	}

	base, err := s.preferences.SavePath(ctx)
	if err != nil {
		return nil, err
	}
	resolved := images.ResolvePath(base, path)

	if _, err := os.Stat(resolved); errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug("image file not found, searching without hash", "path", resolved)
		return &images.Result{}, nil
	}
	if !images.AllowedExtension(resolved) {
		return nil, domainerrors.ValidationWithDetails("unsupported image type",
			map[string]string{"path": "must match " + images.FilterPatterns()})
	}

	result, err := s.processor.ProcessFile(resolved)
	if errors.Is(err, images.ErrNotImage) {
		return nil, domainerrors.Validation("not a supported image").WithCause(err)
	}
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "hash image")
	}

	s.logger.Debug("hashed image file", "path", resolved, "md5", result.MD5)
	return result, nil
}
