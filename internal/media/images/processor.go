package images

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
)

// Result describes a processed query image.
type Result struct {
	MD5      string    `json:"md5"`
	Prefix   string    `json:"prefix"`
	Info     ImageInfo `json:"info"`
	BlurHash string    `json:"blur_hash,omitempty"`
}

// Processor validates, hashes and stores images submitted for reverse lookup.
type Processor struct {
	storage *Storage
	logger  *slog.Logger
}

// NewProcessor creates a new Processor. storage may be nil, in which case
// images are hashed but not kept.
func NewProcessor(storage *Storage, logger *slog.Logger) *Processor {
	return &Processor{
		storage: storage,
		logger:  logger,
	}
}

// Process inspects data, computes its MD5 and placeholder, and stores it.
// Returns an error if data is empty or not a supported image.
func (p *Processor) Process(data []byte) (*Result, error) {
	result, err := p.analyze(data)
	if err != nil {
		return nil, err
	}

	if p.storage != nil {
		if err := p.storage.Save(result.MD5, data); err != nil {
			return nil, fmt.Errorf("failed to store image: %w", err)
		}
	}

	p.logger.Debug("processed query image",
		"md5", result.MD5,
		"format", result.Info.Format,
		"width", result.Info.Width,
		"height", result.Info.Height,
	)

	return result, nil
}

// ProcessFile analyzes the file at path like Process, without storing it.
// A missing file or an empty path yields an empty result with no error.
func (p *Processor) ProcessFile(path string) (*Result, error) {
	if path == "" {
		return &Result{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			p.logger.Debug("image file not found, searching without hash", "path", path)
			return &Result{}, nil
		}
		return nil, fmt.Errorf("read image: %w", err)
	}

	return p.analyze(data)
}

// analyze validates data and fills in everything but storage.
func (p *Processor) analyze(data []byte) (*Result, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: image data cannot be empty", ErrNotImage)
	}

	info, err := Inspect(data)
	if err != nil {
		return nil, err
	}

	hash := HashBytes(data)
	result := &Result{
		MD5:    hash,
		Prefix: Prefix(hash),
		Info:   info,
	}

	// The placeholder is cosmetic; a failure here does not fail the lookup.
	if bh, err := ComputeBlurHash(data); err != nil {
		p.logger.Warn("failed to compute blurhash",
			"md5", hash,
			"error", err,
		)
	} else {
		result.BlurHash = bh
	}

	return result, nil
}
