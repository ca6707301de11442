package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/verbum/internal/core/domain"
	"github.com/custodia-labs/verbum/internal/core/ports/driven"
	"github.com/custodia-labs/verbum/internal/core/ports/driving"
	"github.com/custodia-labs/verbum/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService loads document text through an extractor, memoising
// the result by absolute path.
type DocumentService struct {
	extractor driven.TextExtractor
	cache     driven.ExtractionCache
	pipeline  driven.PostProcessorPipeline
}

// NewDocumentService creates a document service. cache is optional.
func NewDocumentService(extractor driven.TextExtractor, cache driven.ExtractionCache) *DocumentService {
	return &DocumentService{extractor: extractor, cache: cache}
}

// SetPipeline enables Chunks.
func (s *DocumentService) SetPipeline(pipeline driven.PostProcessorPipeline) {
	s.pipeline = pipeline
}

// DocumentID derives a stable document identifier from an absolute path.
func DocumentID(absPath string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+absPath)).String()
}

// textID derives a session identifier for raw document text.
func textID(text string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(text)).String()
}

// Load returns the document at path, extracting its text on a cache miss.
func (s *DocumentService) Load(ctx context.Context, path string) (*domain.Document, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: empty document path", domain.ErrInvalidInput)
	}
	if s.extractor == nil {
		return nil, fmt.Errorf("%w: no text extractor configured", domain.ErrUnsupportedFormat)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	text, err := s.text(ctx, abs)
	if err != nil {
		return nil, err
	}

	return &domain.Document{
		ID:      DocumentID(abs),
		Path:    abs,
		Title:   firstLine(text),
		Content: text,
	}, nil
}

func (s *DocumentService) text(ctx context.Context, abs string) (string, error) {
	if s.cache != nil {
		text, ok, err := s.cache.Get(ctx, abs)
		switch {
		case err != nil:
			logger.Warn("extraction cache read failed for %s: %v", abs, err)
		case ok:
			logger.Debug("extraction cache hit: %s", abs)
			return text, nil
		}
	}

	if !s.extractor.Supports(abs) {
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, filepath.Ext(abs))
	}

	text, err := s.extractor.Extract(ctx, abs)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", abs, err)
	}
	logger.Debug("extracted %d bytes from %s", len(text), abs)

	if s.cache != nil {
		if err := s.cache.Put(ctx, abs, text); err != nil {
			logger.Warn("extraction cache write failed for %s: %v", abs, err)
		}
	}
	return text, nil
}

// Chunks loads the document at path and runs it through the chunk pipeline.
func (s *DocumentService) Chunks(ctx context.Context, path string) ([]domain.Chunk, error) {
	if s.pipeline == nil {
		return nil, fmt.Errorf("%w: no chunk pipeline configured", domain.ErrConfig)
	}
	doc, err := s.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	chunks, err := s.pipeline.Process(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("chunk %s: %w", doc.Path, err)
	}
	return chunks, nil
}

// Invalidate drops the cached text for path.
func (s *DocumentService) Invalidate(ctx context.Context, path string) error {
	if s.cache == nil {
		return nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	if err := s.cache.Delete(ctx, abs); err != nil {
		return fmt.Errorf("invalidate %s: %w", abs, err)
	}
	logger.Debug("extraction cache invalidated: %s", abs)
	return nil
}

func firstLine(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	return strings.TrimSpace(text)
}
