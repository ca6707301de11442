// Package chunker splits document text into overlapping, sentence-aligned chunks.
package chunker

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/custodia-labs/verbum/internal/core/domain"
	"github.com/custodia-labs/verbum/internal/core/ports/driven"
	"github.com/custodia-labs/verbum/internal/logger"
)

// Ensure Processor implements the interface.
var _ driven.PostProcessor = (*Processor)(nil)

// Progress is reported after every batch of start offsets.
type Progress struct {
	Batch        int
	TotalBatches int
	Chunks       int
	Elapsed      time.Duration
}

// Processor splits text into chunks. Offsets and lengths count characters
// (runes), not bytes, so multi-byte text is never cut inside a character.
type Processor struct {
	chunkSize int
	overlap   int
	maxChunks int
	minLength int
	window    int
	batchSize int
	progress  func(Progress)
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the target chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		p.chunkSize = size
	}
}

// WithOverlap sets the overlap between consecutive start offsets.
// An overlap that is not smaller than the chunk size fails at Split time.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		p.overlap = overlap
	}
}

// WithMaxChunks caps the number of chunks produced.
func WithMaxChunks(n int) Option {
	return func(p *Processor) {
		p.maxChunks = n
	}
}

// WithMinLength sets the minimum trimmed length of a kept chunk.
func WithMinLength(n int) Option {
	return func(p *Processor) {
		if n >= 0 {
			p.minLength = n
		}
	}
}

// WithBoundaryWindow sets how far back from the naive end the splitter
// looks for a sentence terminator.
func WithBoundaryWindow(n int) Option {
	return func(p *Processor) {
		if n >= 0 {
			p.window = n
		}
	}
}

// WithBatchSize sets how many start offsets are processed between progress reports.
func WithBatchSize(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.batchSize = n
		}
	}
}

// WithProgress registers a progress hook.
func WithProgress(fn func(Progress)) Option {
	return func(p *Processor) {
		p.progress = fn
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: domain.DefaultChunkSize,
		overlap:   domain.DefaultChunkOverlap,
		maxChunks: domain.DefaultMaxChunks,
		minLength: domain.DefaultMinChunkLength,
		window:    domain.DefaultBoundaryWindow,
		batchSize: domain.DefaultChunkBatchSize,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// FromSettings creates a chunker from application settings.
// Zero-valued optional fields keep their defaults.
func FromSettings(s domain.ChunkerSettings, opts ...Option) *Processor {
	base := []Option{
		WithChunkSize(s.ChunkSize),
		WithOverlap(s.Overlap),
		WithMaxChunks(s.MaxChunks),
	}
	if s.MinLength > 0 {
		base = append(base, WithMinLength(s.MinLength))
	}
	if s.BoundaryWindow > 0 {
		base = append(base, WithBoundaryWindow(s.BoundaryWindow))
	}
	base = append(base, WithBatchSize(s.BatchSize))
	return New(append(base, opts...)...)
}

// Settings returns the effective parameters.
func (p *Processor) Settings() domain.ChunkerSettings {
	return domain.ChunkerSettings{
		ChunkSize:      p.chunkSize,
		Overlap:        p.overlap,
		MaxChunks:      p.maxChunks,
		MinLength:      p.minLength,
		BoundaryWindow: p.window,
		BatchSize:      p.batchSize,
	}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from document content.
func (p *Processor) Process(ctx context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.Split(doc.Content)
}

// Split returns the chunk sequence for text. The output depends only on
// text and the processor parameters.
func (p *Processor) Split(text string) ([]domain.Chunk, error) {
	if err := p.Settings().Validate(); err != nil {
		return nil, err
	}

	runes := []rune(text)
	n := len(runes)
	step := p.chunkSize - p.overlap

	starts := make([]int, 0, n/step+1)
	for s := 0; s < n; s += step {
		starts = append(starts, s)
	}
	totalBatches := (len(starts) + p.batchSize - 1) / p.batchSize

	logger.Debug("chunking %d characters (%d offsets, %d batches)", n, len(starts), totalBatches)

	began := time.Now()
	chunks := make([]domain.Chunk, 0, min(len(starts), p.maxChunks))

	for b := 0; b < len(starts); b += p.batchSize {
		for _, start := range starts[b:min(b+p.batchSize, len(starts))] {
			end := min(start+p.chunkSize, n)
			if end < n {
				end = p.boundary(runes, start, end)
			}

			content := strings.TrimSpace(string(runes[start:end]))
			if content == "" || utf8.RuneCountInString(content) < p.minLength {
				continue
			}

			chunks = append(chunks, domain.Chunk{
				Index:   len(chunks),
				Start:   start,
				End:     end,
				Content: content,
			})
		}

		p.report(Progress{
			Batch:        b/p.batchSize + 1,
			TotalBatches: totalBatches,
			Chunks:       len(chunks),
			Elapsed:      time.Since(began),
		})

		if len(chunks) >= p.maxChunks {
			logger.Debug("reached maximum chunk limit (%d)", p.maxChunks)
			break
		}
	}

	if len(chunks) > p.maxChunks {
		chunks = chunks[:p.maxChunks]
	}

	logger.Debug("chunking completed: %d chunks in %s", len(chunks), time.Since(began))
	return chunks, nil
}

// boundary moves end back to just after the nearest sentence terminator
// within the search window, never past start.
func (p *Processor) boundary(runes []rune, start, end int) int {
	low := max(end-p.window, start)
	for i := end; i > low; i-- {
		switch runes[i-1] {
		case '.', '!', '?', '\n':
			return i
		}
	}
	return end
}

func (p *Processor) report(pr Progress) {
	logger.Debug("processed batch %d/%d in %s - %d chunks", pr.Batch, pr.TotalBatches, pr.Elapsed, pr.Chunks)
	if p.progress != nil {
		p.progress(pr)
	}
}
