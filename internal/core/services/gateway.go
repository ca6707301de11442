package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/verbum/internal/core/domain"
	"github.com/custodia-labs/verbum/internal/core/ports/driven"
	"github.com/custodia-labs/verbum/internal/logger"
)

// Gateway defaults.
const (
	DefaultEmbedBatchSize   = 32
	DefaultEmbedParallelism = 4
)

// Gateway converts text into embedding vectors through an injected
// embedding service. Retries and timeouts belong to the service adapter.
type Gateway struct {
	svc         driven.EmbeddingService
	cache       driven.VectorCache
	batchSize   int
	parallelism int
}

// GatewayOption configures a Gateway.
type GatewayOption func(*Gateway)

// WithVectorCache memoises keyed embeddings.
func WithVectorCache(c driven.VectorCache) GatewayOption {
	return func(g *Gateway) {
		g.cache = c
	}
}

// WithEmbedBatchSize sets how many texts go into one EmbedBatch call.
func WithEmbedBatchSize(n int) GatewayOption {
	return func(g *Gateway) {
		if n > 0 {
			g.batchSize = n
		}
	}
}

// WithEmbedParallelism bounds the number of concurrent EmbedBatch calls.
func WithEmbedParallelism(n int) GatewayOption {
	return func(g *Gateway) {
		if n > 0 {
			g.parallelism = n
		}
	}
}

// NewGateway creates an embedding gateway. svc may be nil, in which case
// every call fails with domain.ErrEmbeddingUnavailable.
func NewGateway(svc driven.EmbeddingService, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		svc:         svc,
		batchSize:   DefaultEmbedBatchSize,
		parallelism: DefaultEmbedParallelism,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Available reports whether an embedding service is configured.
func (g *Gateway) Available() bool {
	return g.svc != nil
}

// ModelName returns the embedding model name, or "" when unavailable.
func (g *Gateway) ModelName() string {
	if g.svc == nil {
		return ""
	}
	return g.svc.ModelName()
}

// Embed returns one vector per non-blank text, in input order. Blank
// texts are skipped, so the result can be shorter than texts.
func (g *Gateway) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if g.svc == nil {
		return nil, fmt.Errorf("%w: no embedding provider configured", domain.ErrEmbeddingUnavailable)
	}

	kept := make([]string, 0, len(texts))
	for _, t := range texts {
		if strings.TrimSpace(t) != "" {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("%w: nothing to embed", domain.ErrEmptyInput)
	}
	if skipped := len(texts) - len(kept); skipped > 0 {
		logger.Debug("embedding: skipped %d blank texts", skipped)
	}

	vectors := make([][]float32, len(kept))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.parallelism)

	for start := 0; start < len(kept); start += g.batchSize {
		end := min(start+g.batchSize, len(kept))
		eg.Go(func() error {
			batch, err := g.svc.EmbedBatch(egCtx, kept[start:end])
			if err != nil {
				return fmt.Errorf("embed texts %d-%d: %w", start, end-1, err)
			}
			if len(batch) != end-start {
				return fmt.Errorf("embed texts %d-%d: got %d vectors", start, end-1, len(batch))
			}
			copy(vectors[start:end], batch)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, unavailable(err)
	}

	logger.Debug("embedding: %d vectors from %s", len(vectors), g.svc.ModelName())
	return vectors, nil
}

// EmbedOne embeds a single text.
func (g *Gateway) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	vectors, err := g.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedKeyed embeds text, memoising the vector under key when a cache is set.
func (g *Gateway) EmbedKeyed(ctx context.Context, key, text string) ([]float32, error) {
	cacheKey := g.ModelName() + ":" + key
	if g.cache != nil {
		if vec, ok := g.cache.Get(ctx, cacheKey); ok {
			logger.Debug("embedding cache hit: %s", key)
			return vec, nil
		}
	}

	vec, err := g.EmbedOne(ctx, text)
	if err != nil {
		return nil, err
	}

	if g.cache != nil {
		g.cache.Put(ctx, cacheKey, vec)
	}
	return vec, nil
}

// unavailable tags service failures as ErrEmbeddingUnavailable while
// leaving cancellation errors recognisable.
func unavailable(err error) error {
	if errors.Is(err, domain.ErrEmbeddingUnavailable) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
}
