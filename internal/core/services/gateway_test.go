package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/verbum/internal/core/domain"
)

func TestGateway_Embed_Unavailable(t *testing.T) {
	g := NewGateway(nil)

	assert.False(t, g.Available())
	assert.Empty(t, g.ModelName())

	_, err := g.Embed(context.Background(), []string{"hello"})
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestGateway_Embed_SkipsBlankTexts(t *testing.T) {
	svc := newMockEmbeddingService()
	g := NewGateway(svc)

	vectors, err := g.Embed(context.Background(), []string{"alpha beta", "   ", "", "gamma"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Equal(t, svc.vector("alpha beta"), vectors[0])
	assert.Equal(t, svc.vector("gamma"), vectors[1])
}

func TestGateway_Embed_AllBlank(t *testing.T) {
	svc := newMockEmbeddingService()
	g := NewGateway(svc)

	_, err := g.Embed(context.Background(), []string{" ", "\n"})
	assert.ErrorIs(t, err, domain.ErrEmptyInput)
	assert.Zero(t, svc.callCount())
}

func TestGateway_Embed_PreservesOrderAcrossBatches(t *testing.T) {
	svc := newMockEmbeddingService()
	g := NewGateway(svc, WithEmbedBatchSize(3), WithEmbedParallelism(4))

	texts := make([]string, 20)
	for i := range texts {
		texts[i] = fmt.Sprintf("chunk number %d about topic%d", i, i*7)
	}

	vectors, err := g.Embed(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, vectors, len(texts))
	for i, text := range texts {
		assert.Equal(t, svc.vector(text), vectors[i], "vector %d", i)
	}
	assert.Equal(t, 7, svc.callCount())
}

func TestGateway_Embed_ServiceError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantIs  error
		wrapped bool
	}{
		{"provider failure", errors.New("connection refused"), domain.ErrEmbeddingUnavailable, true},
		{"already tagged", fmt.Errorf("%w: 401", domain.ErrEmbeddingUnavailable), domain.ErrEmbeddingUnavailable, true},
		{"cancelled", context.Canceled, context.Canceled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newMockEmbeddingService()
			svc.err = tt.err
			g := NewGateway(svc)

			_, err := g.Embed(context.Background(), []string{"text"})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantIs)
			assert.Equal(t, tt.wrapped, errors.Is(err, domain.ErrEmbeddingUnavailable))
		})
	}
}

func TestGateway_EmbedKeyed_UsesCache(t *testing.T) {
	svc := newMockEmbeddingService()
	cache := newMapVectorCache()
	g := NewGateway(svc, WithVectorCache(cache))
	ctx := context.Background()

	first, err := g.EmbedKeyed(ctx, "folder:science", "Knowledge domain: science")
	require.NoError(t, err)
	second, err := g.EmbedKeyed(ctx, "folder:science", "Knowledge domain: science")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, svc.callCount())
	_, ok := cache.entries["mock-embed:folder:science"]
	assert.True(t, ok, "cache key includes the model name")
}

func TestGateway_EmbedKeyed_WithoutCache(t *testing.T) {
	svc := newMockEmbeddingService()
	g := NewGateway(svc)

	_, err := g.EmbedKeyed(context.Background(), "k", "text")
	require.NoError(t, err)
	_, err = g.EmbedKeyed(context.Background(), "k", "text")
	require.NoError(t, err)

	assert.Equal(t, 2, svc.callCount())
}
