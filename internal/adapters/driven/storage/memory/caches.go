package memory

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/custodia-labs/verbum/internal/core/ports/driven"
	"github.com/custodia-labs/verbum/internal/logger"
)

// DefaultVectorEntries bounds a VectorCache created with a non-positive size.
const DefaultVectorEntries = 4096

// Ensure the caches implement their interfaces.
var (
	_ driven.VectorCache     = (*VectorCache)(nil)
	_ driven.ExtractionCache = (*ExtractionCache)(nil)
)

// VectorCache is a bounded LRU of embeddings. It is safe for concurrent use.
type VectorCache struct {
	cache *lru.Cache[string, []float32]
}

// NewVectorCache creates a cache holding at most size vectors.
func NewVectorCache(size int) *VectorCache {
	if size <= 0 {
		size = DefaultVectorEntries
	}
	// lru.New only fails for a non-positive size.
	cache, _ := lru.NewWithEvict[string, []float32](size, func(key string, _ []float32) {
		logger.Debug("vector cache evicted %s", key)
	})
	return &VectorCache{cache: cache}
}

// Get returns the vector for key, marking it recently used.
func (c *VectorCache) Get(_ context.Context, key string) ([]float32, bool) {
	return c.cache.Get(key)
}

// Put stores a copy of vec under key.
func (c *VectorCache) Put(_ context.Context, key string, vec []float32) {
	if len(vec) == 0 {
		return
	}
	c.cache.Add(key, append([]float32(nil), vec...))
}

// Len returns the number of cached vectors.
func (c *VectorCache) Len() int {
	return c.cache.Len()
}

// ExtractionCache keeps extracted text for the life of the process.
type ExtractionCache struct {
	mu    sync.RWMutex
	texts map[string]string
}

// NewExtractionCache creates an empty extraction cache.
func NewExtractionCache() *ExtractionCache {
	return &ExtractionCache{texts: make(map[string]string)}
}

// Get returns the cached text for key.
func (c *ExtractionCache) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	text, ok := c.texts[key]
	return text, ok, nil
}

// Put stores text under key.
func (c *ExtractionCache) Put(_ context.Context, key, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.texts[key] = text
	return nil
}

// Delete removes the entry for key.
func (c *ExtractionCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.texts, key)
	return nil
}
