package services

import (
	"context"
	"errors"
	"hash/fnv"
	"strings"
	"sync"

	"github.com/custodia-labs/verbum/internal/core/domain"
	"github.com/custodia-labs/verbum/internal/core/ports/driven"
)

// mockEmbeddingService hashes words into a small bag-of-words vector, so
// texts sharing words point in similar directions.
type mockEmbeddingService struct {
	mu      sync.Mutex
	dims    int
	err     error
	calls   int
	batches [][]string
}

func newMockEmbeddingService() *mockEmbeddingService {
	return &mockEmbeddingService{dims: 16}
}

func (m *mockEmbeddingService) vector(text string) []float32 {
	vec := make([]float32, m.dims)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(w))
		vec[h.Sum32()%uint32(m.dims)]++
	}
	return vec
}

func (m *mockEmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := m.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (m *mockEmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.calls++
	m.batches = append(m.batches, texts)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.err != nil {
		return nil, m.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = m.vector(t)
	}
	return out, nil
}

func (m *mockEmbeddingService) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockEmbeddingService) Dimensions() int { return m.dims }
func (m *mockEmbeddingService) ModelName() string { return "mock-embed" }
func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }
func (m *mockEmbeddingService) Close() error { return nil }

// mockQAModel returns a fixed result and records the request.
type mockQAModel struct {
	result  driven.QAResult
	err     error
	calls   int
	lastReq driven.QARequest
}

func (m *mockQAModel) Answer(_ context.Context, req driven.QARequest) (driven.QAResult, error) {
	m.calls++
	m.lastReq = req
	if m.err != nil {
		return driven.QAResult{}, m.err
	}
	return m.result, nil
}

func (m *mockQAModel) ModelName() string { return "mock-qa" }
func (m *mockQAModel) Ping(_ context.Context) error { return nil }
func (m *mockQAModel) Close() error { return nil }

// mockLLMService returns a fixed reply and records the prompts.
type mockLLMService struct {
	reply      string
	err        error
	calls      int
	lastSystem string
	lastUser   string
	lastOpts   driven.CompletionOptions
}

func (m *mockLLMService) Complete(
	_ context.Context, systemPrompt, userPrompt string, opts driven.CompletionOptions,
) (string, error) {
	m.calls++
	m.lastSystem = systemPrompt
	m.lastUser = userPrompt
	m.lastOpts = opts
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func (m *mockLLMService) ModelName() string { return "mock-llm" }
func (m *mockLLMService) Ping(_ context.Context) error { return nil }
func (m *mockLLMService) Close() error { return nil }

// wordCounter counts whitespace-separated words as tokens.
type wordCounter struct{}

func (wordCounter) Count(text string) int {
	return len(strings.Fields(text))
}

// mockExtractor serves text from a map keyed by absolute path.
type mockExtractor struct {
	texts map[string]string
	calls int
}

func (m *mockExtractor) Extract(_ context.Context, path string) (string, error) {
	m.calls++
	text, ok := m.texts[path]
	if !ok {
		return "", domain.ErrNotFound
	}
	return text, nil
}

func (m *mockExtractor) Supports(path string) bool {
	return !strings.HasSuffix(path, ".exe")
}

// mapExtractionCache is an in-memory ExtractionCache.
type mapExtractionCache struct {
	entries map[string]string
	getErr  error
}

func newMapExtractionCache() *mapExtractionCache {
	return &mapExtractionCache{entries: make(map[string]string)}
}

func (c *mapExtractionCache) Get(_ context.Context, key string) (string, bool, error) {
	if c.getErr != nil {
		return "", false, c.getErr
	}
	text, ok := c.entries[key]
	return text, ok, nil
}

func (c *mapExtractionCache) Put(_ context.Context, key, text string) error {
	c.entries[key] = text
	return nil
}

func (c *mapExtractionCache) Delete(_ context.Context, key string) error {
	delete(c.entries, key)
	return nil
}

// mapVectorCache is an in-memory VectorCache.
type mapVectorCache struct {
	mu      sync.Mutex
	entries map[string][]float32
}

func newMapVectorCache() *mapVectorCache {
	return &mapVectorCache{entries: make(map[string][]float32)}
}

func (c *mapVectorCache) Get(_ context.Context, key string) ([]float32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *mapVectorCache) Put(_ context.Context, key string, vec []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = vec
}

// mapSessionStore is an in-memory SessionStore.
type mapSessionStore struct {
	sessions map[string]*domain.DocumentSession
	saves    int
}

func newMapSessionStore() *mapSessionStore {
	return &mapSessionStore{sessions: make(map[string]*domain.DocumentSession)}
}

func (s *mapSessionStore) Session(_ context.Context, documentID string) (*domain.DocumentSession, error) {
	if sess, ok := s.sessions[documentID]; ok {
		return sess, nil
	}
	return &domain.DocumentSession{ID: "session-" + documentID, DocumentID: documentID}, nil
}

func (s *mapSessionStore) Save(_ context.Context, session *domain.DocumentSession) error {
	s.saves++
	s.sessions[session.DocumentID] = session
	return nil
}

// mockPromptStore serves prompts from a map.
type mockPromptStore struct {
	prompts map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	p, ok := m.prompts[name]
	if !ok {
		return "", errors.New("prompt not found")
	}
	return p, nil
}

func (m *mockPromptStore) Reload() {}

// mockLibrary is an in-memory Library.
type mockLibrary struct {
	folders    []string
	contents   map[string][]domain.HierarchyNode
	summaries  map[string]string
	summaryErr map[string]error
}

func (m *mockLibrary) Root() string { return "/library/books" }

func (m *mockLibrary) Resolve(rel string) (string, error) {
	return "/library/books/" + rel, nil
}

func (m *mockLibrary) TopLevelFolders(_ context.Context) ([]string, error) {
	return m.folders, nil
}

func (m *mockLibrary) Contents(_ context.Context, folder string) ([]domain.HierarchyNode, error) {
	return m.contents[folder], nil
}

func (m *mockLibrary) FolderSummary(_ context.Context, folder string) (string, error) {
	if err := m.summaryErr[folder]; err != nil {
		return "", err
	}
	return m.summaries[folder], nil
}

// mapConfigStore is an in-memory ConfigStore.
type mapConfigStore struct {
	values map[string]any
}

func newMapConfigStore() *mapConfigStore {
	return &mapConfigStore{values: make(map[string]any)}
}

func (s *mapConfigStore) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *mapConfigStore) GetString(key string) string {
	v, _ := s.values[key].(string)
	return v
}

func (s *mapConfigStore) GetInt(key string) int {
	switch v := s.values[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func (s *mapConfigStore) GetFloat(key string) float64 {
	switch v := s.values[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

func (s *mapConfigStore) GetBool(key string) bool {
	v, _ := s.values[key].(bool)
	return v
}

func (s *mapConfigStore) GetStringSlice(key string) []string {
	v, _ := s.values[key].([]string)
	return v
}

func (s *mapConfigStore) Set(key string, value any) error {
	s.values[key] = value
	return nil
}

func (s *mapConfigStore) Save() error { return nil }
func (s *mapConfigStore) Load() error { return nil }
func (s *mapConfigStore) Path() string { return "memory" }

// mockValidator records which roles were validated.
type mockValidator struct {
	err       error
	validated []string
}

func (v *mockValidator) ValidateEmbedding(_ *domain.ModelSettings) error {
	v.validated = append(v.validated, RoleEmbedding)
	return v.err
}

func (v *mockValidator) ValidateQA(_ *domain.ModelSettings) error {
	v.validated = append(v.validated, RoleQA)
	return v.err
}

func (v *mockValidator) ValidateLLM(_ *domain.ModelSettings) error {
	v.validated = append(v.validated, RoleLLM)
	return v.err
}
