package domain

import "fmt"

const unknownDescription = "Unknown"

// AIProvider identifies a model provider for embeddings, QA or chat.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderHuggingFace is the Hugging Face inference API.
	AIProviderHuggingFace AIProvider = "huggingface"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderHuggingFace:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderHuggingFace
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderHuggingFace:
		return "Hugging Face (cloud)"
	default:
		return unknownDescription
	}
}

// ModelSettings configures a single model client.
type ModelSettings struct {
	// Provider is the service provider.
	Provider AIProvider

	// Model is the model name.
	Model string

	// BaseURL overrides the provider endpoint.
	BaseURL string

	// APIKey is the credential for cloud providers.
	APIKey string
}

// IsConfigured returns true if the provider is set up.
func (m ModelSettings) IsConfigured() bool {
	if !m.Provider.IsValid() {
		return false
	}
	if m.Provider.RequiresAPIKey() && m.APIKey == "" {
		return false
	}
	return true
}

// Chunker defaults.
const (
	DefaultChunkSize      = 800
	DefaultChunkOverlap   = 100
	DefaultMaxChunks      = 1000
	DefaultMinChunkLength = 100
	DefaultBoundaryWindow = 50
	DefaultChunkBatchSize = 50
)

// ChunkerSettings holds text splitting parameters.
type ChunkerSettings struct {
	ChunkSize      int
	Overlap        int
	MaxChunks      int
	MinLength      int
	BoundaryWindow int
	BatchSize      int
}

// Validate reports an ErrConfig when the parameters cannot produce chunks.
func (c ChunkerSettings) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", ErrConfig, c.ChunkSize)
	}
	if c.Overlap < 0 {
		return fmt.Errorf("%w: overlap must not be negative, got %d", ErrConfig, c.Overlap)
	}
	if c.Overlap >= c.ChunkSize {
		return fmt.Errorf("%w: overlap (%d) must be smaller than chunk size (%d)",
			ErrConfig, c.Overlap, c.ChunkSize)
	}
	if c.MaxChunks <= 0 {
		return fmt.Errorf("%w: max chunks must be positive, got %d", ErrConfig, c.MaxChunks)
	}
	return nil
}

// Ranker defaults.
const (
	DefaultKeywordBoost     = 0.2
	DefaultMinKeywordLength = 4
	DefaultTopK             = 5
)

// RankerSettings holds relevance ranking parameters.
type RankerSettings struct {
	// KeywordBoost is the score multiplier added per matched keyword.
	KeywordBoost float64

	// TopK is the number of chunks handed to the synthesizer.
	TopK int
}

// Synthesizer defaults.
const (
	DefaultMinConfidence   = 0.3
	DefaultMaxAnswerLength = 150
)

// SynthSettings holds answer synthesis parameters.
type SynthSettings struct {
	// MinConfidence is the neural score below which the fallback runs.
	MinConfidence float64

	// MaxAnswerLength bounds the extracted answer span.
	MaxAnswerLength int

	// AllowNoAnswer lets the QA model report that no answer exists.
	AllowNoAnswer bool

	// IntentKeywords trigger the pattern short-circuit before the QA model.
	IntentKeywords []string
}

// Free-form document query defaults.
const (
	DefaultQueryMaxChars    = 4000
	DefaultQueryMaxTokens   = 4000
	DefaultQueryTemperature = 0.7
	DefaultQueryReplyTokens = 500
)

// QuerySettings holds free-form chat query parameters.
type QuerySettings struct {
	MaxChars    int
	MaxTokens   int
	Temperature float32
	ReplyTokens int
}

// CacheSettings holds cache parameters.
type CacheSettings struct {
	// VectorEntries bounds the in-memory embedding memo cache.
	VectorEntries int

	// Sessions bounds the number of document sessions kept in memory.
	Sessions int

	// Persistent enables the sqlite caches under DataDir.
	Persistent bool

	// DataDir is where the sqlite database lives.
	DataDir string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Chunker   ChunkerSettings
	Ranker    RankerSettings
	Synth     SynthSettings
	Query     QuerySettings
	Cache     CacheSettings
	Embedding ModelSettings
	QA        ModelSettings
	LLM       ModelSettings

	// LibraryRoot is the folder holding the document library.
	LibraryRoot string
}

// DefaultIntentKeywords are the words that mark a "what is this about" question.
func DefaultIntentKeywords() []string {
	return []string{"focus", "subject", "about", "main"}
}

// DefaultAppSettings returns settings with sensible defaults.
// Model providers are left unconfigured; they need credentials.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Chunker: ChunkerSettings{
			ChunkSize:      DefaultChunkSize,
			Overlap:        DefaultChunkOverlap,
			MaxChunks:      DefaultMaxChunks,
			MinLength:      DefaultMinChunkLength,
			BoundaryWindow: DefaultBoundaryWindow,
			BatchSize:      DefaultChunkBatchSize,
		},
		Ranker: RankerSettings{
			KeywordBoost: DefaultKeywordBoost,
			TopK:         DefaultTopK,
		},
		Synth: SynthSettings{
			MinConfidence:   DefaultMinConfidence,
			MaxAnswerLength: DefaultMaxAnswerLength,
			AllowNoAnswer:   true,
			IntentKeywords:  DefaultIntentKeywords(),
		},
		Query: QuerySettings{
			MaxChars:    DefaultQueryMaxChars,
			MaxTokens:   DefaultQueryMaxTokens,
			Temperature: DefaultQueryTemperature,
			ReplyTokens: DefaultQueryReplyTokens,
		},
		Cache: CacheSettings{
			VectorEntries: 4096,
			Sessions:      128,
		},
	}
}

// DefaultModels returns default model names per role and provider.
func DefaultModels() map[string]map[AIProvider]string {
	return map[string]map[AIProvider]string{
		"embedding": {
			AIProviderOllama: "nomic-embed-text",
			AIProviderOpenAI: "text-embedding-ada-002",
		},
		"qa": {
			AIProviderHuggingFace: "distilbert-base-cased-distilled-squad",
		},
		"llm": {
			AIProviderOpenAI: "gpt-4",
			AIProviderOllama: "llama3.2",
		},
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"nomic-embed-text":       768,
		"mxbai-embed-large":      1024,
		"all-minilm":             384,
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
