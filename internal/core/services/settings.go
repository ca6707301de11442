package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/verbum/internal/core/domain"
	"github.com/custodia-labs/verbum/internal/core/ports/driven"
	"github.com/custodia-labs/verbum/internal/core/ports/driving"
	"github.com/custodia-labs/verbum/internal/logger"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyChunkSize       = "chunker.chunk_size"
	keyChunkOverlap    = "chunker.overlap"
	keyMaxChunks       = "chunker.max_chunks"
	keyMinChunkLength  = "chunker.min_length"
	keyBoundaryWindow  = "chunker.boundary_window"
	keyChunkBatchSize  = "chunker.batch_size"
	keyKeywordBoost    = "ranker.keyword_boost"
	keyTopK            = "ranker.top_k"
	keyMinConfidence   = "synth.min_confidence"
	keyMaxAnswerLength = "synth.max_answer_length"
	keyAllowNoAnswer   = "synth.allow_no_answer"
	keyIntentKeywords  = "synth.intent_keywords"
	keyQueryMaxChars   = "query.max_chars"
	keyQueryMaxTokens  = "query.max_tokens"
	keyQueryTemp       = "query.temperature"
	keyQueryReply      = "query.reply_tokens"
	keyVectorEntries   = "cache.vector_entries"
	keySessions        = "cache.sessions"
	keyPersistent      = "cache.persistent"
	keyDataDir         = "cache.data_dir"
	keyLibraryRoot     = "library.root"
)

// Model roles, each stored under "<role>.provider", "<role>.model",
// "<role>.base_url" and "<role>.api_key".
const (
	RoleEmbedding = "embedding"
	RoleQA        = "qa"
	RoleLLM       = "llm"
)

// Environment variables that override stored settings.
//
//nolint:gosec // G101: These are variable names, not credentials.
const (
	EnvOpenAIKey     = "OPENAI_API_KEY"
	EnvHFToken       = "HF_TOKEN"
	EnvModelName     = "MODEL_NAME"
	EnvMaxChunkSize  = "MAX_CHUNK_SIZE"
	EnvMinConfidence = "MIN_CONFIDENCE"
	EnvLibrary       = "VERBUM_LIBRARY"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service. aiValidator is optional.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	d := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Chunker: domain.ChunkerSettings{
			ChunkSize:      s.getInt(keyChunkSize, d.Chunker.ChunkSize),
			Overlap:        s.getInt(keyChunkOverlap, d.Chunker.Overlap),
			MaxChunks:      s.getInt(keyMaxChunks, d.Chunker.MaxChunks),
			MinLength:      s.getInt(keyMinChunkLength, d.Chunker.MinLength),
			BoundaryWindow: s.getInt(keyBoundaryWindow, d.Chunker.BoundaryWindow),
			BatchSize:      s.getInt(keyChunkBatchSize, d.Chunker.BatchSize),
		},
		Ranker: domain.RankerSettings{
			KeywordBoost: s.getFloat(keyKeywordBoost, d.Ranker.KeywordBoost),
			TopK:         s.getInt(keyTopK, d.Ranker.TopK),
		},
		Synth: domain.SynthSettings{
			MinConfidence:   s.getFloat(keyMinConfidence, d.Synth.MinConfidence),
			MaxAnswerLength: s.getInt(keyMaxAnswerLength, d.Synth.MaxAnswerLength),
			AllowNoAnswer:   s.getBool(keyAllowNoAnswer, d.Synth.AllowNoAnswer),
			IntentKeywords:  s.getStrings(keyIntentKeywords, d.Synth.IntentKeywords),
		},
		Query: domain.QuerySettings{
			MaxChars:    s.getInt(keyQueryMaxChars, d.Query.MaxChars),
			MaxTokens:   s.getInt(keyQueryMaxTokens, d.Query.MaxTokens),
			Temperature: float32(s.getFloat(keyQueryTemp, float64(d.Query.Temperature))),
			ReplyTokens: s.getInt(keyQueryReply, d.Query.ReplyTokens),
		},
		Cache: domain.CacheSettings{
			VectorEntries: s.getInt(keyVectorEntries, d.Cache.VectorEntries),
			Sessions:      s.getInt(keySessions, d.Cache.Sessions),
			Persistent:    s.getBool(keyPersistent, d.Cache.Persistent),
			DataDir:       s.configStore.GetString(keyDataDir),
		},
		Embedding:   s.getModel(RoleEmbedding),
		QA:          s.getModel(RoleQA),
		LLM:         s.getModel(RoleLLM),
		LibraryRoot: s.configStore.GetString(keyLibraryRoot),
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyChunkSize, settings.Chunker.ChunkSize},
		{keyChunkOverlap, settings.Chunker.Overlap},
		{keyMaxChunks, settings.Chunker.MaxChunks},
		{keyMinChunkLength, settings.Chunker.MinLength},
		{keyBoundaryWindow, settings.Chunker.BoundaryWindow},
		{keyChunkBatchSize, settings.Chunker.BatchSize},
		{keyKeywordBoost, settings.Ranker.KeywordBoost},
		{keyTopK, settings.Ranker.TopK},
		{keyMinConfidence, settings.Synth.MinConfidence},
		{keyMaxAnswerLength, settings.Synth.MaxAnswerLength},
		{keyAllowNoAnswer, settings.Synth.AllowNoAnswer},
		{keyIntentKeywords, settings.Synth.IntentKeywords},
		{keyQueryMaxChars, settings.Query.MaxChars},
		{keyQueryMaxTokens, settings.Query.MaxTokens},
		{keyQueryTemp, float64(settings.Query.Temperature)},
		{keyQueryReply, settings.Query.ReplyTokens},
		{keyVectorEntries, settings.Cache.VectorEntries},
		{keySessions, settings.Cache.Sessions},
		{keyPersistent, settings.Cache.Persistent},
		{keyDataDir, settings.Cache.DataDir},
		{keyLibraryRoot, settings.LibraryRoot},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	models := map[string]domain.ModelSettings{
		RoleEmbedding: settings.Embedding,
		RoleQA:        settings.QA,
		RoleLLM:       settings.LLM,
	}
	for role, m := range models {
		if err := s.saveModel(role, m); err != nil {
			return err
		}
	}
	return nil
}

// SetProvider configures the model for a role. An empty model selects the
// provider's default for that role.
func (s *SettingsService) SetProvider(role string, provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid %s provider: %s", domain.ErrConfig, role, provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrConfig, provider)
	}

	defaults, ok := domain.DefaultModels()[role]
	if !ok {
		return fmt.Errorf("%w: unknown model role: %s", domain.ErrConfig, role)
	}
	if model == "" {
		model = defaults[provider]
	}
	if model == "" {
		return fmt.Errorf("%w: provider %s has no default %s model", domain.ErrConfig, provider, role)
	}

	m := domain.ModelSettings{Provider: provider, Model: model, APIKey: apiKey}
	if provider == domain.AIProviderOllama {
		m.BaseURL = s.configStore.GetString(role + ".base_url")
		if m.BaseURL == "" {
			m.BaseURL = "http://localhost:11434"
		}
	}
	return s.saveModel(role, m)
}

// SetAPIKey stores the API key for a role.
func (s *SettingsService) SetAPIKey(role, apiKey string) error {
	if _, ok := domain.DefaultModels()[role]; !ok {
		return fmt.Errorf("%w: unknown model role: %s", domain.ErrConfig, role)
	}
	if strings.TrimSpace(apiKey) == "" {
		return fmt.Errorf("%w: empty API key", domain.ErrInvalidInput)
	}
	if err := s.configStore.Set(role+".api_key", strings.TrimSpace(apiKey)); err != nil {
		return fmt.Errorf("save %s api_key: %w", role, err)
	}
	return nil
}

// Validate checks that the stored settings can drive the pipeline and,
// when a validator is set, that the configured providers are reachable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	if err := settings.Chunker.Validate(); err != nil {
		return err
	}
	if settings.Synth.MinConfidence < 0 || settings.Synth.MinConfidence > 1 {
		return fmt.Errorf("%w: min confidence must be within [0, 1], got %v",
			domain.ErrConfig, settings.Synth.MinConfidence)
	}
	if settings.Ranker.KeywordBoost < 0 {
		return fmt.Errorf("%w: keyword boost must not be negative", domain.ErrConfig)
	}

	if s.aiValidator == nil {
		return nil
	}
	if settings.Embedding.IsConfigured() {
		if err := s.aiValidator.ValidateEmbedding(&settings.Embedding); err != nil {
			return fmt.Errorf("embedding: %w", err)
		}
	}
	if settings.QA.IsConfigured() {
		if err := s.aiValidator.ValidateQA(&settings.QA); err != nil {
			return fmt.Errorf("qa: %w", err)
		}
	}
	if settings.LLM.IsConfigured() {
		if err := s.aiValidator.ValidateLLM(&settings.LLM); err != nil {
			return fmt.Errorf("llm: %w", err)
		}
	}
	return nil
}

// ApplyEnvironment overlays environment overrides onto settings. lookup
// is usually os.LookupEnv. Unparseable numbers are ignored with a warning.
func ApplyEnvironment(settings *domain.AppSettings, lookup func(string) (string, bool)) {
	models := domain.DefaultModels()

	if key, ok := lookup(EnvOpenAIKey); ok && key != "" {
		for role, m := range map[string]*domain.ModelSettings{
			RoleEmbedding: &settings.Embedding,
			RoleLLM:       &settings.LLM,
		} {
			if m.Provider == "" {
				m.Provider = domain.AIProviderOpenAI
				m.Model = models[role][domain.AIProviderOpenAI]
			}
			if m.Provider == domain.AIProviderOpenAI {
				m.APIKey = key
			}
		}
	}

	if token, ok := lookup(EnvHFToken); ok && token != "" {
		if settings.QA.Provider == "" {
			settings.QA.Provider = domain.AIProviderHuggingFace
		}
		if settings.QA.Provider == domain.AIProviderHuggingFace {
			settings.QA.APIKey = token
		}
	}
	if name, ok := lookup(EnvModelName); ok && name != "" {
		settings.QA.Model = name
	}
	if settings.QA.Provider == domain.AIProviderHuggingFace && settings.QA.Model == "" {
		settings.QA.Model = models[RoleQA][domain.AIProviderHuggingFace]
	}

	if v, ok := lookup(EnvMaxChunkSize); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			settings.Chunker.ChunkSize = n
		} else {
			logger.Warn("ignoring %s=%q: not a positive integer", EnvMaxChunkSize, v)
		}
	}
	if v, ok := lookup(EnvMinConfidence); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f <= 1 {
			settings.Synth.MinConfidence = f
		} else {
			logger.Warn("ignoring %s=%q: not a number within [0, 1]", EnvMinConfidence, v)
		}
	}
	if v, ok := lookup(EnvLibrary); ok && v != "" {
		settings.LibraryRoot = v
	}
}

func (s *SettingsService) saveModel(role string, m domain.ModelSettings) error {
	if m.Provider == "" {
		return nil
	}
	if err := s.configStore.Set(role+".provider", string(m.Provider)); err != nil {
		return fmt.Errorf("save %s provider: %w", role, err)
	}
	if err := s.configStore.Set(role+".model", m.Model); err != nil {
		return fmt.Errorf("save %s model: %w", role, err)
	}
	if err := s.configStore.Set(role+".base_url", m.BaseURL); err != nil {
		return fmt.Errorf("save %s base_url: %w", role, err)
	}
	if m.APIKey != "" {
		if err := s.configStore.Set(role+".api_key", m.APIKey); err != nil {
			return fmt.Errorf("save %s api_key: %w", role, err)
		}
	}
	return nil
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getModel(role string) domain.ModelSettings {
	m := domain.ModelSettings{
		Provider: s.getProvider(role + ".provider"),
		Model:    s.configStore.GetString(role + ".model"),
		BaseURL:  s.configStore.GetString(role + ".base_url"),
		APIKey:   s.configStore.GetString(role + ".api_key"),
	}
	if m.Model == "" && m.Provider != "" {
		m.Model = domain.DefaultModels()[role][m.Provider]
	}
	return m
}

func (s *SettingsService) getProvider(key string) domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(key))
	if !provider.IsValid() {
		return ""
	}
	return provider
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getStrings(key string, defaultVal []string) []string {
	if val := s.configStore.GetStringSlice(key); len(val) > 0 {
		return val
	}
	return defaultVal
}
