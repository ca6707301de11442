// Package openai provides a chat completion adapter using the OpenAI API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/custodia-labs/verbum/internal/adapters/driven/resilience"
	"github.com/custodia-labs/verbum/internal/core/domain"
	"github.com/custodia-labs/verbum/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultLLMModel   = "gpt-4"
	DefaultLLMTimeout = 120 * time.Second
)

const provider = "openai"

// LLMConfig holds configuration for the OpenAI chat service.
type LLMConfig struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL overrides the API base URL for Azure or compatible APIs.
	BaseURL string

	// Model is the chat model to use (default: gpt-4).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration

	// Retry configures retries of rate-limited and failed requests.
	Retry resilience.Policy
}

// LLMService provides chat completion using the OpenAI API.
type LLMService struct {
	client  *goopenai.Client
	model   string
	timeout time.Duration
	policy  resilience.Policy
	limiter *resilience.Limiter
}

// NewLLMService creates a new OpenAI chat service.
func NewLLMService(cfg LLMConfig) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: openai: API key is required", domain.ErrLLMUnavailable)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}
	if cfg.Retry == (resilience.Policy{}) {
		cfg.Retry = resilience.DefaultPolicy()
	}

	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &LLMService{
		client:  goopenai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		policy:  cfg.Retry,
		limiter: resilience.NewLimiter(provider),
	}, nil
}

// Complete sends a system and a user message and returns the first choice.
func (s *LLMService) Complete(
	ctx context.Context, systemPrompt, userPrompt string, opts driven.CompletionOptions,
) (string, error) {
	req := goopenai.ChatCompletionRequest{
		Model: s.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: goopenai.ChatMessageRoleUser, Content: userPrompt},
		},
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	}

	var resp goopenai.ChatCompletionResponse
	err := resilience.Do(ctx, s.policy, s.limiter, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		var err error
		resp, err = s.client.CreateChatCompletion(ctx, req)
		return wrapError(err)
	})
	if err != nil {
		return "", resilience.Classify(fmt.Errorf("create openai chat completion: %w", err), domain.ErrLLMUnavailable)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("openai chat completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// ModelName returns the name of the chat model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping validates the API key by listing models.
func (s *LLMService) Ping(ctx context.Context) error {
	if _, err := s.client.ListModels(ctx); err != nil {
		return resilience.Classify(fmt.Errorf("openai: ping failed: %w", wrapError(err)), domain.ErrLLMUnavailable)
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}

func wrapError(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return resilience.WrapStatus(provider, apiErr.HTTPStatusCode, err)
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return resilience.WrapStatus(provider, reqErr.HTTPStatusCode, err)
	}
	return err
}
