package driven

import "context"

// LLMService provides chat completion for free-form document queries.
// This is an optional service - when nil, document queries are disabled.
type LLMService interface {
	// Complete sends a system and a user prompt and returns the reply text.
	Complete(ctx context.Context, systemPrompt, userPrompt string, opts CompletionOptions) (string, error)

	// ModelName returns the name of the LLM model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// CompletionOptions configures chat completion behaviour.
type CompletionOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float32
}

// TokenCounter counts model tokens in a prompt.
type TokenCounter interface {
	Count(text string) int
}
