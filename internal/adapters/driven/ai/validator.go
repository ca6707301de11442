package ai

import (
	"github.com/custodia-labs/verbum/internal/core/domain"
	"github.com/custodia-labs/verbum/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ConfigValidator validates model settings by creating a client and pinging it.
// Unconfigured settings are valid; the role simply stays disabled.
type ConfigValidator struct{}

// NewConfigValidator creates a new AI config validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidateEmbedding validates an embedding configuration.
func (v *ConfigValidator) ValidateEmbedding(settings *domain.ModelSettings) error {
	svc, err := CreateEmbeddingService(settings)
	if err != nil || svc == nil {
		return err
	}
	return ping(svc)
}

// ValidateQA validates a question answering configuration.
func (v *ConfigValidator) ValidateQA(settings *domain.ModelSettings) error {
	qa, err := CreateQAModel(settings)
	if err != nil || qa == nil {
		return err
	}
	return ping(qa)
}

// ValidateLLM validates a chat completion configuration.
func (v *ConfigValidator) ValidateLLM(settings *domain.ModelSettings) error {
	llm, err := CreateLLMService(settings)
	if err != nil || llm == nil {
		return err
	}
	return ping(llm)
}
