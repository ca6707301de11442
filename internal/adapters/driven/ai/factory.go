// Package ai builds the model clients (embeddings, extractive QA and chat)
// from application settings.
package ai

import (
	"context"
	"fmt"
	"time"

	ollamaembed "github.com/custodia-labs/verbum/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/verbum/internal/adapters/driven/embedding/openai"
	ollamallm "github.com/custodia-labs/verbum/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/verbum/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/verbum/internal/adapters/driven/qa/huggingface"
	"github.com/custodia-labs/verbum/internal/core/domain"
	"github.com/custodia-labs/verbum/internal/core/ports/driven"
	"github.com/custodia-labs/verbum/internal/logger"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult holds the model clients built from settings.
// A nil client means the role is not configured or failed to start.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	QAModel          driven.QAModel
	LLMService       driven.LLMService
	Warnings         []string // Non-fatal issues; the role is left disabled.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
	if r.QAModel != nil {
		r.QAModel.Close()
	}
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Initialise builds every configured model client. Clients are not pinged;
// a role whose client cannot be created is disabled with a warning.
func Initialise(settings *domain.AppSettings) *InitResult {
	result := &InitResult{}
	if settings == nil {
		return result
	}

	if svc, err := CreateEmbeddingService(&settings.Embedding); err != nil {
		result.warn("embedding", err)
	} else if svc != nil {
		result.EmbeddingService = svc
	}

	if qa, err := CreateQAModel(&settings.QA); err != nil {
		result.warn("qa", err)
	} else if qa != nil {
		result.QAModel = qa
	}

	if llm, err := CreateLLMService(&settings.LLM); err != nil {
		result.warn("llm", err)
	} else if llm != nil {
		result.LLMService = llm
	}

	return result
}

func (r *InitResult) warn(role string, err error) {
	msg := fmt.Sprintf("%s disabled: %v", role, err)
	logger.Warn("%s", msg)
	r.Warnings = append(r.Warnings, msg)
}

// CreateEmbeddingService creates the embedding client for settings.
// Returns nil if the provider is not configured.
func CreateEmbeddingService(settings *domain.ModelSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: domain.EmbeddingDimensions()[settings.Model],
		}), nil

	case domain.AIProviderOpenAI:
		svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: domain.EmbeddingDimensions()[settings.Model],
		})
		if err != nil {
			return nil, err
		}
		return svc, nil

	default:
		return nil, fmt.Errorf("%w: %s does not provide embeddings, use ollama or openai",
			domain.ErrEmbeddingUnavailable, settings.Provider)
	}
}

// CreateQAModel creates the extractive question answering client.
// Returns nil if the provider is not configured.
func CreateQAModel(settings *domain.ModelSettings) (driven.QAModel, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderHuggingFace:
		qa, err := huggingface.NewQAModel(huggingface.Config{
			Token:   settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
		if err != nil {
			return nil, err
		}
		return qa, nil

	default:
		return nil, fmt.Errorf("%w: %s does not provide extractive QA, use huggingface",
			domain.ErrQAUnavailable, settings.Provider)
	}
}

// CreateLLMService creates the chat completion client.
// Returns nil if the provider is not configured.
func CreateLLMService(settings *domain.ModelSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderOpenAI:
		svc, err := openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil

	default:
		return nil, fmt.Errorf("%w: %s does not provide chat completion, use ollama or openai",
			domain.ErrLLMUnavailable, settings.Provider)
	}
}

// pinger is the part of every model client used for validation.
type pinger interface {
	Ping(ctx context.Context) error
	Close() error
}

// ping checks connectivity and closes the client.
func ping(p pinger) error {
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return p.Ping(ctx)
}
