package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/verbum/internal/core/domain"
	"github.com/custodia-labs/verbum/internal/core/ports/driven"
	"github.com/custodia-labs/verbum/internal/core/ports/driving"
	"github.com/custodia-labs/verbum/internal/logger"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

// Default prompts, used when the prompt store has no override.
const (
	defaultQuerySystemPrompt = "You are a helpful assistant explaining concepts from documents."
	defaultQueryUserPrompt   = "Based on this document content:\n\n%s...\n\nQuestion: %s"
)

// QueryService answers free-form queries about a document with a chat model.
type QueryService struct {
	documents *DocumentService
	llm       driven.LLMService
	prompts   driven.PromptStore
	tokens    driven.TokenCounter
	settings  domain.QuerySettings
}

// NewQueryService creates a query service. llm may be nil, in which case
// every query fails with domain.ErrLLMUnavailable. prompts and tokens are
// optional.
func NewQueryService(
	documents *DocumentService,
	llm driven.LLMService,
	prompts driven.PromptStore,
	tokens driven.TokenCounter,
	settings domain.QuerySettings,
) *QueryService {
	if settings.MaxChars <= 0 {
		settings.MaxChars = domain.DefaultQueryMaxChars
	}
	if settings.ReplyTokens <= 0 {
		settings.ReplyTokens = domain.DefaultQueryReplyTokens
	}
	return &QueryService{
		documents: documents,
		llm:       llm,
		prompts:   prompts,
		tokens:    tokens,
		settings:  settings,
	}
}

// Query sends the leading part of the document and the query to the chat model.
func (s *QueryService) Query(ctx context.Context, path, query string) (string, error) {
	logger.Section("Document Query")

	if s.llm == nil {
		return "", fmt.Errorf("%w: no chat model configured", domain.ErrLLMUnavailable)
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return "", fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}

	doc, err := s.documents.Load(ctx, path)
	if err != nil {
		return "", err
	}

	system := s.prompt(driven.PromptDocumentQuerySystem, defaultQuerySystemPrompt)
	template := s.prompt(driven.PromptDocumentQueryUser, defaultQueryUserPrompt)

	content := truncateRunes(doc.Content, s.settings.MaxChars)
	user := fmt.Sprintf(template, content, query)

	if s.tokens != nil && s.settings.MaxTokens > 0 {
		if n := s.tokens.Count(user); n > s.settings.MaxTokens {
			keep := len([]rune(content)) * s.settings.MaxTokens / n
			logger.Debug("prompt has %d tokens, trimming content to %d characters", n, keep)
			content = truncateRunes(content, keep)
			user = fmt.Sprintf(template, content, query)
		}
	}

	reply, err := s.llm.Complete(ctx, system, user, driven.CompletionOptions{
		MaxTokens:   s.settings.ReplyTokens,
		Temperature: s.settings.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}

	logger.Debug("chat model %s replied with %d bytes", s.llm.ModelName(), len(reply))
	return strings.TrimSpace(reply), nil
}

func (s *QueryService) prompt(name, fallback string) string {
	if s.prompts == nil {
		return fallback
	}
	p, err := s.prompts.Load(name)
	if err != nil || strings.TrimSpace(p) == "" {
		if err != nil {
			logger.Debug("prompt %s unavailable, using default: %v", name, err)
		}
		return fallback
	}
	return p
}

// truncateRunes returns at most n runes of s.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
