package ask

import (
	"errors"

	"github.com/custodia-labs/verbum/internal/core/domain"
)

// Hint returns a setup suggestion for errors caused by missing models.
func Hint(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmbeddingUnavailable):
		return "Configure embeddings with 'verbum settings provider embedding ollama' or set OPENAI_API_KEY."
	case errors.Is(err, domain.ErrQAUnavailable):
		return "Set HF_TOKEN or run 'verbum settings set-key qa'."
	case errors.Is(err, domain.ErrLLMUnavailable):
		return "Configure a chat model with 'verbum settings provider llm ollama' or set OPENAI_API_KEY."
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return "Supported formats are .pdf, .docx, .html, .md and .txt."
	default:
		return ""
	}
}
