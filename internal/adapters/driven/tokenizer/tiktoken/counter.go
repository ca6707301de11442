// Package tiktoken counts prompt tokens with OpenAI's BPE encodings.
package tiktoken

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"github.com/custodia-labs/verbum/internal/core/ports/driven"
	"github.com/custodia-labs/verbum/internal/logger"
)

// Ensure Counter implements the interface.
var _ driven.TokenCounter = (*Counter)(nil)

// DefaultEncoding is used when the model has no known encoding.
const DefaultEncoding = "cl100k_base"

// Counter counts tokens for one encoding. It is safe for concurrent use.
type Counter struct {
	encoding string
	tke      *tiktoken.Tiktoken
}

// New returns a counter for model. An unknown or empty model falls back
// to cl100k_base, which covers the gpt-3.5 and gpt-4 families.
func New(model string) (*Counter, error) {
	if model != "" {
		if tke, err := tiktoken.EncodingForModel(model); err == nil {
			return &Counter{encoding: model, tke: tke}, nil
		}
		logger.Debug("no token encoding for model %q, using %s", model, DefaultEncoding)
	}

	tke, err := tiktoken.GetEncoding(DefaultEncoding)
	if err != nil {
		return nil, fmt.Errorf("load encoding %s: %w", DefaultEncoding, err)
	}
	return &Counter{encoding: DefaultEncoding, tke: tke}, nil
}

// Count returns the number of tokens in text.
func (c *Counter) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(c.tke.Encode(text, nil, nil))
}

// Encoding returns the model or encoding name the counter was built for.
func (c *Counter) Encoding() string {
	return c.encoding
}
