package cli

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/verbum/internal/core/domain"
)

func TestQueryCmd(t *testing.T) {
	t.Run("prints the reply", func(t *testing.T) {
		q := &mockQueryService{reply: "The book argues for small teams."}

		out, err := executeCommand(t, &Services{Query: q}, "", "query", "book.pdf", "summarise this")

		require.NoError(t, err)
		assert.Equal(t, "book.pdf", q.path)
		assert.Equal(t, "summarise this", q.query)
		assert.Equal(t, "The book argues for small teams.\n", out)
	})

	t.Run("llm unavailable", func(t *testing.T) {
		q := &mockQueryService{err: fmt.Errorf("%w: no chat model configured", domain.ErrLLMUnavailable)}

		_, err := executeCommand(t, &Services{Query: q}, "", "query", "book.pdf", "summarise")

		require.ErrorIs(t, err, domain.ErrLLMUnavailable)
		assert.Contains(t, err.Error(), "settings provider llm")
	})

	t.Run("missing service", func(t *testing.T) {
		_, err := executeCommand(t, nil, "", "query", "book.pdf", "summarise")
		assert.EqualError(t, err, "query service not configured")
	})

	t.Run("needs two arguments", func(t *testing.T) {
		_, err := executeCommand(t, &Services{Query: &mockQueryService{}}, "", "query", "book.pdf")
		assert.Error(t, err)
	})
}
