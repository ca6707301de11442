package tiktoken

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// newCounter skips when the BPE ranks cannot be fetched, as in offline CI.
func newCounter(t *testing.T, model string) *Counter {
	t.Helper()
	c, err := New(model)
	if err != nil {
		t.Skipf("token encoding unavailable: %v", err)
	}
	return c
}

func TestNew(t *testing.T) {
	tests := []struct {
		name  string
		model string
		want  string
	}{
		{"known model", "gpt-4", "gpt-4"},
		{"unknown model falls back", "llama3.2", DefaultEncoding},
		{"empty model", "", DefaultEncoding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCounter(t, tt.model)
			assert.Equal(t, tt.want, c.Encoding())
		})
	}
}

func TestCounter_Count(t *testing.T) {
	c := newCounter(t, "gpt-4")

	assert.Equal(t, 0, c.Count(""))
	assert.Equal(t, 2, c.Count("hello world"))

	short := c.Count("startup")
	long := c.Count(strings.Repeat("startup growth ", 100))
	assert.Greater(t, long, short)
}
