package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/verbum/internal/adapters/driven/resilience"
	"github.com/custodia-labs/verbum/internal/core/domain"
	"github.com/custodia-labs/verbum/internal/core/ports/driven"
)

func testConfig(url string) LLMConfig {
	return LLMConfig{BaseURL: url, Retry: resilience.Policy{MaxRetries: 2, Base: time.Millisecond}}
}

func TestNewLLMService_Defaults(t *testing.T) {
	svc := NewLLMService(LLMConfig{})
	assert.Equal(t, DefaultLLMModel, svc.ModelName())
	assert.Equal(t, DefaultBaseURL, svc.baseURL)
	assert.NoError(t, svc.Close())
}

func TestLLMService_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3.2", req.Model)
		assert.False(t, req.Stream)
		assert.Equal(t, 500, req.Options.NumPredict)
		assert.InDelta(t, 0.7, req.Options.Temperature, 1e-6)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)
		assert.Equal(t, "Explain it.", req.Messages[1].Content)

		_ = json.NewEncoder(w).Encode(chatResponse{
			Message: chatMessage{Role: "assistant", Content: "\nIt covers founders.\n"},
			Done:    true,
		})
	}))
	defer server.Close()

	reply, err := NewLLMService(testConfig(server.URL)).Complete(context.Background(),
		"You help.", "Explain it.", driven.CompletionOptions{MaxTokens: 500, Temperature: 0.7})
	require.NoError(t, err)
	assert.Equal(t, "It covers founders.", reply)
}

func TestLLMService_Complete_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(chatResponse{Message: chatMessage{Content: "ok"}, Done: true})
	}))
	defer server.Close()

	reply, err := NewLLMService(testConfig(server.URL)).Complete(context.Background(), "s", "u",
		driven.CompletionOptions{})
	require.NoError(t, err)
	assert.Equal(t, "ok", reply)
	assert.Equal(t, int32(2), calls.Load())
}

func TestLLMService_Complete_BadRequest(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, `{"error":"model not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewLLMService(testConfig(server.URL)).Complete(context.Background(), "s", "u",
		driven.CompletionOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not found")
	assert.Equal(t, int32(1), calls.Load(), "client errors are not retried")
}

func TestLLMService_Ping(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/tags", r.URL.Path)
			_, _ = w.Write([]byte(`{"models":[]}`))
		}))
		defer server.Close()

		assert.NoError(t, NewLLMService(testConfig(server.URL)).Ping(context.Background()))
	})

	t.Run("unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		err := NewLLMService(testConfig(url)).Ping(context.Background())
		assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	})
}
