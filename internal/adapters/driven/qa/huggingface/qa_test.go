package huggingface

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

func newTestModel(t *testing.T, url string) *QAModel {
	t.Helper()
	m, err := NewQAModel(Config{
		Token:   "hf_test",
		BaseURL: url,
		Retry:   resilience.Policy{MaxRetries: 2, Base: time.Millisecond},
	})
	require.NoError(t, err)
	return m
}

func TestNewQAModel(t *testing.T) {
	_, err := NewQAModel(Config{})
	assert.ErrorIs(t, err, domain.ErrQAUnavailable)

	m, err := NewQAModel(Config{Token: "hf"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, m.ModelName())
}

func TestQAModel_Answer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/"+DefaultModel, r.URL.Path)
		assert.Equal(t, "Bearer hf_test", r.Header.Get("Authorization"))

		var req qaRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Who founded it?", req.Inputs.Question)
		assert.Equal(t, "It was founded by Ada.", req.Inputs.Context)
		assert.Equal(t, 150, req.Parameters.MaxAnswerLen)
		assert.True(t, req.Parameters.HandleImpossibleAnswer)

		_, _ = w.Write([]byte(`{"answer":" Ada ","score":0.87,"start":18,"end":21}`))
	}))
	defer server.Close()

	res, err := newTestModel(t, server.URL).Answer(context.Background(), driven.QARequest{
		Question:        "Who founded it?",
		Context:         "It was founded by Ada.",
		MaxAnswerLength: 150,
		AllowNoAnswer:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", res.Answer)
	assert.InDelta(t, 0.87, res.Score, 1e-9)
}

func TestQAModel_Answer_ListResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"answer":"first","score":0.6},{"answer":"second","score":0.2}]`))
	}))
	defer server.Close()

	res, err := newTestModel(t, server.URL).Answer(context.Background(), driven.QARequest{Question: "q", Context: "c"})
	require.NoError(t, err)
	assert.Equal(t, "first", res.Answer)
}

func TestQAModel_Answer_NoAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"answer":"","score":0.1,"start":0,"end":0}`))
	}))
	defer server.Close()

	res, err := newTestModel(t, server.URL).Answer(context.Background(), driven.QARequest{Question: "q", Context: "c"})
	require.NoError(t, err)
	assert.Empty(t, res.Answer)
	assert.InDelta(t, 0.1, res.Score, 1e-9)
}

func TestQAModel_Answer_RetriesWhileLoading(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":"Model is currently loading","estimated_time":1}`))
			return
		}
		_, _ = w.Write([]byte(`{"answer":"ok","score":0.9}`))
	}))
	defer server.Close()

	res, err := newTestModel(t, server.URL).Answer(context.Background(), driven.QARequest{Question: "q", Context: "c"})
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Answer)
	assert.Equal(t, int32(2), calls.Load())
}

func TestQAModel_Answer_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Invalid credentials"}`))
	}))
	defer server.Close()

	_, err := newTestModel(t, server.URL).Answer(context.Background(), driven.QARequest{Question: "q", Context: "c"})
	assert.ErrorIs(t, err, domain.ErrQAUnavailable)
	assert.ErrorContains(t, err, "Invalid credentials")
}
