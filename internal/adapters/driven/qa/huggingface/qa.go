// Package huggingface provides an extractive question answering adapter
// using the Hugging Face inference API.
package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/verbum/internal/adapters/driven/resilience"
	"github.com/custodia-labs/verbum/internal/core/domain"
	"github.com/custodia-labs/verbum/internal/core/ports/driven"
)

// Ensure QAModel implements the interface.
var _ driven.QAModel = (*QAModel)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api-inference.huggingface.co/models"
	DefaultModel   = "distilbert-base-cased-distilled-squad"
	DefaultTimeout = 60 * time.Second
)

const provider = "huggingface"

// Config holds configuration for the Hugging Face QA model.
type Config struct {
	// Token is the Hugging Face access token (required).
	Token string

	// BaseURL is the inference API base URL.
	BaseURL string

	// Model is the extractive QA model (default: distilbert-base-cased-distilled-squad).
	Model string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration

	// Retry configures retries; a cold model answers 503 while loading.
	Retry resilience.Policy
}

// QAModel answers questions by extracting a span from a passage.
type QAModel struct {
	client  *http.Client
	baseURL string
	token   string
	model   string
	policy  resilience.Policy
	limiter *resilience.Limiter
}

type qaInputs struct {
	Question string `json:"question"`
	Context  string `json:"context"`
}

type qaParameters struct {
	MaxAnswerLen           int  `json:"max_answer_len,omitempty"`
	HandleImpossibleAnswer bool `json:"handle_impossible_answer"`
}

type qaRequest struct {
	Inputs     qaInputs     `json:"inputs"`
	Parameters qaParameters `json:"parameters"`
}

type qaResponse struct {
	Answer string  `json:"answer"`
	Score  float64 `json:"score"`
	Start  int     `json:"start"`
	End    int     `json:"end"`
}

// NewQAModel creates a new Hugging Face QA model client.
func NewQAModel(cfg Config) (*QAModel, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("%w: huggingface: access token is required", domain.ErrQAUnavailable)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Retry == (resilience.Policy{}) {
		cfg.Retry = resilience.DefaultPolicy()
	}

	return &QAModel{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		model:   cfg.Model,
		policy:  cfg.Retry,
		limiter: resilience.NewLimiter(provider),
	}, nil
}

// Answer returns the best span for the question.
func (m *QAModel) Answer(ctx context.Context, req driven.QARequest) (driven.QAResult, error) {
	body, err := json.Marshal(qaRequest{
		Inputs: qaInputs{Question: req.Question, Context: req.Context},
		Parameters: qaParameters{
			MaxAnswerLen:           req.MaxAnswerLength,
			HandleImpossibleAnswer: req.AllowNoAnswer,
		},
	})
	if err != nil {
		return driven.QAResult{}, fmt.Errorf("marshal request: %w", err)
	}

	var out qaResponse
	err = resilience.Do(ctx, m.policy, m.limiter, func(ctx context.Context) error {
		raw, err := m.post(ctx, body)
		if err != nil {
			return err
		}
		out, err = decodeAnswer(raw)
		return err
	})
	if err != nil {
		return driven.QAResult{}, resilience.Classify(fmt.Errorf("huggingface qa: %w", err), domain.ErrQAUnavailable)
	}

	return driven.QAResult{Answer: strings.TrimSpace(out.Answer), Score: out.Score}, nil
}

func (m *QAModel) post(ctx context.Context, body []byte) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/"+m.model, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.token)

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if err := resilience.CheckResponse(provider, resp); err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return raw, nil
}

// decodeAnswer accepts either a single answer object or a ranked list.
func decodeAnswer(raw json.RawMessage) (qaResponse, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []qaResponse
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return qaResponse{}, fmt.Errorf("decode answers: %w", err)
		}
		if len(list) == 0 {
			return qaResponse{}, nil
		}
		return list[0], nil
	}

	var out qaResponse
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return qaResponse{}, fmt.Errorf("decode answer: %w", err)
	}
	return out, nil
}

// ModelName returns the name of the QA model being used.
func (m *QAModel) ModelName() string {
	return m.model
}

// Ping checks the model endpoint with a trivial question.
func (m *QAModel) Ping(ctx context.Context) error {
	_, err := m.Answer(ctx, driven.QARequest{Question: "ping?", Context: "ping", AllowNoAnswer: true})
	return err
}

// Close releases resources.
func (m *QAModel) Close() error {
	return nil
}
