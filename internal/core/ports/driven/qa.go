package driven

import "context"

// QAModel extracts an answer span from a context passage.
// The model is a black box: (question, context) in, span and score out.
type QAModel interface {
	// Answer returns the best-scoring span. An empty answer with a score
	// is a valid result when AllowNoAnswer is set.
	Answer(ctx context.Context, req QARequest) (QAResult, error)

	// ModelName returns the name of the QA model being used.
	ModelName() string

	// Ping validates the service is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// QARequest is a single extractive question.
type QARequest struct {
	Question string

	// Context is the passage the answer is extracted from.
	Context string

	// MaxAnswerLength bounds the answer span.
	MaxAnswerLength int

	// AllowNoAnswer lets the model return an empty answer.
	AllowNoAnswer bool
}

// QAResult is the span returned by a QAModel.
type QAResult struct {
	Answer string
	Score  float64
}
