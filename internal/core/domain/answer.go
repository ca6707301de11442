package domain

// AnswerSource records which strategy produced an answer.
type AnswerSource string

// Answer sources.
const (
	// AnswerSourceNeural is an answer extracted by the QA model.
	AnswerSourceNeural AnswerSource = "neural"

	// AnswerSourceFallback is a pattern match used after the QA model
	// returned an empty or low-confidence answer.
	AnswerSourceFallback AnswerSource = "fallback"

	// AnswerSourceIntent is a pattern match returned before the QA model
	// ran, because the question asked what the document is about.
	AnswerSourceIntent AnswerSource = "intent"
)

// AnswerResult is the outcome of answering one question.
// Low confidence is data, not an error.
type AnswerResult struct {
	Answer     string       `json:"answer"`
	Confidence float64      `json:"confidence"`
	Context    string       `json:"context"`
	Source     AnswerSource `json:"source,omitempty"`
}

// Match is a successful fallback pattern match.
type Match struct {
	Answer     string
	Confidence float64
	Rule       string
}
