package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/verbum/internal/core/domain"
	"github.com/custodia-labs/verbum/internal/core/ports/driven"
	"github.com/custodia-labs/verbum/internal/logger"
)

// synthState is a step of the answer state machine.
type synthState int

const (
	stateRanked synthState = iota
	stateIntent
	stateNeuralAttempted
	stateAccepted
	stateFallbackAttempted
	stateDone
)

func (s synthState) String() string {
	switch s {
	case stateRanked:
		return "RANKED"
	case stateIntent:
		return "INTENT"
	case stateNeuralAttempted:
		return "NEURAL_ATTEMPTED"
	case stateAccepted:
		return "ACCEPTED"
	case stateFallbackAttempted:
		return "FALLBACK_ATTEMPTED"
	case stateDone:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

// SynthesisInput is everything the synthesizer needs for one question.
type SynthesisInput struct {
	Question string

	// FirstChunk is the raw first chunk of the document.
	FirstChunk string

	// Relevant are the ranked, cleaned chunks, best first.
	Relevant []string

	// SessionRules are rules learned for this document.
	SessionRules domain.RuleSet
}

// Synthesizer answers a question from ranked chunks, trying the extractive
// QA model and the pattern matcher in a fixed precedence order.
type Synthesizer struct {
	qa       driven.QAModel
	matcher  *Matcher
	settings domain.SynthSettings
}

// NewSynthesizer creates a synthesizer. qa may be nil; questions that need
// the neural model then fail with domain.ErrQAUnavailable.
func NewSynthesizer(qa driven.QAModel, matcher *Matcher, settings domain.SynthSettings) *Synthesizer {
	return &Synthesizer{qa: qa, matcher: matcher, settings: settings}
}

// run carries the state machine's working values.
type run struct {
	in      SynthesisInput
	state   synthState
	passage string
	neural  driven.QAResult
	result  domain.AnswerResult
}

// Synthesize runs the state machine to completion. It fails only when the
// QA model call fails; a low-confidence or empty answer is returned as is.
func (s *Synthesizer) Synthesize(ctx context.Context, in SynthesisInput) (*domain.AnswerResult, error) {
	r := &run{in: in, state: stateRanked}

	for r.state != stateDone {
		next, err := s.step(ctx, r)
		if err != nil {
			return nil, err
		}
		logger.Debug("synthesizer: %s -> %s", r.state, next)
		r.state = next
	}

	return &r.result, nil
}

func (s *Synthesizer) step(ctx context.Context, r *run) (synthState, error) {
	switch r.state {
	case stateRanked:
		if s.hasIntent(r.in.Question) {
			return stateIntent, nil
		}
		return s.neural(ctx, r)

	case stateIntent:
		candidates := append([]string{r.in.FirstChunk}, r.in.Relevant...)
		if m, ok := s.matcher.Match(r.in.Question, candidates, r.in.SessionRules); ok {
			r.result = domain.AnswerResult{
				Answer:     m.Answer,
				Confidence: m.Confidence,
				Context:    strings.Join(r.in.Relevant[:min(2, len(r.in.Relevant))], " "),
				Source:     domain.AnswerSourceIntent,
			}
			return stateDone, nil
		}
		return s.neural(ctx, r)

	case stateNeuralAttempted:
		if strings.TrimSpace(r.neural.Answer) != "" && r.neural.Score >= s.settings.MinConfidence {
			return stateAccepted, nil
		}
		return stateFallbackAttempted, nil

	case stateAccepted:
		r.result = s.neuralResult(r)
		return stateDone, nil

	case stateFallbackAttempted:
		r.result = s.neuralResult(r)
		if m, ok := s.matcher.Match(r.in.Question, r.in.Relevant, r.in.SessionRules); ok {
			r.result.Answer = m.Answer
			r.result.Confidence = m.Confidence
			r.result.Source = domain.AnswerSourceFallback
		}
		return stateDone, nil

	default:
		return stateDone, fmt.Errorf("synthesizer in unexpected state %s", r.state)
	}
}

// neural calls the QA model over the joined relevant chunks.
func (s *Synthesizer) neural(ctx context.Context, r *run) (synthState, error) {
	if s.qa == nil {
		return stateDone, fmt.Errorf("%w: no question answering model configured", domain.ErrQAUnavailable)
	}

	r.passage = strings.Join(r.in.Relevant, " ")
	res, err := s.qa.Answer(ctx, driven.QARequest{
		Question:        r.in.Question,
		Context:         r.passage,
		MaxAnswerLength: s.settings.MaxAnswerLength,
		AllowNoAnswer:   s.settings.AllowNoAnswer,
	})
	if err != nil {
		return stateDone, fmt.Errorf("question answering: %w", err)
	}

	logger.Debug("QA model result: answer=%q score=%.4f", res.Answer, res.Score)
	r.neural = res
	return stateNeuralAttempted, nil
}

func (s *Synthesizer) neuralResult(r *run) domain.AnswerResult {
	return domain.AnswerResult{
		Answer:     r.neural.Answer,
		Confidence: r.neural.Score,
		Context:    r.passage,
		Source:     domain.AnswerSourceNeural,
	}
}

func (s *Synthesizer) hasIntent(question string) bool {
	return containsAny(strings.ToLower(question), s.settings.IntentKeywords)
}
