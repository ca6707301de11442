package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/verbum/internal/core/domain"
	"github.com/custodia-labs/verbum/internal/core/ports/driven"
	"github.com/custodia-labs/verbum/internal/core/ports/driving"
	"github.com/custodia-labs/verbum/internal/logger"
)

// Ensure QuestionService implements the interface.
var _ driving.QuestionService = (*QuestionService)(nil)

// QuestionService answers questions about a single document: it chunks
// the text, ranks chunks against the question and synthesizes an answer.
type QuestionService struct {
	pipeline  driven.PostProcessorPipeline
	gateway   *Gateway
	ranker    *Ranker
	synth     *Synthesizer
	topK      int
	documents *DocumentService
	sessions  driven.SessionStore
}

// NewQuestionService creates a question service.
func NewQuestionService(
	pipeline driven.PostProcessorPipeline,
	gateway *Gateway,
	ranker *Ranker,
	synth *Synthesizer,
	topK int,
) *QuestionService {
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	return &QuestionService{
		pipeline: pipeline,
		gateway:  gateway,
		ranker:   ranker,
		synth:    synth,
		topK:     topK,
	}
}

// SetDocumentService enables AskDocument.
func (s *QuestionService) SetDocumentService(documents *DocumentService) {
	s.documents = documents
}

// SetSessionStore keeps learned rules between questions about a document.
// Without a store every question starts a fresh session.
func (s *QuestionService) SetSessionStore(store driven.SessionStore) {
	s.sessions = store
}

// AnswerQuestion answers a question about raw document text.
func (s *QuestionService) AnswerQuestion(
	ctx context.Context, documentText, question string,
) (*domain.AnswerResult, error) {
	doc := &domain.Document{
		ID:      textID(documentText),
		Title:   firstLine(documentText),
		Content: documentText,
	}
	return s.answer(ctx, doc, question)
}

// AskDocument extracts the document at path and answers a question about it.
func (s *QuestionService) AskDocument(ctx context.Context, path, question string) (*domain.AnswerResult, error) {
	if s.documents == nil {
		return nil, fmt.Errorf("%w: document loading not configured", domain.ErrInvalidInput)
	}
	doc, err := s.documents.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	return s.answer(ctx, doc, question)
}

func (s *QuestionService) answer(
	ctx context.Context, doc *domain.Document, question string,
) (*domain.AnswerResult, error) {
	logger.Section("Question")
	logger.Debug("Question: %q", question)

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	chunks, err := s.pipeline.Process(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("chunk document: %w", err)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: document has no usable text", domain.ErrEmptyInput)
	}
	logger.Debug("Document %s split into %d chunks", doc.ID, len(chunks))

	session, err := s.session(ctx, doc.ID)
	if err != nil {
		return nil, err
	}
	if AnalyzeDocument(session, chunks[0].Content) && s.sessions != nil {
		if err := s.sessions.Save(ctx, session); err != nil {
			logger.Warn("failed to save session for %s: %v", doc.ID, err)
		}
	}

	chunkVectors, err := s.gateway.Embed(ctx, domain.ChunkContents(chunks))
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	questionVector, err := s.gateway.EmbedOne(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	ranked, err := s.ranker.Rank(questionVector, chunkVectors, chunks, question, s.topK)
	if err != nil {
		return nil, fmt.Errorf("rank chunks: %w", err)
	}

	relevant := make([]string, len(ranked))
	for i, rc := range ranked {
		relevant[i] = rc.Content
		logger.DebugKV("ranked chunk", "index", rc.Index, "score", rc.Score, "keywords", rc.KeywordMatches)
	}

	result, err := s.synth.Synthesize(ctx, SynthesisInput{
		Question:     question,
		FirstChunk:   chunks[0].Content,
		Relevant:     relevant,
		SessionRules: session.Rules,
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("Answer %q (confidence %.2f, source %s)", result.Answer, result.Confidence, result.Source)
	return result, nil
}

func (s *QuestionService) session(ctx context.Context, documentID string) (*domain.DocumentSession, error) {
	if s.sessions == nil {
		return &domain.DocumentSession{DocumentID: documentID}, nil
	}
	session, err := s.sessions.Session(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return session, nil
}
