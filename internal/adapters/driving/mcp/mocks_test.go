package mcp

import (
	"context"

	"github.com/custodia-labs/verbum/internal/core/domain"
)

// mockQuestionService is a mock implementation of driving.QuestionService.
type mockQuestionService struct {
	result       *domain.AnswerResult
	err          error
	lastText     string
	lastPath     string
	lastQuestion string
}

func (m *mockQuestionService) AnswerQuestion(_ context.Context, text, question string) (*domain.AnswerResult, error) {
	m.lastText, m.lastQuestion = text, question
	return m.result, m.err
}

func (m *mockQuestionService) AskDocument(_ context.Context, path, question string) (*domain.AnswerResult, error) {
	m.lastPath, m.lastQuestion = path, question
	return m.result, m.err
}

// mockQueryService is a mock implementation of driving.QueryService.
type mockQueryService struct {
	reply string
	err   error
}

func (m *mockQueryService) Query(_ context.Context, _, _ string) (string, error) {
	return m.reply, m.err
}

// mockLibraryService is a mock implementation of driving.LibraryService.
type mockLibraryService struct {
	root      *domain.HierarchyNode
	distances []domain.FolderDistance
	err       error
}

func (m *mockLibraryService) Hierarchy(_ context.Context) (*domain.HierarchyNode, error) {
	return m.root, m.err
}

func (m *mockLibraryService) Distances(_ context.Context) ([]domain.FolderDistance, error) {
	return m.distances, m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	docs map[string]string
}

func (m *mockDocumentService) Load(_ context.Context, path string) (*domain.Document, error) {
	text, ok := m.docs[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &domain.Document{Path: path, Content: text}, nil
}

func (m *mockDocumentService) Chunks(_ context.Context, _ string) ([]domain.Chunk, error) {
	return nil, nil
}
