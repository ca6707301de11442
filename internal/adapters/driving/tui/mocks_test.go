package tui

import (
	"context"

	"github.com/custodia-labs/verbum/internal/core/domain"
)

type MockQuestionService struct {
	Result *domain.AnswerResult
	Err    error
	Path   string
}

func (m *MockQuestionService) AnswerQuestion(context.Context, string, string) (*domain.AnswerResult, error) {
	return m.Result, m.Err
}

func (m *MockQuestionService) AskDocument(_ context.Context, path, _ string) (*domain.AnswerResult, error) {
	m.Path = path
	return m.Result, m.Err
}

type MockQueryService struct {
	Reply string
	Err   error
}

func (m *MockQueryService) Query(context.Context, string, string) (string, error) {
	return m.Reply, m.Err
}

type MockLibraryService struct {
	Root *domain.HierarchyNode
	Err  error
}

func (m *MockLibraryService) Hierarchy(context.Context) (*domain.HierarchyNode, error) {
	return m.Root, m.Err
}

func (m *MockLibraryService) Distances(context.Context) ([]domain.FolderDistance, error) {
	return nil, nil
}
