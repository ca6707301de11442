package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/verbum/internal/core/domain"
)

func newTestServer(t *testing.T, ports *Ports) *Server {
	t.Helper()
	if ports.Question == nil {
		ports.Question = &mockQuestionService{}
	}
	server, err := NewServer(ports)
	require.NoError(t, err)
	return server
}

func TestServer_handleAnswerText(t *testing.T) {
	ctx := context.Background()

	t.Run("returns structured answer", func(t *testing.T) {
		question := &mockQuestionService{result: &domain.AnswerResult{
			Answer:     "High-Tech Startups",
			Confidence: 0.95,
			Context:    "Fifty Best Tips for High-Tech Startups",
			Source:     domain.AnswerSourceIntent,
		}}
		server := newTestServer(t, &Ports{Question: question})

		_, out, err := server.handleAnswerText(ctx, nil, AnswerTextInput{
			Text:     "document text",
			Question: "What is the main focus?",
		})
		require.NoError(t, err)

		assert.Equal(t, AnswerOutput{
			Answer:     "High-Tech Startups",
			Confidence: 0.95,
			Context:    "Fifty Best Tips for High-Tech Startups",
			Source:     "intent",
		}, out)
		assert.Equal(t, "document text", question.lastText)
		assert.Equal(t, "What is the main focus?", question.lastQuestion)
	})

	t.Run("adds hint to unavailable model errors", func(t *testing.T) {
		question := &mockQuestionService{err: domain.ErrQAUnavailable}
		server := newTestServer(t, &Ports{Question: question})

		_, _, err := server.handleAnswerText(ctx, nil, AnswerTextInput{Text: "x", Question: "y"})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrQAUnavailable)
		assert.Contains(t, err.Error(), "HF_TOKEN")
	})
}

func TestServer_handleAskDocument(t *testing.T) {
	question := &mockQuestionService{result: &domain.AnswerResult{Answer: "Jane Smith", Confidence: 0.9}}
	server := newTestServer(t, &Ports{Question: question})

	_, out, err := server.handleAskDocument(context.Background(), nil, AskDocumentInput{
		Path:     "books/guide.pdf",
		Question: "Who is the author?",
	})
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", out.Answer)
	assert.Equal(t, "books/guide.pdf", question.lastPath)
}

func TestServer_handleQueryDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("not configured", func(t *testing.T) {
		server := newTestServer(t, &Ports{})
		_, _, err := server.handleQueryDocument(ctx, nil, QueryDocumentInput{Path: "a.pdf", Query: "summarise"})
		assert.ErrorIs(t, err, errQueryDisabled)
	})

	t.Run("returns reply", func(t *testing.T) {
		server := newTestServer(t, &Ports{Query: &mockQueryService{reply: "A short summary."}})
		_, out, err := server.handleQueryDocument(ctx, nil, QueryDocumentInput{Path: "a.pdf", Query: "summarise"})
		require.NoError(t, err)
		assert.Equal(t, "A short summary.", out.Reply)
	})

	t.Run("propagates errors", func(t *testing.T) {
		server := newTestServer(t, &Ports{Query: &mockQueryService{err: errors.New("boom")}})
		_, _, err := server.handleQueryDocument(ctx, nil, QueryDocumentInput{Path: "a.pdf", Query: "q"})
		assert.EqualError(t, err, "boom")
	})
}

func TestServer_handleLibraryTools(t *testing.T) {
	ctx := context.Background()
	root := &domain.HierarchyNode{Name: "root", Type: domain.NodeTypeFolder, Children: []domain.HierarchyNode{
		{Name: "biology", Type: domain.NodeTypeFolder, Path: "biology", Children: []domain.HierarchyNode{
			{Name: "cells.pdf", Type: domain.NodeTypeDocument, Path: "biology/cells.pdf"},
		}},
		{Name: "history", Type: domain.NodeTypeFolder, Path: "history"},
	}}
	distances := []domain.FolderDistance{{A: "biology", B: "history", Distance: 0.42}}

	t.Run("not configured", func(t *testing.T) {
		server := newTestServer(t, &Ports{})
		_, _, err := server.handleLibraryTree(ctx, nil, LibraryTreeInput{})
		assert.ErrorIs(t, err, errLibraryDisabled)
		_, _, err = server.handleLibraryDistances(ctx, nil, LibraryTreeInput{})
		assert.ErrorIs(t, err, errLibraryDisabled)
	})

	t.Run("tree and distances", func(t *testing.T) {
		server := newTestServer(t, &Ports{Library: &mockLibraryService{root: root, distances: distances}})

		_, tree, err := server.handleLibraryTree(ctx, nil, LibraryTreeInput{})
		require.NoError(t, err)
		assert.Equal(t, 3, tree.Count)
		assert.Equal(t, []LibraryEntry{
			{Path: "biology", Type: "folder", Depth: 0},
			{Path: "biology/cells.pdf", Type: "document", Depth: 1},
			{Path: "history", Type: "folder", Depth: 0},
		}, tree.Entries)

		_, out, err := server.handleLibraryDistances(ctx, nil, LibraryTreeInput{})
		require.NoError(t, err)
		assert.Equal(t, distances, out.Distances)
	})
}
