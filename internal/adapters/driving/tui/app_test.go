package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/verbum/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/verbum/internal/core/domain"
)

func newTestApp(t *testing.T) (*App, *MockQuestionService) {
	t.Helper()
	q := &MockQuestionService{Result: &domain.AnswerResult{Answer: "in the nucleus", Confidence: 0.7}}
	app, err := NewApp(&Ports{
		Question: q,
		Query:    &MockQueryService{Reply: "ok"},
		Library: &MockLibraryService{Root: &domain.HierarchyNode{
			Name: "library",
			Type: domain.NodeTypeFolder,
			Children: []domain.HierarchyNode{
				{Name: "rome.pdf", Type: domain.NodeTypeDocument, Path: "rome.pdf"},
			},
		}},
	})
	require.NoError(t, err)
	app.SetDimensions(100, 30)
	return app, q
}

func TestNewApp(t *testing.T) {
	t.Run("valid ports", func(t *testing.T) {
		app, err := NewApp(&Ports{Question: &MockQuestionService{}})

		require.NoError(t, err)
		assert.Equal(t, messages.ViewAsk, app.CurrentView())
		assert.False(t, app.Ready())
	})

	t.Run("nil ports", func(t *testing.T) {
		app, err := NewApp(nil)

		assert.ErrorIs(t, err, ErrInvalidPorts)
		assert.Nil(t, app)
	})

	t.Run("missing question service", func(t *testing.T) {
		app, err := NewApp(&Ports{})

		assert.ErrorIs(t, err, ErrMissingQuestionService)
		assert.Nil(t, app)
	})
}

func TestApp_Builders(t *testing.T) {
	app, err := NewApp(&Ports{Question: &MockQuestionService{}})
	require.NoError(t, err)

	type ctxKey string
	ctx := context.WithValue(context.Background(), ctxKey("k"), "v")

	assert.Same(t, app, app.WithContext(ctx))
	assert.Same(t, app, app.WithDocument("notes.txt"))
	assert.Same(t, app, app.WithLibraryRoot("/lib"))
	assert.Equal(t, "notes.txt", app.Document())
}

func TestApp_Init(t *testing.T) {
	app, _ := newTestApp(t)
	assert.NotNil(t, app.Init())
}

func TestApp_WindowSize(t *testing.T) {
	app, err := NewApp(&Ports{Question: &MockQuestionService{}})
	require.NoError(t, err)
	assert.Equal(t, "Initialising...", app.View())

	model, cmd := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Nil(t, cmd)
	assert.True(t, model.(*App).Ready())
	assert.Contains(t, app.View(), "Verbum")
}

func TestApp_CtrlCQuits(t *testing.T) {
	app, _ := newTestApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_QuitMessage(t *testing.T) {
	app, _ := newTestApp(t)

	_, cmd := app.Update(messages.Quit{})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_HelpView(t *testing.T) {
	app, _ := newTestApp(t)

	app.Update(messages.ViewChanged{View: messages.ViewHelp})
	assert.Equal(t, messages.ViewHelp, app.CurrentView())
	assert.Contains(t, app.View(), "Help")
	assert.Contains(t, app.View(), "question/query")

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewAsk, app.CurrentView())
}

func TestApp_LibraryFlow(t *testing.T) {
	app, q := newTestApp(t)
	app.WithLibraryRoot("/lib")

	_, cmd := app.Update(messages.ViewChanged{View: messages.ViewLibrary})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewLibrary, app.CurrentView())

	app.Update(cmd())
	assert.Contains(t, app.View(), "rome.pdf")

	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	app.Update(cmd())

	assert.Equal(t, messages.ViewAsk, app.CurrentView())
	assert.Equal(t, "/lib/rome.pdf", app.Document())

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("who founded rome?")})
	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	for _, c := range batch {
		if c == nil {
			continue
		}
		if msg, ok := c().(messages.AnswerCompleted); ok {
			app.Update(msg)
		}
	}

	assert.Equal(t, "/lib/rome.pdf", q.Path)
	assert.Contains(t, app.View(), "in the nucleus")
	assert.NoError(t, app.Err())
}

func TestApp_RecordsServiceErrors(t *testing.T) {
	app, _ := newTestApp(t)

	app.Update(messages.AnswerCompleted{Err: domain.ErrQAUnavailable})
	assert.ErrorIs(t, app.Err(), domain.ErrQAUnavailable)

	app.Update(messages.QueryCompleted{Err: domain.ErrLLMUnavailable})
	assert.ErrorIs(t, app.Err(), domain.ErrLLMUnavailable)

	boom := errors.New("boom")
	app.Update(messages.ErrorOccurred{Err: boom})
	assert.ErrorIs(t, app.Err(), boom)
}
