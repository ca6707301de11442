package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/verbum/internal/adapters/driving/tui/messages"
)

func TestNewQuestionInput(t *testing.T) {
	in := NewQuestionInput(nil)

	require.NotNil(t, in)
	assert.True(t, in.Focused())
	assert.Equal(t, messages.ModeQuestion, in.Mode())
	assert.Equal(t, QuestionPlaceholder, in.Placeholder())
	assert.NotNil(t, in.Init())
}

func TestQuestionInput_Typing(t *testing.T) {
	in := NewQuestionInput(nil)

	in, _ = in.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("why?")})

	assert.Equal(t, "why?", in.Value())

	in.Reset()
	assert.Empty(t, in.Value())
}

func TestQuestionInput_SetMode(t *testing.T) {
	in := NewQuestionInput(nil)

	in.SetMode(messages.ModeQuery)
	assert.Equal(t, QueryPlaceholder, in.Placeholder())
	assert.Contains(t, in.View(), "Query:")

	in.SetMode(messages.ModeQuestion)
	assert.Equal(t, QuestionPlaceholder, in.Placeholder())
	assert.Contains(t, in.View(), "Question:")
}

func TestQuestionInput_FocusBlur(t *testing.T) {
	in := NewQuestionInput(nil)

	in.Blur()
	assert.False(t, in.Focused())

	in.Focus()
	assert.True(t, in.Focused())
}

func TestQuestionInput_SetWidth(t *testing.T) {
	in := NewQuestionInput(nil)

	in.SetWidth(100)
	assert.Equal(t, 100, in.Width())
	assert.Equal(t, 84, in.textinput.Width)

	in.SetWidth(10)
	assert.Equal(t, 20, in.textinput.Width)
}
