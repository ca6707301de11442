// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/verbum/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/verbum/internal/adapters/driving/tui/styles"
)

// Placeholders per input mode.
const (
	QuestionPlaceholder = "Ask a question about the document..."
	QueryPlaceholder    = "Ask the chat model about the document..."
)

// QuestionInput wraps a bubbles textinput with a mode-dependent label.
type QuestionInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	mode      messages.Mode
	width     int
}

// NewQuestionInput creates a focused question input.
func NewQuestionInput(s *styles.Styles) *QuestionInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = QuestionPlaceholder
	ti.Focus()
	ti.CharLimit = 512
	ti.Width = 60

	return &QuestionInput{
		textinput: ti,
		styles:    s,
		width:     60,
	}
}

// Init starts the cursor blinking.
func (q *QuestionInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (q *QuestionInput) Update(msg tea.Msg) (*QuestionInput, tea.Cmd) {
	var cmd tea.Cmd
	q.textinput, cmd = q.textinput.Update(msg)
	return q, cmd
}

// View renders the label and the input box.
func (q *QuestionInput) View() string {
	label := q.styles.Title.Render(q.label())
	box := q.styles.InputField.Render(q.textinput.View())
	//nolint:misspell // lipgloss.Center is the library's spelling
	return lipgloss.JoinHorizontal(lipgloss.Center, label, box)
}

func (q *QuestionInput) label() string {
	if q.mode == messages.ModeQuery {
		return "Query: "
	}
	return "Question: "
}

// SetMode switches the label and placeholder.
func (q *QuestionInput) SetMode(mode messages.Mode) {
	q.mode = mode
	if mode == messages.ModeQuery {
		q.textinput.Placeholder = QueryPlaceholder
		return
	}
	q.textinput.Placeholder = QuestionPlaceholder
}

// Mode returns the current mode.
func (q *QuestionInput) Mode() messages.Mode {
	return q.mode
}

// Value returns the current input value.
func (q *QuestionInput) Value() string {
	return q.textinput.Value()
}

// SetValue sets the input value.
func (q *QuestionInput) SetValue(value string) {
	q.textinput.SetValue(value)
}

// Placeholder returns the current placeholder.
func (q *QuestionInput) Placeholder() string {
	return q.textinput.Placeholder
}

// Focus sets focus on the input.
func (q *QuestionInput) Focus() tea.Cmd {
	return q.textinput.Focus()
}

// Blur removes focus from the input.
func (q *QuestionInput) Blur() {
	q.textinput.Blur()
}

// Focused returns whether the input is focused.
func (q *QuestionInput) Focused() bool {
	return q.textinput.Focused()
}

// SetWidth sets the total width, leaving room for the label and border.
func (q *QuestionInput) SetWidth(width int) {
	q.width = width
	inputWidth := width - 16
	if inputWidth < 20 {
		inputWidth = 20
	}
	q.textinput.Width = inputWidth
}

// Width returns the current width.
func (q *QuestionInput) Width() int {
	return q.width
}

// Reset clears the input.
func (q *QuestionInput) Reset() {
	q.textinput.Reset()
}
