// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/verbum/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/verbum/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/verbum/internal/adapters/driving/tui/styles"
)

// State represents the current application state for display.
type State string

const (
	StateReady     State = "ready"
	StateAnswering State = "answering"
	StateAnswered  State = "answered"
	StateError     State = "error"
)

// Bar displays the open document, the current state and keybinding hints.
type Bar struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	state    State
	message  string
	document string
	mode     messages.Mode
	width    int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update is a no-op; the bar is driven through its setters.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	doc := "no document"
	if s.document != "" {
		doc = filepath.Base(s.document)
	}
	prefix := fmt.Sprintf("[%s] %s ", s.mode, doc)

	switch s.state {
	case StateAnswering:
		return s.styles.Muted.Render(prefix + "· thinking...")
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(prefix + "· " + s.message)
		}
		return s.styles.Error.Render(prefix + "· error")
	case StateAnswered:
		if s.message != "" {
			return s.styles.Normal.Render(prefix + "· " + s.message)
		}
	case StateReady:
	}
	return s.styles.Muted.Render(prefix + "· ready")
}

func (s *Bar) renderRight() string {
	bindings := s.keymap.AskHelp()
	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Help.Render(strings.Join(hints, " | "))
}

// Bindings returns the hints shown on the right.
func (s *Bar) Bindings() []key.Binding {
	return s.keymap.AskHelp()
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets the message shown after the state.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetDocument sets the open document path.
func (s *Bar) SetDocument(path string) {
	s.document = path
}

// Document returns the open document path.
func (s *Bar) Document() string {
	return s.document
}

// SetMode sets the input mode shown in the bar.
func (s *Bar) SetMode(mode messages.Mode) {
	s.mode = mode
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets state and message. The document is kept.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
}
