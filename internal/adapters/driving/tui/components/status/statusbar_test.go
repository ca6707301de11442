package status

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/verbum/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/verbum/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/verbum/internal/adapters/driving/tui/styles"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Empty(t, bar.Message())
	assert.Empty(t, bar.Document())
	assert.Equal(t, 80, bar.Width())
}

func TestNewBar_NilDependencies(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
	assert.Nil(t, bar.Init())
}

func TestBar_UpdateIsPassive(t *testing.T) {
	bar := NewBar(nil, nil)

	updated, cmd := bar.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Same(t, bar, updated)
	assert.Nil(t, cmd)
}

func TestBar_View(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(b *Bar)
		contains []string
	}{
		{
			name:     "ready without document",
			setup:    func(b *Bar) {},
			contains: []string{"[question]", "no document", "ready"},
		},
		{
			name: "answering shows document base name",
			setup: func(b *Bar) {
				b.SetDocument("/library/biology/cell.pdf")
				b.SetState(StateAnswering)
			},
			contains: []string{"cell.pdf", "thinking"},
		},
		{
			name: "error message",
			setup: func(b *Bar) {
				b.SetState(StateError)
				b.SetMessage("qa model unavailable")
			},
			contains: []string{"qa model unavailable"},
		},
		{
			name: "answered in query mode",
			setup: func(b *Bar) {
				b.SetMode(messages.ModeQuery)
				b.SetState(StateAnswered)
				b.SetMessage("reply received")
			},
			contains: []string{"[query]", "reply received"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(200)
			tt.setup(bar)

			view := bar.View()
			for _, want := range tt.contains {
				assert.Contains(t, view, want)
			}
			assert.Contains(t, view, "enter: ask")
		})
	}
}

func TestBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetDocument("doc.txt")
	bar.SetState(StateError)
	bar.SetMessage("boom")

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Empty(t, bar.Message())
	assert.Equal(t, "doc.txt", bar.Document())
}

func TestBar_Bindings(t *testing.T) {
	bar := NewBar(nil, nil)
	assert.NotEmpty(t, bar.Bindings())
}
