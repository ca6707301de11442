package cli

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/verbum/internal/adapters/driving/tui"
	"github.com/custodia-labs/verbum/internal/core/domain"
)

func stubRunApp(t *testing.T, err error) **tui.App {
	t.Helper()
	var captured *tui.App
	original := runApp
	runApp = func(app *tui.App) error {
		captured = app
		return err
	}
	t.Cleanup(func() { runApp = original })
	return &captured
}

func TestTUICmd(t *testing.T) {
	t.Run("opens the given document", func(t *testing.T) {
		captured := stubRunApp(t, nil)

		_, err := executeCommand(t, &Services{Question: &mockQuestionService{}}, "", "tui", "notes.txt")

		require.NoError(t, err)
		require.NotNil(t, *captured)
		want, _ := filepath.Abs("notes.txt")
		assert.Equal(t, want, (*captured).Document())
	})

	t.Run("starts without a document", func(t *testing.T) {
		captured := stubRunApp(t, nil)
		s := domain.DefaultAppSettings()
		s.LibraryRoot = "/docs"

		_, err := executeCommand(t, &Services{
			Question: &mockQuestionService{},
			Settings: &mockSettingsService{settings: &s},
		}, "", "tui")

		require.NoError(t, err)
		require.NotNil(t, *captured)
		assert.Empty(t, (*captured).Document())
	})

	t.Run("program error", func(t *testing.T) {
		stubRunApp(t, errors.New("no tty"))

		_, err := executeCommand(t, &Services{Question: &mockQuestionService{}}, "", "tui")

		assert.EqualError(t, err, "TUI error: no tty")
	})

	t.Run("requires the question service", func(t *testing.T) {
		stubRunApp(t, nil)

		_, err := executeCommand(t, nil, "", "tui")

		assert.EqualError(t, err, "question answering is not configured")
	})

	t.Run("at most one argument", func(t *testing.T) {
		stubRunApp(t, nil)

		_, err := executeCommand(t, &Services{Question: &mockQuestionService{}}, "", "tui", "a.txt", "b.txt")

		assert.Error(t, err)
	})
}
