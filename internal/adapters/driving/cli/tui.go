package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/verbum/internal/adapters/driving/tui"
	"github.com/custodia-labs/verbum/internal/logger"
)

// runApp starts the program; replaced in tests.
var runApp = func(app *tui.App) error {
	return app.Run()
}

var tuiCmd = &cobra.Command{
	Use:   "tui [document]",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface.

Type a question and press enter to answer it from the open document.
Tab switches to free-form queries answered by the chat model.

Controls:
  Enter    - Ask
  Tab      - Question / query mode
  Ctrl+O   - Browse the library
  Ctrl+T   - Show or hide the supporting passage
  F1       - Help
  Esc      - Back
  Ctrl+C   - Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	if questionService == nil {
		return fmt.Errorf("question answering is not configured")
	}

	app, err := tui.NewApp(tui.NewPorts(questionService, queryService, libraryService))
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	if root := libraryRoot(); root != "" {
		app.WithLibraryRoot(root)
	}
	if len(args) == 1 {
		abs, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("resolve %s: %w", args[0], err)
		}
		app.WithDocument(abs)
	}

	// The program owns the terminal; keep log output out of it.
	logger.SetOutput(io.Discard)
	defer logger.SetOutput(os.Stderr)

	if err := runApp(app); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

func libraryRoot() string {
	if settingsService == nil {
		return ""
	}
	settings, err := settingsService.Get()
	if err != nil {
		logger.Debug("settings unavailable: %v", err)
		return ""
	}
	return settings.LibraryRoot
}
