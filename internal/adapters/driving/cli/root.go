// Package cli provides the cobra command tree for Verbum.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/verbum/internal/core/ports/driving"
	"github.com/custodia-labs/verbum/internal/logger"
)

// version is set at build time with -ldflags "-X .../cli.version=...".
var version = "dev"

// Services holds the core services the commands call. Any of them may be
// nil; a command that needs a missing service fails with a hint.
type Services struct {
	Question driving.QuestionService
	Query    driving.QueryService
	Library  driving.LibraryService
	Document driving.DocumentService
	Settings driving.SettingsService

	// Close releases resources held by the services. Optional.
	Close func()
}

// Bootstrap builds the services once global flags are parsed.
type Bootstrap func(opts Options) (*Services, error)

// Options are the global flags passed to the bootstrap.
type Options struct {
	ConfigDir string
	Verbose   bool
}

var (
	questionService driving.QuestionService
	queryService    driving.QueryService
	libraryService  driving.LibraryService
	documentService driving.DocumentService
	settingsService driving.SettingsService

	bootstrap     Bootstrap
	closeServices func()

	globalOpts Options
)

var rootCmd = &cobra.Command{
	Use:   "verbum",
	Short: "Ask questions about your documents",
	Long: `Verbum answers natural-language questions about PDF, text and markdown
documents. Text is split into chunks, ranked against the question with
embeddings and answered by an extractive question answering model, with
a pattern-based fallback when the model is unsure.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.Verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.ConfigDir, "config-dir", "", "configuration directory (default ~/.verbum)")
}

// SetServices injects the core services directly.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	questionService = s.Question
	queryService = s.Query
	libraryService = s.Library
	documentService = s.Document
	settingsService = s.Settings
	closeServices = s.Close
}

// SetBootstrap registers the function that builds services before a
// command runs.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	defer func() {
		if closeServices != nil {
			closeServices()
		}
	}()
	return rootCmd.Execute()
}

func setup(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(globalOpts.Verbose)

	if bootstrap == nil {
		return nil
	}
	services, err := bootstrap(globalOpts)
	if err != nil {
		return fmt.Errorf("initialise: %w", err)
	}
	SetServices(services)
	return nil
}
