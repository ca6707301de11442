package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/verbum/internal/core/domain"
)

var settingsAPIKey string

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the chunker, ranker, answer thresholds and model providers.

Settings live in ~/.verbum/config.toml. Environment variables (OPENAI_API_KEY,
HF_TOKEN, MODEL_NAME, MAX_CHUNK_SIZE, MIN_CONFIDENCE, VERBUM_LIBRARY) override
the file.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsProviderCmd = &cobra.Command{
	Use:   "provider [role] [provider] [model]",
	Short: "Configure the model provider for a role",
	Long: `Configure the provider used for one of the model roles:

  embedding - chunk and question embeddings (ollama, openai)
  qa        - extractive question answering (huggingface)
  llm       - free-form document queries (ollama, openai)

The model defaults to the provider's default for the role. Cloud providers
prompt for an API key unless --api-key is given.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runSettingsProvider,
}

var settingsSetKeyCmd = &cobra.Command{
	Use:   "set-key [role] [key]",
	Short: "Store the API key for a model role",
	Long: `Store the API key for a model role. When the key is not given as an
argument it is read from the terminal without echo.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSettingsSetKey,
}

func init() {
	settingsProviderCmd.Flags().StringVar(&settingsAPIKey, "api-key", "", "API key for cloud providers")
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsProviderCmd)
	settingsCmd.AddCommand(settingsSetKeyCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Chunker]")
	cmd.Printf("  Chunk size: %d\n", settings.Chunker.ChunkSize)
	cmd.Printf("  Overlap: %d\n", settings.Chunker.Overlap)
	cmd.Printf("  Max chunks: %d\n", settings.Chunker.MaxChunks)
	cmd.Printf("  Min length: %d\n", settings.Chunker.MinLength)
	cmd.Println()

	cmd.Println("[Ranker]")
	cmd.Printf("  Keyword boost: %.2f\n", settings.Ranker.KeywordBoost)
	cmd.Printf("  Top K: %d\n", settings.Ranker.TopK)
	cmd.Println()

	cmd.Println("[Answers]")
	cmd.Printf("  Min confidence: %.2f\n", settings.Synth.MinConfidence)
	cmd.Printf("  Max answer length: %d\n", settings.Synth.MaxAnswerLength)
	cmd.Printf("  Intent keywords: %s\n", strings.Join(settings.Synth.IntentKeywords, ", "))
	cmd.Println()

	printModel(cmd, "Embedding", settings.Embedding)
	printModel(cmd, "QA", settings.QA)
	printModel(cmd, "LLM", settings.LLM)

	cmd.Println("[Library]")
	if settings.LibraryRoot != "" {
		cmd.Printf("  Root: %s\n", settings.LibraryRoot)
	} else {
		cmd.Println("  Root: (not set)")
	}
	cmd.Println()

	cmd.Println("[Cache]")
	if settings.Cache.Persistent {
		cmd.Println("  Persistent: yes")
	} else {
		cmd.Println("  Persistent: no")
	}
	cmd.Printf("  Vector entries: %d\n", settings.Cache.VectorEntries)
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func printModel(cmd *cobra.Command, title string, m domain.ModelSettings) {
	cmd.Printf("[%s]\n", title)
	if m.Provider == "" {
		cmd.Println("  Status: not configured")
		cmd.Println()
		return
	}

	cmd.Printf("  Provider: %s\n", m.Provider.Description())
	cmd.Printf("  Model: %s\n", m.Model)
	if m.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", m.BaseURL)
	}
	if m.Provider.RequiresAPIKey() {
		if m.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(m.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	status := "configured"
	if !m.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()
}

func runSettingsProvider(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	role := args[0]
	provider := domain.AIProvider(strings.ToLower(args[1]))
	var model string
	if len(args) == 3 {
		model = args[2]
	}

	apiKey := settingsAPIKey
	if provider.RequiresAPIKey() && apiKey == "" {
		cmd.Printf("Enter %s API key: ", provider)
		apiKey = readPassword()
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.SetProvider(role, provider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure %s provider: %w", role, err)
	}

	cmd.Printf("%s provider configured: %s\n", role, provider.Description())
	return nil
}

func runSettingsSetKey(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	var key string
	if len(args) == 2 {
		key = args[1]
	} else {
		cmd.Printf("Enter API key for %s: ", args[0])
		key = readPassword()
		cmd.Println()
	}

	if err := settingsService.SetAPIKey(args[0], key); err != nil {
		return fmt.Errorf("failed to store API key: %w", err)
	}
	cmd.Printf("API key stored for %s: %s\n", args[0], maskAPIKey(key))
	return nil
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
