package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/verbum/internal/core/domain"
)

var (
	askJSON  bool
	askStdin bool
)

var askCmd = &cobra.Command{
	Use:   "ask [document] [question]",
	Short: "Answer a question about a document",
	Long: `Answers a question about a single document.

The document is chunked, the chunks most relevant to the question are
selected with embeddings, and an extractive model picks the answer.
Questions about what a document is about or who wrote it may be answered
from the document text directly.

With --stdin the document text is read from standard input and the only
argument is the question.

Examples:
  verbum ask books/startups.pdf "What is the main focus of this book?"
  cat notes.txt | verbum ask --stdin "Who is the author?"`,
	Args: func(cmd *cobra.Command, args []string) error {
		if askStdin {
			return cobra.ExactArgs(1)(cmd, args)
		}
		return cobra.ExactArgs(2)(cmd, args)
	},
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	askCmd.Flags().BoolVar(&askStdin, "stdin", false, "read the document text from standard input")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if questionService == nil {
		return errors.New("question service not configured")
	}

	var (
		result *domain.AnswerResult
		err    error
	)
	if askStdin {
		text, readErr := io.ReadAll(cmd.InOrStdin())
		if readErr != nil {
			return fmt.Errorf("read document text: %w", readErr)
		}
		result, err = questionService.AnswerQuestion(cmd.Context(), string(text), args[0])
	} else {
		result, err = questionService.AskDocument(cmd.Context(), args[0], args[1])
	}
	if err != nil {
		return withHint(err)
	}

	if askJSON {
		return outputJSON(cmd, result)
	}

	cmd.Printf("Answer: %s\n", displayAnswer(result.Answer))
	cmd.Printf("Confidence: %.2f\n", result.Confidence)
	if result.Source != "" {
		cmd.Printf("Source: %s\n", result.Source)
	}
	if globalOpts.Verbose && result.Context != "" {
		cmd.Println()
		cmd.Println("Context:")
		cmd.Println(wrap(result.Context, 78, "  "))
	}
	return nil
}

func displayAnswer(answer string) string {
	if strings.TrimSpace(answer) == "" {
		return "(no answer found)"
	}
	return answer
}

func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// withHint adds a setup hint to errors caused by missing model configuration.
func withHint(err error) error {
	switch {
	case errors.Is(err, domain.ErrEmbeddingUnavailable):
		return fmt.Errorf("%w\nConfigure embeddings with 'verbum settings provider embedding ollama' or set OPENAI_API_KEY", err)
	case errors.Is(err, domain.ErrQAUnavailable):
		return fmt.Errorf("%w\nSet HF_TOKEN or run 'verbum settings set-key qa'", err)
	case errors.Is(err, domain.ErrLLMUnavailable):
		return fmt.Errorf("%w\nConfigure a chat model with 'verbum settings provider llm ollama' or set OPENAI_API_KEY", err)
	default:
		return err
	}
}

// wrap breaks text into lines of at most width characters, each prefixed by indent.
func wrap(text string, width int, indent string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var b strings.Builder
	line := indent + words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			b.WriteString(line)
			b.WriteByte('\n')
			line = indent + w
			continue
		}
		line += " " + w
	}
	b.WriteString(line)
	return b.String()
}
