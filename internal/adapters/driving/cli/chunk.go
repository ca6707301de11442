package cli

import (
	"errors"
	"unicode/utf8"

	"github.com/spf13/cobra"
)

var (
	chunkJSON    bool
	chunkPreview int
)

var chunkCmd = &cobra.Command{
	Use:   "chunk [document]",
	Short: "Show how a document is split into chunks",
	Long: `Extracts a document and prints the chunks the question pipeline works on,
with their character offsets. Useful for tuning the chunker settings.`,
	Args: cobra.ExactArgs(1),
	RunE: runChunk,
}

func init() {
	chunkCmd.Flags().BoolVar(&chunkJSON, "json", false, "output chunks as JSON")
	chunkCmd.Flags().IntVar(&chunkPreview, "preview", 80, "characters of each chunk to print (0 = all)")
	rootCmd.AddCommand(chunkCmd)
}

func runChunk(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	chunks, err := documentService.Chunks(cmd.Context(), args[0])
	if err != nil {
		return withHint(err)
	}

	if chunkJSON {
		return outputJSON(cmd, chunks)
	}

	if len(chunks) == 0 {
		cmd.Println("No chunks produced.")
		return nil
	}

	cmd.Printf("%d chunks\n\n", len(chunks))
	for _, c := range chunks {
		cmd.Printf("  [%d] %d-%d (%d chars)\n", c.Index, c.Start, c.End, utf8.RuneCountInString(c.Content))
		cmd.Printf("      %s\n", preview(c.Content, chunkPreview))
	}
	return nil
}

// preview shortens s to n runes, adding an ellipsis when cut.
func preview(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
