package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query [document] [request]",
	Short: "Ask a chat model about a document",
	Long: `Sends the leading part of a document and a free-form request to the
configured chat model, for requests the extractive pipeline cannot serve,
such as "explain the second chapter" or "summarise this".

Requires an LLM provider (see 'verbum settings provider llm').`,
	Args: cobra.ExactArgs(2),
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if queryService == nil {
		return errors.New("query service not configured")
	}

	reply, err := queryService.Query(cmd.Context(), args[0], args[1])
	if err != nil {
		return withHint(err)
	}
	cmd.Println(reply)
	return nil
}
