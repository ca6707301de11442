package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/verbum/internal/core/domain"
)

var libraryJSON bool

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Browse the document library",
	Long:  `Commands for the document library folder (library.root or VERBUM_LIBRARY).`,
}

var libraryTreeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the library folders and documents",
	Args:  cobra.NoArgs,
	RunE:  runLibraryTree,
}

var libraryDistancesCmd = &cobra.Command{
	Use:   "distances",
	Short: "Semantic distances between top-level folders",
	Long: `Embeds a summary of every top-level library folder (its name, subfolders
and a few document names) and prints 1 - cosine similarity for each pair.`,
	Args: cobra.NoArgs,
	RunE: runLibraryDistances,
}

func init() {
	libraryCmd.PersistentFlags().BoolVar(&libraryJSON, "json", false, "output as JSON")
	libraryCmd.AddCommand(libraryTreeCmd)
	libraryCmd.AddCommand(libraryDistancesCmd)
	rootCmd.AddCommand(libraryCmd)
}

func runLibraryTree(cmd *cobra.Command, _ []string) error {
	if libraryService == nil {
		return errors.New("library not configured")
	}

	root, err := libraryService.Hierarchy(cmd.Context())
	if err != nil {
		return err
	}

	if libraryJSON {
		return outputJSON(cmd, root)
	}

	cmd.Printf("%s/\n", root.Name)
	printTree(cmd, root.Children, "")
	return nil
}

func printTree(cmd *cobra.Command, nodes []domain.HierarchyNode, prefix string) {
	for i, n := range nodes {
		last := i == len(nodes)-1
		branch, next := "├── ", "│   "
		if last {
			branch, next = "└── ", "    "
		}

		name := n.Name
		if n.Type == domain.NodeTypeFolder {
			name += "/"
		}
		cmd.Printf("%s%s%s\n", prefix, branch, name)
		printTree(cmd, n.Children, prefix+next)
	}
}

func runLibraryDistances(cmd *cobra.Command, _ []string) error {
	if libraryService == nil {
		return errors.New("library not configured")
	}

	distances, err := libraryService.Distances(cmd.Context())
	if err != nil {
		return withHint(err)
	}

	if libraryJSON {
		out := make(map[string]float64, len(distances))
		for _, d := range distances {
			out[d.Key()] = d.Distance
		}
		return outputJSON(cmd, out)
	}

	if len(distances) == 0 {
		cmd.Println("Fewer than two folders could be compared.")
		return nil
	}

	width := 0
	for _, d := range distances {
		width = max(width, len(d.A))
	}
	for _, d := range distances {
		cmd.Printf("  %s%s  %s  %.4f\n", d.A, strings.Repeat(" ", width-len(d.A)), d.B, d.Distance)
	}
	return nil
}
