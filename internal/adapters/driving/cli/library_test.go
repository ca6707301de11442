package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/verbum/internal/core/domain"
)

func testLibrary() *mockLibraryService {
	return &mockLibraryService{
		root: &domain.HierarchyNode{
			Name: "library",
			Type: domain.NodeTypeFolder,
			Children: []domain.HierarchyNode{
				{
					Name: "biology", Type: domain.NodeTypeFolder, Path: "biology",
					Children: []domain.HierarchyNode{
						{Name: "cell.pdf", Type: domain.NodeTypeDocument, Path: "biology/cell.pdf"},
					},
				},
				{Name: "history", Type: domain.NodeTypeFolder, Path: "history"},
			},
		},
		distances: []domain.FolderDistance{
			{A: "biology", B: "history", Distance: 0.4321},
			{A: "art", B: "history", Distance: 0.25},
		},
	}
}

func TestLibraryTreeCmd(t *testing.T) {
	t.Run("prints tree", func(t *testing.T) {
		out, err := executeCommand(t, &Services{Library: testLibrary()}, "", "library", "tree")

		require.NoError(t, err)
		assert.Equal(t, "library/\n├── biology/\n│   └── cell.pdf\n└── history/\n", out)
	})

	t.Run("json", func(t *testing.T) {
		out, err := executeCommand(t, &Services{Library: testLibrary()}, "", "library", "tree", "--json")

		require.NoError(t, err)
		var got domain.HierarchyNode
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, "library", got.Name)
		assert.Len(t, got.Children, 2)
	})

	t.Run("missing library", func(t *testing.T) {
		_, err := executeCommand(t, nil, "", "library", "tree")
		assert.EqualError(t, err, "library not configured")
	})
}

func TestLibraryDistancesCmd(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		out, err := executeCommand(t, &Services{Library: testLibrary()}, "", "library", "distances")

		require.NoError(t, err)
		assert.Contains(t, out, "  biology  history  0.4321\n")
		assert.Contains(t, out, "  art      history  0.2500\n")
	})

	t.Run("json map keyed by pair", func(t *testing.T) {
		out, err := executeCommand(t, &Services{Library: testLibrary()}, "", "library", "--json", "distances")

		require.NoError(t, err)
		var got map[string]float64
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.InDelta(t, 0.4321, got["biology|history"], 1e-9)
		assert.InDelta(t, 0.25, got["art|history"], 1e-9)
	})

	t.Run("fewer than two folders", func(t *testing.T) {
		out, err := executeCommand(t, &Services{Library: &mockLibraryService{}}, "", "library", "distances")

		require.NoError(t, err)
		assert.Contains(t, out, "Fewer than two folders could be compared.")
	})

	t.Run("embedding unavailable", func(t *testing.T) {
		lib := &mockLibraryService{err: domain.ErrEmbeddingUnavailable}

		_, err := executeCommand(t, &Services{Library: lib}, "", "library", "distances")

		require.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
		assert.Contains(t, err.Error(), "OPENAI_API_KEY")
	})
}
