package mcp

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/verbum/internal/core/domain"
)

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestExtractDocumentPath(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{"simple", "verbum://documents/guide.pdf", "guide.pdf"},
		{"nested", "verbum://documents/biology/cells.pdf", "biology/cells.pdf"},
		{"escaped", "verbum://documents/my%20book.pdf", "my book.pdf"},
		{"wrong scheme", "file://documents/guide.pdf", ""},
		{"bad escape", "verbum://documents/%zz", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractDocumentPath(tt.uri))
		})
	}
}

func TestServer_handleLibraryResource(t *testing.T) {
	ctx := context.Background()

	t.Run("without library", func(t *testing.T) {
		server := newTestServer(t, &Ports{})
		result, err := server.handleLibraryResource(ctx, readRequest("verbum://library"))
		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "{}", result.Contents[0].Text)
	})

	t.Run("with library", func(t *testing.T) {
		root := &domain.HierarchyNode{Name: "root", Type: domain.NodeTypeFolder}
		server := newTestServer(t, &Ports{Library: &mockLibraryService{root: root}})

		result, err := server.handleLibraryResource(ctx, readRequest("verbum://library"))
		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
		assert.Contains(t, result.Contents[0].Text, `"name": "root"`)
	})
}

func TestServer_handleDocumentTextResource(t *testing.T) {
	ctx := context.Background()
	docs := &mockDocumentService{docs: map[string]string{"biology/cells.pdf": "Cells divide."}}

	t.Run("without document service", func(t *testing.T) {
		server := newTestServer(t, &Ports{})
		_, err := server.handleDocumentTextResource(ctx, readRequest("verbum://documents/biology/cells.pdf"))
		assert.Error(t, err)
	})

	t.Run("returns text", func(t *testing.T) {
		server := newTestServer(t, &Ports{Document: docs})
		result, err := server.handleDocumentTextResource(ctx, readRequest("verbum://documents/biology/cells.pdf"))
		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "Cells divide.", result.Contents[0].Text)
	})

	t.Run("missing document", func(t *testing.T) {
		server := newTestServer(t, &Ports{Document: docs})
		_, err := server.handleDocumentTextResource(ctx, readRequest("verbum://documents/physics.pdf"))
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
