package docx

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/verbum/internal/core/domain"
)

const body = `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>The cell is the </w:t></w:r><w:r><w:t>unit of life.</w:t></w:r></w:p>
    <w:p></w:p>
    <w:p><w:r><w:t>Mitochondria make energy.</w:t></w:r></w:p>
  </w:body>
</w:document>`

func writeArchive(t *testing.T, members map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.docx")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range members {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return path
}

func TestExtensions(t *testing.T) {
	assert.Equal(t, []string{".docx"}, New().Extensions())
}

func TestExtract(t *testing.T) {
	t.Run("paragraphs", func(t *testing.T) {
		path := writeArchive(t, map[string]string{bodyPart: body})

		got, err := New().Extract(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, "The cell is the unit of life.\nMitochondria make energy.", got)
	})

	t.Run("missing body", func(t *testing.T) {
		path := writeArchive(t, map[string]string{"docProps/core.xml": "<coreProperties/>"})

		_, err := New().Extract(context.Background(), path)
		assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	})

	t.Run("not an archive", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "doc.docx")
		require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o600))

		_, err := New().Extract(context.Background(), path)
		assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	})

	t.Run("malformed body", func(t *testing.T) {
		path := writeArchive(t, map[string]string{bodyPart: "<w:document><w:body>"})

		_, err := New().Extract(context.Background(), path)
		assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	})
}
