// Package pdf extracts text from PDF files page by page.
package pdf

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/verbum/internal/core/domain"
	"github.com/custodia-labs/verbum/internal/logger"
)

// Extractor reads the text layer of PDF files.
type Extractor struct{}

// New creates a new PDF extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".pdf"}
}

// Extract concatenates the plain text of every page. A page that cannot be
// decoded is skipped; a file that cannot be parsed fails with
// domain.ErrUnsupportedFormat.
func (e *Extractor) Extract(ctx context.Context, path string) (text string, err error) {
	// The parser panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: parse %s: %v", domain.ErrUnsupportedFormat, path, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: open %s: %w", domain.ErrUnsupportedFormat, path, err)
	}
	defer f.Close()

	var b strings.Builder
	pages := r.NumPage()
	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			logger.Warn("pdf %s: skipping page %d: %v", path, i, err)
			continue
		}
		b.WriteString(content)
	}

	logger.Debug("extracted %d characters from %d pages of %s", b.Len(), pages, path)
	return b.String(), nil
}
