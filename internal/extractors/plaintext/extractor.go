// Package plaintext extracts text from plain text files.
package plaintext

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/verbum/internal/core/domain"
)

// Extractor reads UTF-8 text files as is.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".txt", ".text", ".log", ".csv"}
}

// Extract returns the file content with a leading byte order mark removed.
// Files that are not valid UTF-8 are rejected as binary.
func (e *Extractor) Extract(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s is not UTF-8 text", domain.ErrUnsupportedFormat, path)
	}
	return strings.TrimPrefix(string(data), "\ufeff"), nil
}
