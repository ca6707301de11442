package extractors

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/verbum/internal/core/domain"
	"github.com/custodia-labs/verbum/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.TextExtractor = (*Registry)(nil)

// Extractor reads the text of files with known extensions.
type Extractor interface {
	// Extensions returns the lower-case extensions handled, with the dot.
	Extensions() []string

	// Extract returns the text of the file at path.
	Extract(ctx context.Context, path string) (string, error)
}

// Registry selects an extractor by file extension.
type Registry struct {
	byExt map[string]Extractor
}

// NewRegistry creates a registry holding the given extractors.
// A later extractor replaces an earlier one for a shared extension.
func NewRegistry(extractors ...Extractor) *Registry {
	r := &Registry{byExt: make(map[string]Extractor)}
	for _, e := range extractors {
		r.Register(e)
	}
	return r
}

// Register adds an extractor for all of its extensions.
func (r *Registry) Register(e Extractor) {
	for _, ext := range e.Extensions() {
		r.byExt[strings.ToLower(ext)] = e
	}
}

// Extensions lists the registered extensions in sorted order.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Supports reports whether an extractor is registered for the extension of path.
func (r *Registry) Supports(path string) bool {
	_, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Extract checks that path is a regular file and hands it to the
// extractor registered for its extension.
func (r *Registry) Extract(ctx context.Context, path string) (string, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	}
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", domain.ErrUnsupportedFormat, path)
	}

	e, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return "", fmt.Errorf("%w: no extractor for %s", domain.ErrUnsupportedFormat, filepath.Base(path))
	}
	return e.Extract(ctx, path)
}
