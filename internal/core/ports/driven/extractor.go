package driven

import "context"

// TextExtractor reads the plain text of a document.
type TextExtractor interface {
	// Extract returns the text of the document at path.
	// Fails with domain.ErrNotFound when the path does not resolve and
	// domain.ErrUnsupportedFormat when text cannot be extracted.
	Extract(ctx context.Context, path string) (string, error)

	// Supports reports whether the extractor handles the file at path.
	Supports(path string) bool
}
