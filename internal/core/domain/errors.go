package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrConfig indicates invalid pipeline parameters, such as a chunk
	// overlap that is not smaller than the chunk size. The caller must
	// fix the configuration; retrying cannot help.
	ErrConfig = errors.New("invalid configuration")

	// ErrNotFound indicates a requested document or entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnsupportedFormat indicates a document format text cannot be extracted from.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyInput indicates there was no usable text or chunks to work with.
	ErrEmptyInput = errors.New("empty input")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured,
	// is unreachable, or rejected the credentials.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrQAUnavailable indicates the extractive question-answering model is
	// not configured or could not be reached.
	ErrQAUnavailable = errors.New("question answering model unavailable")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Free-form document queries are disabled.
	ErrLLMUnavailable = errors.New("LLM service unavailable")
)
