// Package domain defines the core business entities for Verbum.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: Extracted text of one source file
//   - Chunk: A bounded, boundary-aligned slice of document text
//   - RankedChunk: A chunk with its relevance score for one question
//   - AnswerResult: The answer, its confidence and the context used
//   - PatternRule: A regex rule used by the fallback answer matcher
//   - HierarchyNode: A folder or document in the library tree
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
