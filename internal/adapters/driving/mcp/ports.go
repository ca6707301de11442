package mcp

import (
	"github.com/custodia-labs/verbum/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Question answers questions about document text and files.
	Question driving.QuestionService

	// Query answers free-form queries with a chat model. Optional.
	Query driving.QueryService

	// Library exposes the document hierarchy. Optional.
	Library driving.LibraryService

	// Document loads document text for resources. Optional.
	Document driving.DocumentService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Question == nil {
		return ErrMissingQuestionService
	}
	return nil
}
