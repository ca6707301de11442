// Package tui provides an interactive terminal user interface for asking
// questions about documents. It is a driving adapter over the core services.
package tui

import (
	"github.com/custodia-labs/verbum/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the TUI.
type Ports struct {
	// Question answers questions about a document (required).
	Question driving.QuestionService

	// Query sends free-form queries to a chat model. Optional.
	Query driving.QueryService

	// Library lists the document library. Optional.
	Library driving.LibraryService
}

// NewPorts creates a Ports aggregate.
func NewPorts(question driving.QuestionService, query driving.QueryService, library driving.LibraryService) *Ports {
	return &Ports{
		Question: question,
		Query:    query,
		Library:  library,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Question == nil {
		return ErrMissingQuestionService
	}
	return nil
}
