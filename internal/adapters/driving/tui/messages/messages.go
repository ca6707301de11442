// Package messages defines Bubbletea message types for the TUI.
package messages

import (
	"github.com/custodia-labs/verbum/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewAsk is the question input and answer view.
	ViewAsk ViewType = iota
	// ViewLibrary is the document library browser.
	ViewLibrary
	// ViewHelp is the keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewAsk:
		return "ask"
	case ViewLibrary:
		return "library"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Mode selects which service answers the text typed in the ask view.
type Mode int

const (
	// ModeQuestion uses the extractive question answering pipeline.
	ModeQuestion Mode = iota
	// ModeQuery uses the chat model.
	ModeQuery
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	if m == ModeQuery {
		return "query"
	}
	return "question"
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// AnswerCompleted carries the result of a question.
type AnswerCompleted struct {
	Question string
	Result   *domain.AnswerResult
	Err      error
}

// QueryCompleted carries the chat model reply to a query.
type QueryCompleted struct {
	Query string
	Reply string
	Err   error
}

// LibraryLoaded carries the library tree.
type LibraryLoaded struct {
	Root *domain.HierarchyNode
	Err  error
}

// DocumentSelected is sent when a document is picked in the library.
type DocumentSelected struct {
	Path string
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
