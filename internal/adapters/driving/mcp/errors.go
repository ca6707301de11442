// Package mcp provides an MCP (Model Context Protocol) server adapter for Verbum.
// It lets AI assistants ask questions about documents in the local library.
package mcp

import "errors"

// ErrMissingQuestionService is returned when the question service is not provided.
var ErrMissingQuestionService = errors.New("mcp: question service is required")

// Errors returned by tools whose optional port is not configured.
var (
	errQueryDisabled   = errors.New("document queries are not configured")
	errLibraryDisabled = errors.New("no document library is configured")
)
