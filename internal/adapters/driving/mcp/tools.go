package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/verbum/internal/core/domain"
)

// AnswerTextInput is the input schema for the answer_text tool.
type AnswerTextInput struct {
	Text     string `json:"text" jsonschema:"the full document text to answer from"`
	Question string `json:"question" jsonschema:"the question to answer"`
}

// AskDocumentInput is the input schema for the ask_document tool.
type AskDocumentInput struct {
	Path     string `json:"path" jsonschema:"path of the document, absolute or relative to the library root"`
	Question string `json:"question" jsonschema:"the question to answer"`
}

// AnswerOutput is the output schema of the answering tools.
type AnswerOutput struct {
	Answer     string  `json:"answer"`
	Confidence float64 `json:"confidence"`
	Context    string  `json:"context"`
	Source     string  `json:"source,omitempty"`
}

// QueryDocumentInput is the input schema for the query_document tool.
type QueryDocumentInput struct {
	Path  string `json:"path" jsonschema:"path of the document"`
	Query string `json:"query" jsonschema:"the free-form request about the document"`
}

// QueryDocumentOutput is the output schema for the query_document tool.
type QueryDocumentOutput struct {
	Reply string `json:"reply"`
}

// LibraryTreeInput is the (empty) input schema for the library_tree tool.
type LibraryTreeInput struct{}

// LibraryTreeOutput is the output schema for the library_tree tool.
// The tree is flattened in depth-first order.
type LibraryTreeOutput struct {
	Entries []LibraryEntry `json:"entries"`
	Count   int            `json:"count"`
}

// LibraryEntry is one folder or document of the library.
type LibraryEntry struct {
	Path  string `json:"path"`
	Type  string `json:"type"`
	Depth int    `json:"depth"`
}

// LibraryDistancesOutput is the output schema for the library_distances tool.
type LibraryDistancesOutput struct {
	Distances []domain.FolderDistance `json:"distances"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "answer_text",
		Description: "Answer a question about the given document text",
	}, s.handleAnswerText)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_document",
		Description: "Answer a question about a document file (PDF, text or markdown)",
	}, s.handleAskDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "query_document",
		Description: "Send a free-form request about a document to the chat model",
	}, s.handleQueryDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "library_tree",
		Description: "List the folders and documents of the document library",
	}, s.handleLibraryTree)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "library_distances",
		Description: "Semantic distance between every pair of top-level library folders",
	}, s.handleLibraryDistances)
}

func (s *Server) handleAnswerText(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnswerTextInput,
) (*mcp.CallToolResult, AnswerOutput, error) {
	result, err := s.ports.Question.AnswerQuestion(ctx, input.Text, input.Question)
	if err != nil {
		return nil, AnswerOutput{}, toolError(err)
	}
	return nil, answerOutput(result), nil
}

func (s *Server) handleAskDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskDocumentInput,
) (*mcp.CallToolResult, AnswerOutput, error) {
	result, err := s.ports.Question.AskDocument(ctx, input.Path, input.Question)
	if err != nil {
		return nil, AnswerOutput{}, toolError(err)
	}
	return nil, answerOutput(result), nil
}

func (s *Server) handleQueryDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryDocumentInput,
) (*mcp.CallToolResult, QueryDocumentOutput, error) {
	if s.ports.Query == nil {
		return nil, QueryDocumentOutput{}, errQueryDisabled
	}
	reply, err := s.ports.Query.Query(ctx, input.Path, input.Query)
	if err != nil {
		return nil, QueryDocumentOutput{}, toolError(err)
	}
	return nil, QueryDocumentOutput{Reply: reply}, nil
}

func (s *Server) handleLibraryTree(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ LibraryTreeInput,
) (*mcp.CallToolResult, LibraryTreeOutput, error) {
	if s.ports.Library == nil {
		return nil, LibraryTreeOutput{}, errLibraryDisabled
	}
	root, err := s.ports.Library.Hierarchy(ctx)
	if err != nil {
		return nil, LibraryTreeOutput{}, toolError(err)
	}
	out := LibraryTreeOutput{Entries: flatten(root.Children, 0, nil)}
	out.Count = len(out.Entries)
	return nil, out, nil
}

func (s *Server) handleLibraryDistances(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ LibraryTreeInput,
) (*mcp.CallToolResult, LibraryDistancesOutput, error) {
	if s.ports.Library == nil {
		return nil, LibraryDistancesOutput{}, errLibraryDisabled
	}
	distances, err := s.ports.Library.Distances(ctx)
	if err != nil {
		return nil, LibraryDistancesOutput{}, toolError(err)
	}
	return nil, LibraryDistancesOutput{Distances: distances}, nil
}

func flatten(nodes []domain.HierarchyNode, depth int, out []LibraryEntry) []LibraryEntry {
	for i := range nodes {
		out = append(out, LibraryEntry{Path: nodes[i].Path, Type: string(nodes[i].Type), Depth: depth})
		out = flatten(nodes[i].Children, depth+1, out)
	}
	return out
}

func answerOutput(r *domain.AnswerResult) AnswerOutput {
	if r == nil {
		return AnswerOutput{}
	}
	return AnswerOutput{
		Answer:     r.Answer,
		Confidence: r.Confidence,
		Context:    r.Context,
		Source:     string(r.Source),
	}
}

// toolError adds a hint for errors the caller can act on. The SDK reports
// handler errors to the client as IsError tool results.
func toolError(err error) error {
	switch {
	case errors.Is(err, domain.ErrEmbeddingUnavailable):
		return fmt.Errorf("%w (configure an embedding provider with 'verbum settings provider embedding')", err)
	case errors.Is(err, domain.ErrQAUnavailable):
		return fmt.Errorf("%w (set HF_TOKEN or 'verbum settings set-key qa')", err)
	case errors.Is(err, domain.ErrLLMUnavailable):
		return fmt.Errorf("%w (configure a chat model with 'verbum settings provider llm')", err)
	default:
		return err
	}
}
