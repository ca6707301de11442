package driving

import (
	"context"

	"github.com/custodia-labs/verbum/internal/core/domain"
)

// QuestionService answers questions about a single document.
type QuestionService interface {
	// AnswerQuestion runs the chunk, embed, rank and synthesize pipeline
	// over already extracted text.
	AnswerQuestion(ctx context.Context, documentText, question string) (*domain.AnswerResult, error)

	// AskDocument extracts the document at path and answers the question.
	// Session-learned rules for the document persist between calls.
	AskDocument(ctx context.Context, path, question string) (*domain.AnswerResult, error)
}

// DocumentService loads and splits single documents.
type DocumentService interface {
	// Load extracts the document at path.
	Load(ctx context.Context, path string) (*domain.Document, error)

	// Chunks extracts the document at path and splits it into chunks.
	Chunks(ctx context.Context, path string) ([]domain.Chunk, error)
}

// QueryService answers free-form queries with a chat completion model.
type QueryService interface {
	// Query sends the document text and the query to the LLM.
	Query(ctx context.Context, path, query string) (string, error)
}

// LibraryService exposes the document collection.
type LibraryService interface {
	// Hierarchy returns the library tree rooted at a synthetic "root" folder.
	Hierarchy(ctx context.Context) (*domain.HierarchyNode, error)

	// Distances returns the semantic distance of every pair of top-level folders.
	Distances(ctx context.Context) ([]domain.FolderDistance, error)
}

// SettingsService reads and updates application settings.
type SettingsService interface {
	// Get returns the stored settings overlaid on the defaults.
	Get() (*domain.AppSettings, error)

	// Save persists settings.
	Save(settings *domain.AppSettings) error

	// SetProvider configures the model for a role: "embedding", "qa" or "llm".
	SetProvider(role string, provider domain.AIProvider, model, apiKey string) error

	// SetAPIKey stores the API key for a role.
	SetAPIKey(role, apiKey string) error

	// Validate checks the stored settings.
	Validate() error
}
