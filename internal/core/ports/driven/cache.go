package driven

import (
	"context"

	"github.com/custodia-labs/verbum/internal/core/domain"
)

// ExtractionCache stores extracted document text keyed by absolute path.
type ExtractionCache interface {
	// Get returns the cached text and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)

	// Put stores text under key, replacing any previous entry.
	Put(ctx context.Context, key, text string) error

	// Delete removes an entry. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// VectorCache memoises embeddings keyed by folder or document.
// It is best effort: a miss simply recomputes.
type VectorCache interface {
	Get(ctx context.Context, key string) ([]float32, bool)
	Put(ctx context.Context, key string, vec []float32)
}

// SessionStore keeps document sessions between questions.
type SessionStore interface {
	// Session returns the session for documentID, creating an empty one
	// if none exists.
	Session(ctx context.Context, documentID string) (*domain.DocumentSession, error)

	// Save stores the session, replacing any previous version.
	Save(ctx context.Context, session *domain.DocumentSession) error
}
