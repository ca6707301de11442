package memory

import (
	"context"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/custodia-labs/verbum/internal/core/domain"
	"github.com/custodia-labs/verbum/internal/core/ports/driven"
)

// DefaultSessions bounds a SessionStore created with a non-positive size.
const DefaultSessions = 128

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionStore keeps the most recently used document sessions.
// Sessions are copied in and out, so a caller must Save its changes.
type SessionStore struct {
	cache *lru.Cache[string, domain.DocumentSession]
}

// NewSessionStore creates a store holding at most size sessions.
func NewSessionStore(size int) *SessionStore {
	if size <= 0 {
		size = DefaultSessions
	}
	cache, _ := lru.New[string, domain.DocumentSession](size)
	return &SessionStore{cache: cache}
}

// Session returns a copy of the session for documentID, creating and
// storing a fresh one when none exists or it was evicted.
func (s *SessionStore) Session(_ context.Context, documentID string) (*domain.DocumentSession, error) {
	if session, ok := s.cache.Get(documentID); ok {
		return cloneSession(session), nil
	}

	session := domain.DocumentSession{
		ID:         uuid.NewString(),
		DocumentID: documentID,
	}
	s.cache.Add(documentID, session)
	return cloneSession(session), nil
}

// Save stores a copy of session under its document ID.
func (s *SessionStore) Save(_ context.Context, session *domain.DocumentSession) error {
	if session == nil || session.DocumentID == "" {
		return domain.ErrInvalidInput
	}
	s.cache.Add(session.DocumentID, *cloneSession(*session))
	return nil
}

// Len returns the number of stored sessions.
func (s *SessionStore) Len() int {
	return s.cache.Len()
}

func cloneSession(session domain.DocumentSession) *domain.DocumentSession {
	session.Rules = append(domain.RuleSet(nil), session.Rules...)
	return &session
}
