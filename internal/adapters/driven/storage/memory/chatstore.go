// Package memory provides an in-memory chat store for development and
// testing.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mhaddaou/docchat/internal/core/domain"
	"github.com/mhaddaou/docchat/internal/core/ports/driven"
)

// Ensure ChatStore implements the interface.
var _ driven.ChatStore = (*ChatStore)(nil)

// ChatStore is an in-memory implementation of driven.ChatStore.
// Nothing survives a restart; it exists for tests and for running the
// server without a data directory.
type ChatStore struct {
	mu        sync.RWMutex
	sessions  map[string]domain.Session
	messages  map[string][]domain.Message
	documents map[string][]domain.Document
	nextMsgID int64
}

// NewChatStore creates a new in-memory chat store.
func NewChatStore() *ChatStore {
	return &ChatStore{
		sessions:  make(map[string]domain.Session),
		messages:  make(map[string][]domain.Message),
		documents: make(map[string][]domain.Document),
	}
}

// CreateSession creates a new session for the owner.
func (s *ChatStore) CreateSession(_ context.Context, ownerID string) (*domain.Session, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner id is required", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session := domain.Session{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC(),
	}
	s.sessions[session.ID] = session
	return &session, nil
}

// GetSession retrieves a session by id, scoped to the owner.
func (s *ChatStore) GetSession(_ context.Context, id, ownerID string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok || session.OwnerID != ownerID {
		return nil, domain.ErrSessionNotFound
	}
	return &session, nil
}

// ListSessions returns the owner's sessions, newest first.
func (s *ChatStore) ListSessions(_ context.Context, ownerID string) ([]domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sessions []domain.Session
	for _, session := range s.sessions {
		if session.OwnerID == ownerID {
			sessions = append(sessions, session)
		}
	}
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].CreatedAt.Equal(sessions[j].CreatedAt) {
			return sessions[i].ID > sessions[j].ID
		}
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})
	return sessions, nil
}

// DeleteSession removes a session with its messages and document
// records.
func (s *ChatStore) DeleteSession(_ context.Context, id, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok || session.OwnerID != ownerID {
		return domain.ErrSessionNotFound
	}
	delete(s.sessions, id)
	delete(s.messages, id)
	delete(s.documents, id)
	return nil
}

// AppendMessage durably records one transcript turn.
func (s *ChatStore) AppendMessage(_ context.Context, sessionID string, role domain.Role, content string) (*domain.Message, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, role)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextMsgID++
	msg := domain.Message{
		ID:        s.nextMsgID,
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	s.messages[sessionID] = append(s.messages[sessionID], msg)
	return &msg, nil
}

// ListMessages returns a session's transcript in persistence order.
func (s *ChatStore) ListMessages(_ context.Context, sessionID string) ([]domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Message(nil), s.messages[sessionID]...), nil
}

// SaveDocument records an ingested document.
func (s *ChatStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[doc.SessionID] = append(s.documents[doc.SessionID], *doc)
	return nil
}

// ListDocuments returns a session's document records.
func (s *ChatStore) ListDocuments(_ context.Context, sessionID string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Document(nil), s.documents[sessionID]...), nil
}

// Close releases resources.
func (s *ChatStore) Close() error {
	return nil
}
