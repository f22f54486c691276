package services

import (
	"context"

	"github.com/mhaddaou/docchat/internal/core/domain"
	"github.com/mhaddaou/docchat/internal/core/ports/driven"
	"github.com/mhaddaou/docchat/internal/core/ports/driving"
	"github.com/mhaddaou/docchat/internal/logger"
)

// Ensure SessionService implements the interface.
var _ driving.SessionService = (*SessionService)(nil)

// SessionService manages session lifecycle and transcript access.
type SessionService struct {
	store driven.ChatStore
	index driven.VectorIndex
}

// NewSessionService creates a session service.
func NewSessionService(store driven.ChatStore, index driven.VectorIndex) *SessionService {
	return &SessionService{store: store, index: index}
}

// Create starts a new empty session for the owner.
func (s *SessionService) Create(ctx context.Context, ownerID string) (*domain.Session, error) {
	session, err := s.store.CreateSession(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	logger.Debug("Created session %s for owner %s", session.ID, ownerID)
	return session, nil
}

// List returns the owner's sessions, newest first.
func (s *SessionService) List(ctx context.Context, ownerID string) ([]domain.Session, error) {
	return s.store.ListSessions(ctx, ownerID)
}

// Messages returns a session's transcript in persistence order.
func (s *SessionService) Messages(ctx context.Context, ownerID, sessionID string) ([]domain.Message, error) {
	if _, err := s.store.GetSession(ctx, sessionID, ownerID); err != nil {
		return nil, err
	}
	return s.store.ListMessages(ctx, sessionID)
}

// Documents returns a session's ingested document records.
func (s *SessionService) Documents(ctx context.Context, ownerID, sessionID string) ([]domain.Document, error) {
	if _, err := s.store.GetSession(ctx, sessionID, ownerID); err != nil {
		return nil, err
	}
	return s.store.ListDocuments(ctx, sessionID)
}

// Delete removes the session, its transcript, its document records and
// its vector collection. The collection is dropped first so a failed
// delete never leaves orphaned vectors behind a missing session row.
func (s *SessionService) Delete(ctx context.Context, ownerID, sessionID string) error {
	if _, err := s.store.GetSession(ctx, sessionID, ownerID); err != nil {
		return err
	}
	if err := s.index.DropCollection(ctx, sessionID); err != nil {
		logger.Warn("Dropping collection for session %s: %v", sessionID, err)
	}
	if err := s.store.DeleteSession(ctx, sessionID, ownerID); err != nil {
		return err
	}
	logger.Info("Deleted session %s", sessionID)
	return nil
}
