package driving

import (
	"context"

	"github.com/mhaddaou/docchat/internal/core/domain"
)

// SessionService manages session lifecycle and transcript access for
// one authenticated owner.
type SessionService interface {
	// Create starts a new empty session for the owner.
	Create(ctx context.Context, ownerID string) (*domain.Session, error)

	// List returns the owner's sessions, newest first.
	List(ctx context.Context, ownerID string) ([]domain.Session, error)

	// Messages returns a session's transcript in persistence order.
	Messages(ctx context.Context, ownerID, sessionID string) ([]domain.Message, error)

	// Documents returns a session's ingested document records.
	Documents(ctx context.Context, ownerID, sessionID string) ([]domain.Document, error)

	// Delete removes the session, its transcript, its document records
	// and its vector collection.
	Delete(ctx context.Context, ownerID, sessionID string) error
}
