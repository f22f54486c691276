package driven

import (
	"context"

	"github.com/mhaddaou/docchat/internal/core/domain"
)

// ChatStore persists sessions, their transcripts and their document
// records. Messages and documents are append-only from the core's
// perspective; deletion happens only through DeleteSession.
//
// Implementations must be safe for concurrent use from independent
// sessions. Within one session, concurrent turns may interleave;
// ordering is the sequence assigned at persistence time.
type ChatStore interface {
	// CreateSession creates a new session for the owner.
	CreateSession(ctx context.Context, ownerID string) (*domain.Session, error)

	// GetSession retrieves a session by id, scoped to the owner.
	// Returns domain.ErrSessionNotFound when the id does not resolve
	// or belongs to a different owner.
	GetSession(ctx context.Context, id, ownerID string) (*domain.Session, error)

	// ListSessions returns the owner's sessions, newest first.
	ListSessions(ctx context.Context, ownerID string) ([]domain.Session, error)

	// DeleteSession removes a session with its messages and document
	// records. Owner-scoped like GetSession.
	DeleteSession(ctx context.Context, id, ownerID string) error

	// AppendMessage durably records one transcript turn and returns it
	// with its assigned sequence.
	AppendMessage(ctx context.Context, sessionID string, role domain.Role, content string) (*domain.Message, error)

	// ListMessages returns a session's transcript in persistence order.
	ListMessages(ctx context.Context, sessionID string) ([]domain.Message, error)

	// SaveDocument records an ingested document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// ListDocuments returns a session's document records.
	ListDocuments(ctx context.Context, sessionID string) ([]domain.Document, error)

	// Close releases resources.
	Close() error
}
