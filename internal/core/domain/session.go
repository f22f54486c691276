package domain

import "time"

// Role identifies the author of a message.
type Role string

const (
	// RoleHuman marks a message written by the session owner.
	RoleHuman Role = "human"

	// RoleAI marks a message generated by the model.
	RoleAI Role = "ai"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleHuman || r == RoleAI
}

// Session is the isolation boundary for one conversation.
// A session owns its transcript, its ingested documents and its
// vector collection; nothing is shared across sessions.
type Session struct {
	// ID is the unique session identifier.
	ID string

	// OwnerID identifies the user the session belongs to.
	OwnerID string

	// CreatedAt is when the session was created.
	CreatedAt time.Time
}

// Message is one turn in a session's transcript.
// Messages are append-only; ordering is the sequence assigned at
// persistence time, not call order.
type Message struct {
	// ID is the persistence-time sequence number.
	ID int64

	// SessionID links to the owning Session.
	SessionID string

	// Role is who authored the message.
	Role Role

	// Content is the message text.
	Content string

	// CreatedAt is when the message was persisted.
	CreatedAt time.Time
}
