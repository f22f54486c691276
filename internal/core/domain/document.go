package domain

import "time"

// Document identifies a source file ingested into a session.
// It is recorded only after the file's vectors are fully indexed,
// never mutated afterwards, and removed only by session deletion.
type Document struct {
	// ID is the unique document identifier.
	ID string

	// SessionID links to the owning Session.
	SessionID string

	// Name is the display name (the uploaded filename).
	Name string

	// Location is the opaque storage location returned by the
	// file store.
	Location string

	// CreatedAt is when ingestion completed.
	CreatedAt time.Time
}

// Chunk is a contiguous text window cut from a document during
// ingestion. Chunks are ephemeral; only their vector representation
// persists, in the session's index.
type Chunk struct {
	// Text is the window content. Never empty.
	Text string

	// Ordinal is the window's position within the document.
	Ordinal int
}

// Passage is a retrieved chunk handed to the prompt builder.
type Passage struct {
	// Text is the chunk content retrieved from the index.
	Text string

	// Source is the display name of the document the chunk came from.
	Source string

	// Score is the cosine similarity against the query (0-1).
	Score float32
}
