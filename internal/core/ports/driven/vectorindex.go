package driven

import "context"

// Point is one indexed vector with its retrieval payload.
type Point struct {
	// ID is the unique point identifier.
	ID string

	// DocumentID links the point to the document it was cut from,
	// enabling per-document rollback.
	DocumentID string

	// Source is the display name of the originating document.
	Source string

	// Text is the chunk content returned on retrieval.
	Text string

	// Vector is the embedding.
	Vector []float32
}

// Hit is one similarity search result.
type Hit struct {
	// Text is the matched chunk content.
	Text string

	// Source is the display name of the originating document.
	Source string

	// Score is the cosine similarity (0-1).
	Score float32
}

// VectorIndex stores embeddings in one collection per session and
// answers similarity-threshold searches against a single collection.
//
// Isolation invariant: a search under session S only ever sees points
// upserted under S. Collections are created lazily on first upsert.
// Multiple documents accumulate into the same session collection; no
// dedup is performed.
type VectorIndex interface {
	// Upsert appends points to the session's collection, creating it
	// if needed. The call is one logical unit: implementations must
	// not leave a subset of points visible after a failure.
	Upsert(ctx context.Context, sessionID string, points []Point) error

	// Search returns at most k hits with similarity >= threshold,
	// ordered by descending similarity. A missing collection or a
	// query nothing clears yields an empty slice, not an error.
	Search(ctx context.Context, sessionID string, vector []float32, k int, threshold float32) ([]Hit, error)

	// DeleteDocument removes every point upserted for the given
	// document. Used to roll back a partially indexed document.
	DeleteDocument(ctx context.Context, sessionID, documentID string) error

	// DropCollection removes the session's collection entirely.
	DropCollection(ctx context.Context, sessionID string) error

	// Close releases resources.
	Close() error
}
