package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// It is a pure boundary wrapper, not a resilience layer: failures are
// reported to the caller (wrapped in domain.ErrEmbeddingUnavailable)
// and no retries happen inside the adapter.
//
// Note: every vector in a session's collection must come from the same
// embedding model used for queries against that collection. The model
// is fixed at construction time and reported by ModelName so wiring
// code can log it; version skew across restarts is not detected.
//
// Implementations may include:
//   - Ollama (nomic-embed-text, all-minilm)
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts, preserving
	// input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 768, 1536).
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight
	// request. Used at startup before accepting traffic.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
