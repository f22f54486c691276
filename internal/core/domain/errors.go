package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors. Adapters wrap the
// underlying cause with one of these sentinels so callers can branch
// with errors.Is without inspecting strings.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthenticated indicates a missing or bad credential token.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrSessionNotFound indicates the session id does not resolve or
	// does not belong to the caller.
	ErrSessionNotFound = errors.New("session not found")

	// ErrUnsupportedFormat indicates a document could not be parsed
	// into extractable text.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrEmbeddingUnavailable indicates the embedding call failed or
	// returned malformed output.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrGenerationFailure indicates the generation call failed or was
	// interrupted mid-stream.
	ErrGenerationFailure = errors.New("generation failure")

	// ErrIndexFailure indicates a vector index insert or search failed.
	ErrIndexFailure = errors.New("vector index failure")
)
