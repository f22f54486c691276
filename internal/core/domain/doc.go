// Package domain defines the core business entities for docchat.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Session: the isolation boundary for one conversation
//   - Message: one human or ai turn in a session's transcript
//   - Document: a file ingested into a session's index
//   - Chunk: an ephemeral text window produced during ingestion
//   - Passage: a retrieved chunk handed to the prompt builder
//   - AnswerStream: the token relay between generation and transport
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
