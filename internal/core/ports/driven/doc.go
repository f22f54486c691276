// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - ChatStore: session, message and document record persistence
//   - VectorIndex: per-session vector storage and threshold search
//   - EmbeddingService: text to vector
//   - LLMService: prompt to token stream
//   - Normaliser / NormaliserRegistry: document bytes to plain text
//   - FileStore: durable storage for uploaded bytes
//   - Authenticator: opaque credential token to owner identity
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
