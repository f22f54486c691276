// Package driving defines the interfaces through which transports call
// INTO the core.
//
// These are the "driving" or "primary" ports in hexagonal architecture.
// The HTTP API, the terminal client and the inbox watcher all consume
// these interfaces; core services implement them.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or service package
package driving
