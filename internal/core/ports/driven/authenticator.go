package driven

import "context"

// Authenticator resolves an opaque credential token to an owner
// identity. Credential issuance and storage live outside the core;
// this boundary only answers "who is calling".
type Authenticator interface {
	// Authenticate returns the owner identity for the token, or
	// domain.ErrUnauthenticated when the token is missing or unknown.
	Authenticate(ctx context.Context, token string) (string, error)
}
