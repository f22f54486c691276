// Package static provides a config-backed token authenticator.
package static

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/mhaddaou/docchat/internal/core/domain"
	"github.com/mhaddaou/docchat/internal/core/ports/driven"
)

// Ensure Authenticator implements the interface.
var _ driven.Authenticator = (*Authenticator)(nil)

// Authenticator resolves bearer tokens against a fixed token-to-owner
// table loaded from configuration. Suited to single-box deployments
// where an identity provider would be overkill.
type Authenticator struct {
	owners map[string]string // token -> owner id
}

// NewAuthenticator creates an authenticator from a token-to-owner map.
func NewAuthenticator(tokens map[string]string) (*Authenticator, error) {
	owners := make(map[string]string, len(tokens))
	for token, owner := range tokens {
		if token == "" || owner == "" {
			return nil, fmt.Errorf("%w: empty token or owner in auth table", domain.ErrInvalidInput)
		}
		owners[token] = owner
	}
	return &Authenticator{owners: owners}, nil
}

// Authenticate returns the owner for the token. Comparison is
// constant-time per entry so unknown tokens cost the same as near
// misses.
func (a *Authenticator) Authenticate(_ context.Context, token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("%w: missing token", domain.ErrUnauthenticated)
	}
	for candidate, owner := range a.owners {
		if subtle.ConstantTimeCompare([]byte(candidate), []byte(token)) == 1 {
			return owner, nil
		}
	}
	return "", fmt.Errorf("%w: unknown token", domain.ErrUnauthenticated)
}
