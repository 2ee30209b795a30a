package ports

import (
	"context"
	"time"
)

// SessionClaims is the verified content of a session token.
type SessionClaims struct {
	Subject   string
	Email     string
	Name      string
	Role      string
	SessionID string
	ExpiresAt time.Time
}

// TokenVerifier validates a session token's signature and expiry.
type TokenVerifier interface {
	Verify(token string) (*SessionClaims, error)
}

// RevocationStore tracks sessions ended before their natural expiry.
type RevocationStore interface {
	Revoke(ctx context.Context, sessionID string, until time.Time) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}
