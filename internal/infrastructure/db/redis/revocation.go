package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// minRevocationTTL keeps a revocation around briefly even when the token is
// already at its expiry, covering clock skew between instances.
const minRevocationTTL = time.Minute

// RevocationStore implements ports.RevocationStore.
// Key format: session:revoked:<session_id>
type RevocationStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRevocationStore(client *redis.Client) *RevocationStore {
	return &RevocationStore{client: client, now: time.Now}
}

// Revoke marks sessionID as ended. The key lives until the token would have
// expired on its own.
func (s *RevocationStore) Revoke(ctx context.Context, sessionID string, until time.Time) error {
	ttl := until.Sub(s.now())
	if ttl < minRevocationTTL {
		ttl = minRevocationTTL
	}
	if err := s.client.Set(ctx, s.key(sessionID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (s *RevocationStore) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

func (s *RevocationStore) key(sessionID string) string {
	return "session:revoked:" + sessionID
}
