package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carehub/healthcare-api/internal/core/domain"
)

// RevocationStore is a token denylist backed by Redis.
// Key format: revoked:<jti>, expiring when the token itself would.
type RevocationStore struct {
	client *redis.Client
}

// NewRevocationStore creates a RevocationStore wrapping the given Redis client.
func NewRevocationStore(client *redis.Client) *RevocationStore {
	return &RevocationStore{client: client}
}

// Revoke denylists jti for ttl. It reports false when jti was already
// denylisted. A token with no lifetime left needs no entry.
func (s *RevocationStore) Revoke(ctx context.Context, jti string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		return true, nil
	}
	ok, err := s.client.SetNX(ctx, key(jti), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("%w: revoke token: %w", domain.ErrStorageUnavailable, err)
	}
	return ok, nil
}

// IsRevoked reports whether jti is on the denylist.
func (s *RevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, key(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: revocation check: %w", domain.ErrStorageUnavailable, err)
	}
	return n > 0, nil
}

func key(jti string) string {
	return "revoked:" + jti
}
