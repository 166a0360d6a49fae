package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carehub/healthcare-api/internal/core/domain"
)

// unreachable returns a client whose every command fails fast.
func unreachable(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 200 * time.Millisecond,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRevocationStore_Key(t *testing.T) {
	if got := key("abc"); got != "revoked:abc" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestRevocationStore_ExpiredTokenSkipsStore(t *testing.T) {
	store := NewRevocationStore(unreachable(t))

	ok, err := store.Revoke(context.Background(), "jti", 0)
	if err != nil || !ok {
		t.Fatalf("expected no-op success, got %v, %v", ok, err)
	}
}

func TestRevocationStore_FailsClosed(t *testing.T) {
	store := NewRevocationStore(unreachable(t))

	if _, err := store.IsRevoked(context.Background(), "jti"); !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
	if _, err := store.Revoke(context.Background(), "jti", time.Minute); !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}
