package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "revoked:"

// RevocationList tracks signatures of tokens invalidated before their
// natural expiry. Entries carry a TTL matching the token's remaining
// lifetime so the set never grows past the live token population.
type RevocationList struct {
	client *redis.Client
}

func New(ctx context.Context, addr, password string, db int) (*RevocationList, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis.New: ping: %w", err)
	}

	return &RevocationList{client: client}, nil
}

func (rl *RevocationList) Close() error {
	if err := rl.client.Close(); err != nil {
		return fmt.Errorf("redis.RevocationList.Close: %w", err)
	}
	return nil
}

// Revoke marks the token signature invalid for ttl. A non-positive ttl
// still writes a short-lived entry so an in-flight request cannot reuse
// the token.
func (rl *RevocationList) Revoke(ctx context.Context, signature string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Minute
	}

	if err := rl.client.Set(ctx, revokedKeyPrefix+signature, "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis.RevocationList.Revoke: %w", err)
	}
	return nil
}

// IsRevoked reports whether the signature has been revoked.
func (rl *RevocationList) IsRevoked(ctx context.Context, signature string) (bool, error) {
	n, err := rl.client.Exists(ctx, revokedKeyPrefix+signature).Result()
	if err != nil {
		return false, fmt.Errorf("redis.RevocationList.IsRevoked: %w", err)
	}
	return n > 0, nil
}
