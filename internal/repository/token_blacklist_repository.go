package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklistRepository records revoked bearer tokens. A token present
// here must be rejected even while its signature and expiry are still
// valid. Records expire on their own once the token they revoke could no
// longer be accepted anyway.
type TokenBlacklistRepository interface {
	// Revoke inserts the token. Revoking an already revoked token
	// silently succeeds.
	Revoke(ctx context.Context, token string) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

const blacklistKeyPrefix = "auth:blacklist:"

type tokenBlacklistRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTokenBlacklistRepository returns a Redis-backed implementation. ttl
// must be at least the token lifetime so a record always outlives the
// token it revokes.
func NewTokenBlacklistRepository(client *redis.Client, ttl time.Duration) TokenBlacklistRepository {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &tokenBlacklistRepository{client: client, ttl: ttl}
}

func (r *tokenBlacklistRepository) Revoke(ctx context.Context, token string) error {
	// SET is an upsert; concurrent revokes of the same token are benign.
	return r.client.Set(ctx, blacklistKeyPrefix+token, "1", r.ttl).Err()
}

func (r *tokenBlacklistRepository) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := r.client.Exists(ctx, blacklistKeyPrefix+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
