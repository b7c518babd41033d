package redisrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/YuBaichuan2000/e-commerce/token"
)

const keyPrefix = "refresh_token:"

var _ token.CacheRepo = (*Repo)(nil)

// Repo stores the single valid refresh token per user in Redis under
// refresh_token:<userId>, with the expiry set atomically on write.
type Repo struct {
	client *redis.Client
}

// New creates a Redis-backed credential cache repo.
func New(client *redis.Client) *Repo {
	return &Repo{client: client}
}

func (r *Repo) Set(ctx context.Context, userID, tok string, ttl time.Duration) error {
	if err := r.client.Set(ctx, key(userID), tok, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key(userID), err)
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, userID string) (string, error) {
	val, err := r.client.Get(ctx, key(userID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", key(userID), err)
	}
	return val, nil
}

func (r *Repo) Delete(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, key(userID)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key(userID), err)
	}
	return nil
}

func key(userID string) string {
	return keyPrefix + userID
}
