package db

import (
	"context"
	"fmt"

	"github.com/avast/retry-go"
	"github.com/redis/go-redis/v9"
)

// OpenRedis connects the credential cache client and verifies it with the
// same bounded retry policy as Postgres.
func OpenRedis(addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	err := retry.Do(
		func() error {
			ctx, cancel := context.WithTimeout(context.Background(), connPingTimeout)
			defer cancel()
			return client.Ping(ctx).Err()
		},
		retry.Attempts(connAttempts),
		retry.Delay(connRetryDelay),
	)
	if err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}
