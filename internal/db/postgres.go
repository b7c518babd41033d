package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/avast/retry-go"
	_ "github.com/lib/pq"
)

const (
	connAttempts    = 5
	connRetryDelay  = time.Second
	connPingTimeout = 5 * time.Second
)

// OpenPostgres opens the shared Postgres handle and verifies it with a few
// bounded ping attempts, so a store that is still booting does not fail the
// process immediately.
func OpenPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(time.Hour)

	err = retry.Do(
		func() error {
			ctx, cancel := context.WithTimeout(context.Background(), connPingTimeout)
			defer cancel()
			return db.PingContext(ctx)
		},
		retry.Attempts(connAttempts),
		retry.Delay(connRetryDelay),
	)
	if err != nil {
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}
	return db, nil
}
