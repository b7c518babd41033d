package token

import (
	"context"
	"time"
)

// CacheRepo manages the externally stored refresh credential, one entry per
// user. The cache is the source of truth for revocation: whatever token string
// it holds is the only refresh token the service will honour for that user.
type CacheRepo interface {
	// Set overwrites the user's entry with the given token and expiry.
	Set(ctx context.Context, userID, token string, ttl time.Duration) error
	// Get returns the stored token, or "" when no entry exists.
	Get(ctx context.Context, userID string) (string, error)
	// Delete removes the entry. Deleting an absent entry is not an error.
	Delete(ctx context.Context, userID string) error
}
