package coupon

import "context"

// Repo stores coupons. Implementations must make DeactivateActive an atomic
// conditional update on the is_active flag, never a read-then-write sequence,
// so that concurrent redemptions of the same coupon settle to exactly one.
type Repo interface {
	Create(ctx context.Context, c *Coupon) error
	// GetActive returns the active coupon matching code and owner, or nil when
	// no such coupon exists. No partial matches, no cross-user lookups.
	GetActive(ctx context.Context, code, userID string) (*Coupon, error)
	// GetActiveByUser returns the user's current active coupon, or nil.
	GetActiveByUser(ctx context.Context, userID string) (*Coupon, error)
	// DeactivateActive flips is_active to false if and only if it is currently
	// true for the given code and owner. Returns whether this call did the flip.
	DeactivateActive(ctx context.Context, code, userID string) (bool, error)
}
