package order

import "context"

// Repo is the append-only order store. Uniqueness on the gateway session id is
// the repo's responsibility; Create for an already-recorded session must fail
// with ErrDuplicateSession rather than writing a second row.
type Repo interface {
	Create(ctx context.Context, o *Order) error
	// GetBySessionID returns the order for a gateway session, or nil when none
	// has been recorded.
	GetBySessionID(ctx context.Context, sessionID string) (*Order, error)
	// ListByUser returns the user's orders, newest first.
	ListByUser(ctx context.Context, userID string) ([]*Order, error)
}
