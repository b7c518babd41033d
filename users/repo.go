package users

import "context"

// Repo stores user accounts and the cart attached to each.
type Repo interface {
	// Create inserts a new user; ErrEmailTaken when the email is registered.
	Create(ctx context.Context, u *User) error
	// GetByEmail returns the user for an email, or nil when unknown.
	GetByEmail(ctx context.Context, email string) (*User, error)
	// GetByID returns the user by id, or nil when unknown.
	GetByID(ctx context.Context, id string) (*User, error)
	// UpdateCart replaces the user's cart contents.
	UpdateCart(ctx context.Context, userID string, items []CartItem) error
}
