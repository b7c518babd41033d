package users

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// ErrEmailTaken reports a signup against an already-registered email.
var ErrEmailTaken = errors.New("email already registered")

// RoleType represents a user role
type RoleType string

const (
	RoleCustomer RoleType = "customer"
	RoleAdmin    RoleType = "admin"
)

// CartItem is one entry in the user's cart: a catalog reference and a count.
// Pricing always comes from the catalog at read time; the cart stores none.
type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type User struct {
	ID           string     `json:"id,omitempty"`    // Unique identifier for the user
	Name         string     `json:"name,omitempty"`  // Display name
	Email        string     `json:"email,omitempty"` // User's email address
	PasswordHash string     `json:"-"`               // Hashed version of the user's password - never serialize
	Role         RoleType   `json:"role,omitempty"`
	CartItems    []CartItem `json:"cartItems"`
	CreatedAt    time.Time  `json:"created_at,omitempty"`
}

// SetPassword hashes and stores the password.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether the password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// IsAdmin reports whether the user may reach admin-only routes.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ValidatePasswordStrength checks if a password meets the minimum bar:
// at least 8 characters.
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters long")
	}
	return nil
}
