package errors

import (
	"context"
	"errors"
	"fmt"
)

// Common error types for the e-commerce backend
var (
	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")

	// Token errors
	// ErrTokenInvalid covers bad signatures and expired tokens; ErrTokenRevoked
	// means the signature checked out but the credential cache disagrees, so the
	// client must log in again rather than silently refresh.
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenRevoked = errors.New("token revoked")

	// Checkout errors
	ErrInvalidCart       = errors.New("invalid cart")
	ErrCouponNotFound    = errors.New("coupon not found")
	ErrPaymentIncomplete = errors.New("payment incomplete")
	ErrSessionNotFound   = errors.New("checkout session not found")
	ErrPaymentGateway    = errors.New("payment gateway error")

	// Upstream errors
	ErrUpstreamTimeout = errors.New("upstream timeout")

	// General errors
	ErrNotFound = errors.New("not found")
	ErrInternal = errors.New("internal error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Mask converts an upstream failure into its caller-facing class. The original
// error text is kept for logs, but only the sentinel remains in the chain so
// internal detail never reaches a client through errors.Is/As.
func Mask(sentinel, err error, op string) error {
	return fmt.Errorf("%s: %v: %w", op, err, sentinel)
}

// Upstream classifies a failure from an external store or service: deadline
// expiry becomes ErrUpstreamTimeout, anything else the opaque ErrInternal.
func Upstream(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Mask(ErrUpstreamTimeout, err, op)
	}
	return Mask(ErrInternal, err, op)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
