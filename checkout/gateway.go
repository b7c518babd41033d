package checkout

import "context"

// PaymentStatus is the gateway's view of whether a session has been paid.
type PaymentStatus string

const (
	PaymentStatusPaid   PaymentStatus = "paid"
	PaymentStatusUnpaid PaymentStatus = "unpaid"
)

// MetadataKey names used in gateway session metadata.
const (
	metaUserID     = "userId"
	metaCouponCode = "couponCode"
	metaProducts   = "products"
)

// LineItem is one priced gateway line item, in integer minor units.
type LineItem struct {
	Name       string
	Image      string
	UnitAmount int64
	Quantity   int64
}

// SessionParams describes a hosted checkout session to create.
type SessionParams struct {
	LineItems  []LineItem
	SuccessURL string
	CancelURL  string
	// DiscountID references a gateway-scoped single-use discount object,
	// created separately; it never touches the persisted Coupon.
	DiscountID string
	Metadata   map[string]string
}

// Session is the gateway-owned, ephemeral record of a pending payment.
type Session struct {
	ID            string
	PaymentStatus PaymentStatus
	AmountTotal   int64
	Metadata      map[string]string
}

// Gateway is the external payment provider at its interface: hosted session
// creation, retrieval for confirmation, and one-off discount creation.
type Gateway interface {
	CreateSession(ctx context.Context, params SessionParams) (*Session, error)
	// GetSession fails with errors.ErrSessionNotFound when the gateway has no
	// record of the id.
	GetSession(ctx context.Context, id string) (*Session, error)
	// CreateDiscount creates a single-use percent-off discount object and
	// returns its gateway id.
	CreateDiscount(ctx context.Context, percentOff int) (string, error)
}
