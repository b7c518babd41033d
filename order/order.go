package order

import (
	"errors"
	"time"
)

// ErrDuplicateSession reports that an order already exists for the gateway
// session. Confirmation is idempotent; callers resolve this by fetching the
// existing order.
var ErrDuplicateSession = errors.New("order already exists for gateway session")

// Line is one purchased product as priced at session-creation time. Quantities
// and prices come from the gateway metadata snapshot, never from a live
// catalog lookup.
type Line struct {
	ProductID  string `json:"product"`
	Quantity   int64  `json:"quantity"`
	PriceCents int64  `json:"price"`
}

// Order is the durable record of a confirmed, paid transaction. Exactly one
// exists per gateway session.
type Order struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user"`
	Lines            []Line    `json:"products"`
	TotalCents       int64     `json:"totalAmount"`
	GatewaySessionID string    `json:"gatewaySessionId"`
	CreatedAt        time.Time `json:"createdAt"`
}
