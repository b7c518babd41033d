package coupon

import "time"

// Coupon is a user-scoped, single-use percentage discount. Once deactivated it
// is never reactivated.
type Coupon struct {
	ID                 string    `json:"id"`
	Code               string    `json:"code"`
	DiscountPercentage int       `json:"discountPercentage"`
	ExpirationDate     time.Time `json:"expirationDate"`
	UserID             string    `json:"userId"`
	IsActive           bool      `json:"isActive"`
}
