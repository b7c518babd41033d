package checkout

// CartLine is one product in the cart as submitted for checkout, priced in
// major currency units the way the storefront displays it.
type CartLine struct {
	ProductID string  `json:"_id"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	Quantity  int64   `json:"quantity"`
}

// lineSnapshot is the per-product record embedded in gateway session metadata.
// It freezes id, quantity and unit price at session-creation time; order
// reconstruction reads only this, so a catalog price change between session
// creation and confirmation cannot drift into the order.
type lineSnapshot struct {
	ID       string  `json:"id"`
	Quantity int64   `json:"quantity"`
	Price    float64 `json:"price"`
}
