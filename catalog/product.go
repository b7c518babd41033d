package catalog

// Product is a catalog entry. The catalog is a read-only collaborator here:
// checkout prices carts from the request snapshot, not from these rows.
type Product struct {
	ID          string  `json:"_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
	IsFeatured  bool    `json:"isFeatured"`
}
