package server

// Route prefixes for the public API.
const (
	RouteAuth     = "/api/auth"
	RouteProducts = "/api/products"
	RouteCart     = "/api/cart"
	RouteCoupons  = "/api/coupons"
	RoutePayments = "/api/payments"
)
