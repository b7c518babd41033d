package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/YuBaichuan2000/e-commerce/auth"
	"github.com/YuBaichuan2000/e-commerce/catalog"
	"github.com/YuBaichuan2000/e-commerce/checkout"
	"github.com/YuBaichuan2000/e-commerce/coupon"
	"github.com/YuBaichuan2000/e-commerce/internal/config"
	"github.com/YuBaichuan2000/e-commerce/token"
	"github.com/YuBaichuan2000/e-commerce/users"
)

// Server wires the HTTP surface over the domain services. Handlers decode,
// delegate and encode; rules live in the services.
type Server struct {
	cfg      *config.Config
	auth     *auth.Service
	tokens   *token.Service
	users    users.Repo
	catalog  catalog.Repo
	coupons  *coupon.Ledger
	checkout *checkout.Orchestrator
	log      zerolog.Logger
}

// Deps holds all service dependencies for the Server.
type Deps struct {
	Auth     *auth.Service
	Tokens   *token.Service
	Users    users.Repo
	Catalog  catalog.Repo
	Coupons  *coupon.Ledger
	Checkout *checkout.Orchestrator
}

// New creates the HTTP server layer.
func New(cfg *config.Config, deps Deps, log zerolog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("[server.New] config is required")
	}
	if deps.Auth == nil {
		return nil, errors.New("[server.New] auth service is required")
	}
	if deps.Tokens == nil {
		return nil, errors.New("[server.New] token service is required")
	}
	if deps.Users == nil {
		return nil, errors.New("[server.New] users repo is required")
	}
	if deps.Catalog == nil {
		return nil, errors.New("[server.New] catalog repo is required")
	}
	if deps.Coupons == nil {
		return nil, errors.New("[server.New] coupon ledger is required")
	}
	if deps.Checkout == nil {
		return nil, errors.New("[server.New] checkout orchestrator is required")
	}

	return &Server{
		cfg:      cfg,
		auth:     deps.Auth,
		tokens:   deps.Tokens,
		users:    deps.Users,
		catalog:  deps.Catalog,
		coupons:  deps.Coupons,
		checkout: deps.Checkout,
		log:      log,
	}, nil
}

// Routes constructs the chi router containing all API endpoints.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Route(RouteAuth, func(r chi.Router) {
		r.Post("/signup", s.Signup())
		r.Post("/login", s.Login())
		r.Post("/logout", s.Logout())
		r.Post("/refresh", s.Refresh())
		r.With(s.RequireAuth).Get("/profile", s.Profile())
	})

	r.Route(RouteProducts, func(r chi.Router) {
		r.With(s.RequireAuth, s.RequireAdmin).Get("/", s.ListProducts())
		r.Get("/featured", s.ListFeaturedProducts())
	})

	r.Route(RouteCart, func(r chi.Router) {
		r.Use(s.RequireAuth)
		r.Get("/", s.GetCart())
		r.Post("/", s.AddToCart())
		r.Delete("/", s.RemoveFromCart())
		r.Put("/{id}", s.UpdateCartQuantity())
	})

	r.Route(RouteCoupons, func(r chi.Router) {
		r.Use(s.RequireAuth)
		r.Get("/", s.GetCoupon())
		r.Post("/validate", s.ValidateCoupon())
	})

	r.Route(RoutePayments, func(r chi.Router) {
		r.Use(s.RequireAuth)
		r.Post("/create-checkout-session", s.CreateCheckoutSession())
		r.Post("/checkout-success", s.CheckoutSuccess())
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}
