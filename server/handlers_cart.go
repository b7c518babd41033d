package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/YuBaichuan2000/e-commerce/catalog"
	apperrors "github.com/YuBaichuan2000/e-commerce/internal/errors"
	"github.com/YuBaichuan2000/e-commerce/users"
)

type cartItemRequest struct {
	ProductID string `json:"productId"`
}

type cartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// cartProduct is a priced cart entry: catalog data joined with the stored
// quantity at read time.
type cartProduct struct {
	catalog.Product
	Quantity int `json:"quantity"`
}

// GetCart returns the user's cart with full product information.
func (s *Server) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := UserFromContext(r.Context())

		ids := make([]string, 0, len(u.CartItems))
		quantities := make(map[string]int, len(u.CartItems))
		for _, item := range u.CartItems {
			ids = append(ids, item.ProductID)
			quantities[item.ProductID] = item.Quantity
		}

		products, err := s.catalog.GetByIDs(r.Context(), ids)
		if err != nil {
			s.respondError(w, r, apperrors.Upstream(err, "pricing cart"))
			return
		}

		out := make([]cartProduct, 0, len(products))
		for _, p := range products {
			out = append(out, cartProduct{Product: p, Quantity: quantities[p.ID]})
		}
		respondJSON(w, http.StatusOK, out)
	}
}

// AddToCart increments the quantity for a product already in the cart, or
// appends it with quantity one.
func (s *Server) AddToCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req cartItemRequest
		if err := decodeJSON(r, &req); err != nil || req.ProductID == "" {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_request"})
			return
		}

		u := UserFromContext(r.Context())
		items := append([]users.CartItem(nil), u.CartItems...)

		found := false
		for i := range items {
			if items[i].ProductID == req.ProductID {
				items[i].Quantity++
				found = true
				break
			}
		}
		if !found {
			items = append(items, users.CartItem{ProductID: req.ProductID, Quantity: 1})
		}

		s.saveCart(w, r, u.ID, items)
	}
}

// RemoveFromCart drops one product from the cart, or empties the cart when no
// product id is given.
func (s *Server) RemoveFromCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req cartItemRequest
		_ = decodeJSON(r, &req)

		u := UserFromContext(r.Context())

		var items []users.CartItem
		if req.ProductID != "" {
			for _, item := range u.CartItems {
				if item.ProductID != req.ProductID {
					items = append(items, item)
				}
			}
		}

		s.saveCart(w, r, u.ID, items)
	}
}

// UpdateCartQuantity sets the quantity for a cart entry; zero removes it.
func (s *Server) UpdateCartQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID := chi.URLParam(r, "id")

		var req cartQuantityRequest
		if err := decodeJSON(r, &req); err != nil || req.Quantity < 0 {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_request"})
			return
		}

		u := UserFromContext(r.Context())

		found := false
		var items []users.CartItem
		for _, item := range u.CartItems {
			if item.ProductID != productID {
				items = append(items, item)
				continue
			}
			found = true
			if req.Quantity > 0 {
				items = append(items, users.CartItem{ProductID: productID, Quantity: req.Quantity})
			}
		}
		if !found {
			s.respondError(w, r, apperrors.Wrapf(apperrors.ErrNotFound, "product %q not in cart", productID))
			return
		}

		s.saveCart(w, r, u.ID, items)
	}
}

func (s *Server) saveCart(w http.ResponseWriter, r *http.Request, userID string, items []users.CartItem) {
	if items == nil {
		items = []users.CartItem{}
	}
	if err := s.users.UpdateCart(r.Context(), userID, items); err != nil {
		s.respondError(w, r, apperrors.Upstream(err, "updating cart"))
		return
	}
	respondJSON(w, http.StatusOK, items)
}
