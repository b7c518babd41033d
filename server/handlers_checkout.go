package server

import (
	"net/http"

	"github.com/YuBaichuan2000/e-commerce/checkout"
)

type createSessionRequest struct {
	Products   []checkout.CartLine `json:"products"`
	CouponCode string              `json:"couponCode"`
}

type createSessionResponse struct {
	ID          string  `json:"id"`
	TotalAmount float64 `json:"totalAmount"`
}

type checkoutSuccessRequest struct {
	SessionID string `json:"sessionId"`
}

type checkoutSuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	OrderID string `json:"orderId"`
}

// CreateCheckoutSession prices the cart and opens a hosted payment session.
func (s *Server) CreateCheckoutSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createSessionRequest
		if err := decodeJSON(r, &req); err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_request"})
			return
		}

		u := UserFromContext(r.Context())

		res, err := s.checkout.CreateSession(r.Context(), u.ID, req.Products, req.CouponCode)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, createSessionResponse{
			ID:          res.SessionID,
			TotalAmount: float64(res.TotalCents) / 100,
		})
	}
}

// CheckoutSuccess confirms payment for a session and records the order.
func (s *Server) CheckoutSuccess() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req checkoutSuccessRequest
		if err := decodeJSON(r, &req); err != nil || req.SessionID == "" {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_request"})
			return
		}

		ord, err := s.checkout.Confirm(r.Context(), req.SessionID)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, checkoutSuccessResponse{
			Success: true,
			Message: "Payment successful, order created, and coupon deactivated if used.",
			OrderID: ord.ID,
		})
	}
}
