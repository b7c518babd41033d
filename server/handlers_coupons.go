package server

import (
	"net/http"

	apperrors "github.com/YuBaichuan2000/e-commerce/internal/errors"
)

type validateCouponRequest struct {
	Code string `json:"code"`
}

type validateCouponResponse struct {
	Message            string `json:"message"`
	Code               string `json:"code"`
	DiscountPercentage int    `json:"discountPercentage"`
}

// GetCoupon returns the user's active coupon, or null when they have none.
func (s *Server) GetCoupon() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := UserFromContext(r.Context())

		c, err := s.coupons.ActiveFor(r.Context(), u.ID)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrCouponNotFound) {
				respondJSON(w, http.StatusOK, nil)
				return
			}
			s.respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, c)
	}
}

// ValidateCoupon checks a code against the user's ledger entry.
func (s *Server) ValidateCoupon() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req validateCouponRequest
		if err := decodeJSON(r, &req); err != nil || req.Code == "" {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_request"})
			return
		}

		u := UserFromContext(r.Context())

		c, err := s.coupons.Validate(r.Context(), req.Code, u.ID)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, validateCouponResponse{
			Message:            "Coupon is valid",
			Code:               c.Code,
			DiscountPercentage: c.DiscountPercentage,
		})
	}
}
