package server

import (
	"net/http"

	apperrors "github.com/YuBaichuan2000/e-commerce/internal/errors"
)

func (s *Server) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := s.catalog.List(r.Context())
		if err != nil {
			s.respondError(w, r, apperrors.Upstream(err, "listing products"))
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"products": products})
	}
}

func (s *Server) ListFeaturedProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := s.catalog.ListFeatured(r.Context())
		if err != nil {
			s.respondError(w, r, apperrors.Upstream(err, "listing featured products"))
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"products": products})
	}
}
