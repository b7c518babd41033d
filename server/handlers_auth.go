package server

import (
	"net/http"
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup registers an account and starts a session, delivering the credential
// pair as cookies.
func (s *Server) Signup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signupRequest
		if err := decodeJSON(r, &req); err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_request"})
			return
		}

		u, pair, err := s.auth.Signup(r.Context(), req.Name, req.Email, req.Password)
		if err != nil {
			s.respondError(w, r, err)
			return
		}

		s.setAuthCookies(w, pair)
		respondJSON(w, http.StatusCreated, map[string]any{"user": u})
	}
}

func (s *Server) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(r, &req); err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_request"})
			return
		}

		u, pair, err := s.auth.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			s.respondError(w, r, err)
			return
		}

		s.setAuthCookies(w, pair)
		respondJSON(w, http.StatusOK, map[string]any{"user": u})
	}
}

// Logout revokes the session named by the refresh cookie and clears both
// cookies. Safe to call with no session at all.
func (s *Server) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.auth.Logout(r.Context(), cookieValue(r, refreshTokenCookie)); err != nil {
			s.respondError(w, r, err)
			return
		}

		s.clearAuthCookies(w)
		respondJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
	}
}

// Refresh rotates the access token off the refresh cookie. The refresh token
// itself is untouched; only a superseding login replaces it.
func (s *Server) Refresh() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		access, err := s.auth.Refresh(r.Context(), cookieValue(r, refreshTokenCookie))
		if err != nil {
			s.respondError(w, r, err)
			return
		}

		s.setAccessCookie(w, access)
		respondJSON(w, http.StatusOK, map[string]string{"message": "token refreshed"})
	}
}

func (s *Server) Profile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, UserFromContext(r.Context()))
	}
}
