package server

import (
	"context"
	"net/http"

	apperrors "github.com/YuBaichuan2000/e-commerce/internal/errors"
	"github.com/YuBaichuan2000/e-commerce/users"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeyUser stores the authenticated user
const ContextKeyUser ContextKey = "user"

// RequireAuth validates the access token cookie and loads the user into the
// request context. Downstream handlers read it via UserFromContext; nothing
// authentication-related lives in a global.
func (s *Server) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := cookieValue(r, accessTokenCookie)
		if raw == "" {
			s.respondError(w, r, apperrors.Wrapf(apperrors.ErrTokenInvalid, "access token cookie missing"))
			return
		}

		userID, err := s.tokens.VerifyAccess(raw)
		if err != nil {
			s.respondError(w, r, err)
			return
		}

		storeCtx, cancel := context.WithTimeout(r.Context(), s.cfg.StoreTimeout)
		u, err := s.users.GetByID(storeCtx, userID)
		cancel()
		if err != nil {
			s.respondError(w, r, apperrors.Upstream(err, "loading authenticated user"))
			return
		}
		if u == nil {
			s.respondError(w, r, apperrors.Wrapf(apperrors.ErrTokenInvalid, "user %s no longer exists", userID))
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyUser, u)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin gates admin-only routes. Must run after RequireAuth.
func (s *Server) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := UserFromContext(r.Context())
		if u == nil || !u.IsAdmin() {
			respondJSON(w, http.StatusForbidden, map[string]string{"error": "admin_only"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFromContext returns the authenticated user, or nil outside RequireAuth.
func UserFromContext(ctx context.Context) *users.User {
	u, _ := ctx.Value(ContextKeyUser).(*users.User)
	return u
}
