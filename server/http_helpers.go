package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	apperrors "github.com/YuBaichuan2000/e-commerce/internal/errors"
	"github.com/YuBaichuan2000/e-commerce/users"
)

func decodeJSON(r *http.Request, dest any) error {
	if r.Body == nil {
		return apperrors.Wrapf(apperrors.ErrInternal, "request body required")
	}
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	return dec.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// respondError maps the error taxonomy to HTTP. Each class carries its own
// status and stable code so clients can pick the right recovery action;
// anything unrecognized collapses to an opaque 500 with the detail logged,
// never returned.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := errorStatus(err)

	evt := s.log.Debug()
	if status >= http.StatusInternalServerError {
		evt = s.log.Error()
	}
	evt.Err(err).Str("path", r.URL.Path).Str("method", r.Method).Msg("request failed")

	respondJSON(w, status, map[string]string{"error": code})
}

func errorStatus(err error) (int, string) {
	switch {
	case apperrors.Is(err, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized, "token_invalid"
	case apperrors.Is(err, apperrors.ErrTokenRevoked):
		return http.StatusUnauthorized, "token_revoked"
	case apperrors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials"
	case apperrors.Is(err, users.ErrEmailTaken):
		return http.StatusBadRequest, "email_taken"
	case apperrors.Is(err, apperrors.ErrInvalidCart):
		return http.StatusBadRequest, "invalid_cart"
	case apperrors.Is(err, apperrors.ErrCouponNotFound):
		return http.StatusNotFound, "coupon_not_found"
	case apperrors.Is(err, apperrors.ErrSessionNotFound):
		return http.StatusNotFound, "session_not_found"
	case apperrors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case apperrors.Is(err, apperrors.ErrPaymentIncomplete):
		return http.StatusPaymentRequired, "payment_incomplete"
	case apperrors.Is(err, apperrors.ErrPaymentGateway):
		return http.StatusBadGateway, "payment_gateway_error"
	case apperrors.Is(err, apperrors.ErrUpstreamTimeout):
		return http.StatusGatewayTimeout, "upstream_timeout"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// requestLogger logs one line per request with method, path, status and
// duration.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)

		var evt *zerolog.Event
		switch {
		case ww.status >= http.StatusInternalServerError:
			evt = s.log.Error()
		case ww.status >= http.StatusBadRequest:
			evt = s.log.Warn()
		default:
			evt = s.log.Info()
		}
		evt.Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
