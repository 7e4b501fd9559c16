package server

import (
	"net/http"

	"github.com/jrsteele09/villa-booking/auth"
	"github.com/rs/zerolog/log"
)

// WriteGuardMiddleware authorizes every mutating request. Safe methods pass
// through untouched; routes that need a session for reads add RequireAuth.
func (s *Server) WriteGuardMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !auth.RequiresAuth(r.Method) {
			next(w, r)
			return
		}
		s.authorize(next)(w, r)
	}
}

// RequireAuth validates the bearer session token regardless of method. It is
// a no-op when the write guard already authenticated the request.
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if _, ok := auth.IdentityFromContext(r.Context()); ok {
				next(w, r)
				return
			}
			s.authorize(next)(w, r)
		}
	}
}

func (s *Server) authorize(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := s.svc.Gate.Authorize(r.Header)
		if err != nil {
			log.Warn().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request not authorized")
			w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
			writeJSONError(w, "unauthorized", "authentication required", http.StatusUnauthorized)
			return
		}
		next(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
	}
}
