package server

import (
	"net/http"

	"github.com/jrsteele09/villa-booking/auth"
	apperrors "github.com/jrsteele09/villa-booking/internal/errors"
	"github.com/rs/zerolog/log"
)

type loginRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=200"`
}

func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if !s.decodeRequest(w, r, &req) {
			return
		}

		result, err := s.svc.Login.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrInvalidCredentials) {
				log.Warn().Str("path", r.URL.Path).Msg("failed login attempt")
				writeJSONError(w, "invalid_grant", "invalid username or password", http.StatusUnauthorized)
				return
			}
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			writeJSONError(w, "unauthorized", "authentication required", http.StatusUnauthorized)
			return
		}

		user, err := s.svc.Users.GetByID(r.Context(), identity.SubjectID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"user":       user,
			"expires_at": identity.ExpiresAt,
		})
	}
}
