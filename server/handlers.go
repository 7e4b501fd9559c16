package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	apperrors "github.com/jrsteele09/villa-booking/internal/errors"
	"github.com/rs/zerolog/log"
)

const (
	contentTypeJSON   = "application/json; charset=utf-8"
	retryAfterSeconds = "60"
)

var errBodyTooLarge = errors.New("request body too large")

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, errorCode, description string, statusCode int) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             errorCode,
		"error_description": description,
	})
}

// readBody reads the whole (size limited) request body.
func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, errBodyTooLarge
		}
		return nil, err
	}
	return body, nil
}

// decodeRequest decodes a JSON body into dst and validates it. It writes the
// error response itself and reports whether the handler may continue.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSONError(w, "invalid_request", errBodyTooLarge.Error(), http.StatusRequestEntityTooLarge)
			return false
		}
		writeJSONError(w, "invalid_request", "request body must be a valid JSON object", http.StatusBadRequest)
		return false
	}
	if err := s.validate.Validate(dst); err != nil {
		writeJSONError(w, "invalid_request", err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// writeServiceError maps service errors to responses. Internal details are
// logged, never returned.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case apperrors.Unauthenticated(err):
		writeJSONError(w, "unauthorized", "authentication required", http.StatusUnauthorized)
	case apperrors.Is(err, apperrors.ErrBookingNotFound),
		apperrors.Is(err, apperrors.ErrTransactionNotFound),
		apperrors.Is(err, apperrors.ErrUserNotFound),
		apperrors.Is(err, apperrors.ErrNotFound):
		writeJSONError(w, "not_found", "resource not found", http.StatusNotFound)
	case apperrors.Is(err, apperrors.ErrBookingNotConfirmed):
		writeJSONError(w, "conflict", "booking is not confirmed", http.StatusConflict)
	case apperrors.Is(err, apperrors.ErrTransactionSettled):
		writeJSONError(w, "conflict", "transaction already settled", http.StatusConflict)
	case apperrors.Is(err, apperrors.ErrConfirmationCooldown):
		w.Header().Set("Retry-After", retryAfterSeconds)
		writeJSONError(w, "too_many_requests", "confirmation was sent recently", http.StatusTooManyRequests)
	case apperrors.Is(err, apperrors.ErrInvalidRequest):
		writeJSONError(w, "invalid_request", "request could not be processed", http.StatusBadRequest)
	case apperrors.Is(err, apperrors.ErrConfiguration):
		log.Error().Err(err).Str("path", r.URL.Path).Msg("feature not configured")
		writeJSONError(w, "service_unavailable", "service not configured", http.StatusServiceUnavailable)
	case apperrors.Is(err, apperrors.ErrGatewayResponse):
		log.Error().Err(err).Str("path", r.URL.Path).Msg("payment gateway error")
		writeJSONError(w, "bad_gateway", "payment gateway unavailable", http.StatusBadGateway)
	default:
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		writeJSONError(w, "server_error", "internal server error", http.StatusInternalServerError)
	}
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.svc.Store != nil {
			if err := s.svc.Store.Ping(r.Context()); err != nil {
				log.Error().Err(err).Msg("health check: store unreachable")
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func (s *Server) NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, "not_found", "404 - Page Not Found", http.StatusNotFound)
	}
}
