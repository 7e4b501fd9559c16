package server

import (
	"net/http"

	apperrors "github.com/jrsteele09/villa-booking/internal/errors"
	"github.com/jrsteele09/villa-booking/payment"
	"github.com/rs/zerolog/log"
)

type checkoutRequest struct {
	BookingReference string `json:"booking_reference" validate:"required,max=40"`
}

type checkoutResponse struct {
	InvoiceNumber string `json:"invoice_number"`
	PaymentURL    string `json:"payment_url"`
	Amount        int64  `json:"amount"`
	Status        string `json:"status"`
}

func (s *Server) CheckoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req checkoutRequest
		if !s.decodeRequest(w, r, &req) {
			return
		}

		tx, err := s.svc.Payments.Checkout(r.Context(), req.BookingReference)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, checkoutResponse{
			InvoiceNumber: tx.InvoiceNumber,
			PaymentURL:    tx.PaymentURL,
			Amount:        tx.Amount,
			Status:        string(tx.Status),
		})
	}
}

// PaymentNotificationHandler receives gateway notifications. The signature is
// checked over the raw bytes before anything in the body is trusted.
func (s *Server) PaymentNotificationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := readBody(r)
		if err != nil {
			writeJSONError(w, "invalid_request", "could not read request body", http.StatusBadRequest)
			return
		}

		if err := s.svc.Callbacks.Verify(r.Header, body, s.config.GetDokuNotifyPath()); err != nil {
			log.Warn().Err(err).Str("request_id", r.Header.Get(payment.HeaderRequestID)).Msg("payment notification rejected")
			writeJSONError(w, "unauthorized", "invalid signature", http.StatusUnauthorized)
			return
		}

		n, err := payment.ParseNotification(body)
		if err != nil {
			writeJSONError(w, "invalid_request", "invalid notification", http.StatusBadRequest)
			return
		}

		if err := s.svc.Payments.HandleNotification(r.Context(), n); err != nil {
			if apperrors.Is(err, apperrors.ErrInvalidRequest) {
				log.Warn().Err(err).Str("invoice", n.Order.InvoiceNumber).Msg("payment notification refused")
			}
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
