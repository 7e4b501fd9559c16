package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/jrsteele09/villa-booking/bookings"
	"github.com/rs/zerolog/log"
)

const (
	dateLayout       = "2006-01-02"
	defaultPageLimit = 50
	maxPageLimit     = 200
)

type createBookingRequest struct {
	GuestName   string `json:"guest_name" validate:"required,max=120"`
	GuestEmail  string `json:"guest_email" validate:"required,email,max=254"`
	GuestPhone  string `json:"guest_phone,omitempty" validate:"omitempty,max=40"`
	RoomName    string `json:"room_name,omitempty" validate:"omitempty,max=120"`
	CheckIn     string `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut    string `json:"check_out" validate:"required,datetime=2006-01-02"`
	Guests      int    `json:"guests" validate:"gte=1,lte=50"`
	TotalAmount int64  `json:"total_amount" validate:"gte=0"`
}

type updateStatusRequest struct {
	Status bookings.Status `json:"status" validate:"required,oneof=pending confirmed cancelled"`
}

func (s *Server) ListBookingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offset, err := queryInt(r, "offset", 0)
		if err != nil || offset < 0 {
			writeJSONError(w, "invalid_request", "offset must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit, err := queryInt(r, "limit", defaultPageLimit)
		if err != nil || limit < 1 {
			writeJSONError(w, "invalid_request", "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		if limit > maxPageLimit {
			limit = maxPageLimit
		}

		list, err := s.svc.Bookings.List(r.Context(), offset, limit)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"bookings": list,
			"offset":   offset,
			"limit":    limit,
		})
	}
}

func (s *Server) GetBookingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		booking, err := s.svc.Bookings.Get(r.Context(), r.PathValue("reference"))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, booking)
	}
}

func (s *Server) CreateBookingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createBookingRequest
		if !s.decodeRequest(w, r, &req) {
			return
		}

		// Layout already checked by the validator.
		checkIn, _ := time.Parse(dateLayout, req.CheckIn)
		checkOut, _ := time.Parse(dateLayout, req.CheckOut)
		if !checkOut.After(checkIn) {
			writeJSONError(w, "invalid_request", "check_out must be after check_in", http.StatusBadRequest)
			return
		}

		reference, err := bookings.NewReference()
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		booking := &bookings.Booking{
			Reference:     reference,
			GuestName:     req.GuestName,
			GuestEmail:    req.GuestEmail,
			GuestPhone:    req.GuestPhone,
			RoomName:      req.RoomName,
			CheckIn:       checkIn,
			CheckOut:      checkOut,
			Guests:        req.Guests,
			TotalAmount:   req.TotalAmount,
			Status:        bookings.StatusPending,
			PaymentStatus: bookings.PaymentUnpaid,
		}
		if err := s.svc.Bookings.Create(r.Context(), booking); err != nil {
			writeServiceError(w, r, err)
			return
		}

		log.Info().Str("reference", booking.Reference).Msg("booking created")
		writeJSON(w, http.StatusCreated, booking)
	}
}

func (s *Server) UpdateBookingStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateStatusRequest
		if !s.decodeRequest(w, r, &req) {
			return
		}

		reference := r.PathValue("reference")
		if err := s.svc.Bookings.UpdateStatus(r.Context(), reference, req.Status); err != nil {
			writeServiceError(w, r, err)
			return
		}

		booking, err := s.svc.Bookings.Get(r.Context(), reference)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		log.Info().Str("reference", reference).Str("status", string(req.Status)).Msg("booking status updated")
		writeJSON(w, http.StatusOK, booking)
	}
}

func (s *Server) DeleteBookingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reference := r.PathValue("reference")
		if err := s.svc.Bookings.Delete(r.Context(), reference); err != nil {
			writeServiceError(w, r, err)
			return
		}
		log.Info().Str("reference", reference).Msg("booking deleted")
		w.WriteHeader(http.StatusNoContent)
	}
}

// ResendConfirmationHandler is the staff route for re-sending a guest
// confirmation.
func (s *Server) ResendConfirmationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.svc.Confirmations.SendForReference(r.Context(), r.PathValue("reference")); err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"sent": true})
	}
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}
