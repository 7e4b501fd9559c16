package server

import "net/http"

type bookingConfirmationRequest struct {
	Reference string `json:"reference" validate:"required,max=40"`
}

// BookingConfirmationHandler lets the guest site ask for its confirmation
// email. Only a reference is accepted; the recipient always comes from the
// stored booking, so this cannot be used to mail arbitrary addresses, and
// repeats inside the cooldown window are refused with 429.
func (s *Server) BookingConfirmationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bookingConfirmationRequest
		if !s.decodeRequest(w, r, &req) {
			return
		}

		if err := s.svc.Confirmations.RequestByGuest(r.Context(), req.Reference); err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]bool{"sent": true})
	}
}
