package server

// Route path constants
const (
	RouteHealth = "/health"

	// Auth
	RouteAuthLogin = "/api/auth/login"
	RouteAuthMe    = "/api/auth/me"

	// Bookings
	RouteBookings                  = "/api/bookings"
	RouteBooking                   = "/api/bookings/{reference}"
	RouteBookingStatus             = "/api/bookings/{reference}/status"
	RouteBookingResendConfirmation = "/api/bookings/{reference}/resend-confirmation"
	RouteNotificationsConfirmation = "/api/notifications/booking-confirmation"

	// Payments
	RoutePaymentsCheckout = "/api/payments/checkout"
	RoutePaymentsNotify   = "/api/payments/notify"
)
