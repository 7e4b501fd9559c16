package server

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("GET "+RouteHealth, ChainMiddleware(s.HealthHandler(), s.PublicAPIMiddleware()...))

	// AUTH
	s.RegisterRouteFunc("POST "+RouteAuthLogin, ChainMiddleware(s.LoginHandler(), s.PublicAPIMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteAuthMe, ChainMiddleware(s.MeHandler(), s.APIMiddleware(s.RequireAuth())...))

	// BOOKINGS: reads carry guest PII so they need a session too
	s.RegisterRouteFunc("GET "+RouteBookings, ChainMiddleware(s.ListBookingsHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteFunc("GET "+RouteBooking, ChainMiddleware(s.GetBookingHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteFunc("POST "+RouteBookings, ChainMiddleware(s.CreateBookingHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("PUT "+RouteBookingStatus, ChainMiddleware(s.UpdateBookingStatusHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("DELETE "+RouteBooking, ChainMiddleware(s.DeleteBookingHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteBookingResendConfirmation, ChainMiddleware(s.ResendConfirmationHandler(), s.APIMiddleware()...))

	// PAYMENTS
	s.RegisterRouteFunc("POST "+RoutePaymentsCheckout, ChainMiddleware(s.CheckoutHandler(), s.APIMiddleware()...))
	// Authenticated by the gateway signature, not a session.
	s.RegisterRouteFunc("POST "+RoutePaymentsNotify, ChainMiddleware(s.PaymentNotificationHandler(), s.PublicAPIMiddleware()...))

	// GUEST NOTIFICATIONS: recipient is resolved from the store
	s.RegisterRouteFunc("POST "+RouteNotificationsConfirmation, ChainMiddleware(s.BookingConfirmationHandler(), s.PublicAPIMiddleware()...))

	// CORS preflight for every API path
	s.RegisterRouteFunc("OPTIONS /api/", ChainMiddleware(s.NotFoundHandler(), s.PublicAPIMiddleware()...))
	s.RegisterRouteFunc("/", ChainMiddleware(s.NotFoundHandler(), s.APIMiddleware()...))
}
