package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/villa-booking/auth"
	"github.com/jrsteele09/villa-booking/bookings"
	"github.com/jrsteele09/villa-booking/internal/config"
	"github.com/jrsteele09/villa-booking/internal/validator"
	"github.com/jrsteele09/villa-booking/notify"
	"github.com/jrsteele09/villa-booking/payment"
	"github.com/jrsteele09/villa-booking/users"
	"github.com/rs/zerolog/log"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services are the collaborators the HTTP layer delegates to.
type Services struct {
	Users         users.UserRepo
	Bookings      bookings.Repo
	Login         *auth.LoginService
	Gate          *auth.Gate
	Payments      *payment.Service
	Callbacks     *payment.CallbackVerifier
	Confirmations *notify.ConfirmationService
	Store         Pinger
}

func (s Services) validate() error {
	switch {
	case s.Users == nil:
		return fmt.Errorf("user repo is required")
	case s.Bookings == nil:
		return fmt.Errorf("booking repo is required")
	case s.Login == nil:
		return fmt.Errorf("login service is required")
	case s.Gate == nil:
		return fmt.Errorf("authorization gate is required")
	case s.Payments == nil:
		return fmt.Errorf("payment service is required")
	case s.Callbacks == nil:
		return fmt.Errorf("callback verifier is required")
	case s.Confirmations == nil:
		return fmt.Errorf("confirmation service is required")
	}
	return nil
}

type Server struct {
	env      string
	mux      *http.ServeMux
	routes   []string
	config   config.Config
	svc      Services
	validate *validator.Validator
}

func New(config config.Config, svc Services) (*Server, error) {
	if err := svc.validate(); err != nil {
		return nil, fmt.Errorf("[Server New] %w", err)
	}

	s := &Server{
		env:      config.GetEnv(),
		mux:      http.NewServeMux(),
		config:   config,
		svc:      svc,
		validate: validator.New(),
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != config.EnvDev {
		return
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Debug().Msgf("[%-19s] %s", displayMethod, path)
}
