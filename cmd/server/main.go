package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/jrsteele09/villa-booking/auth"
	"github.com/jrsteele09/villa-booking/internal/config"
	"github.com/jrsteele09/villa-booking/internal/logger"
	"github.com/jrsteele09/villa-booking/notify"
	"github.com/jrsteele09/villa-booking/payment"
	"github.com/jrsteele09/villa-booking/server"
	"github.com/jrsteele09/villa-booking/store"
	"github.com/jrsteele09/villa-booking/token"
	"github.com/rs/zerolog/log"
)

func main() {
	// A missing .env is fine, the environment may be set by the host.
	_ = godotenv.Load()

	c := config.New()
	logger.Setup(c.GetEnv())

	if err := config.Validate(c); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	if err := run(c); err != nil {
		log.Fatal().Err(err).Msg("Error running server")
	}
	log.Info().Msg("Server stopped")
}

func run(c config.Config) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	displayAppname(c.GetAppName())

	ctx := context.Background()
	db, err := store.Open(ctx, c.GetDBDriver(), c.GetDBDSN())
	if err != nil {
		return fmt.Errorf("store.Open: %w", err)
	}
	defer db.Close()

	generated, err := server.EnsureAdmin(ctx, db.Users(), c.GetAdminUsername(), c.GetAdminPassword())
	if err != nil {
		return fmt.Errorf("server.EnsureAdmin: %w", err)
	}
	if generated != "" {
		// Printed once to the terminal, deliberately outside the structured log.
		fmt.Printf("\nAdmin credentials\n   Username:  %s\n   Password:  %s\n   SAVE THIS PASSWORD - it will not be displayed again!\n\n",
			c.GetAdminUsername(), generated)
	}

	handler, err := newHandler(c, db)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              c.GetPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errs := make(chan error, 1)
	go func() { errs <- listenAndServe(httpServer) }()

	select {
	case err := <-errs:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(httpServer)
}

func newHandler(c config.Config, db *store.Store) (http.Handler, error) {
	tokens, err := token.NewService(c.GetAuthSecret(), token.WithTTL(c.GetSessionTokenTTL()))
	if err != nil {
		return nil, fmt.Errorf("token.NewService: %w", err)
	}
	login, err := auth.NewLoginService(db.Users(), tokens)
	if err != nil {
		return nil, fmt.Errorf("auth.NewLoginService: %w", err)
	}

	var signer *payment.Signer
	if c.GetDokuSecretKey() != "" {
		if signer, err = payment.NewSigner(c.GetDokuClientID(), c.GetDokuSecretKey()); err != nil {
			return nil, fmt.Errorf("payment.NewSigner: %w", err)
		}
	} else {
		log.Warn().Msg("no payment secret key configured, checkout is disabled")
	}

	var notifier notify.Notifier = notify.LogNotifier{}
	if c.GetResendAPIKey() != "" {
		resendNotifier, err := notify.NewResendNotifier(c.GetResendAPIKey(), c.GetEmailFrom(), c.GetEmailFromName())
		if err != nil {
			return nil, fmt.Errorf("notify.NewResendNotifier: %w", err)
		}
		notifier = resendNotifier
	}
	confirmations := notify.NewConfirmationService(db.Bookings(), notifier, notify.WithCooldown(c.GetConfirmationCooldown()))

	payments := payment.NewService(db.Bookings(), payment.NewClient(c.GetDokuBaseURL(), signer),
		payment.WithConfirmer(confirmations),
		payment.WithCallbackURL(c.GetDokuCallbackURL()),
		payment.WithPaymentDue(c.GetPaymentDueMinutes()),
	)

	if c.AllowUnverifiedCallbacks() {
		log.Warn().Msg("payment notifications may be accepted without signature verification")
	}

	srv, err := server.New(c, server.Services{
		Users:         db.Users(),
		Bookings:      db.Bookings(),
		Login:         login,
		Gate:          auth.NewGate(tokens),
		Payments:      payments,
		Callbacks:     payment.NewCallbackVerifier(c.GetDokuSecretKey(), payment.WithAllowUnverified(c.AllowUnverifiedCallbacks())),
		Confirmations: confirmations,
		Store:         db,
	})
	if err != nil {
		return nil, fmt.Errorf("server.New: %w", err)
	}
	return srv, nil
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
