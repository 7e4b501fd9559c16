package errors

import (
	"errors"
	"fmt"
)

// Common error types for the booking server
var (
	// Configuration errors
	ErrConfiguration = errors.New("configuration error")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingCredentials = errors.New("missing credentials")
	ErrUserNotFound       = errors.New("user not found")

	// Token errors
	ErrMalformedToken   = errors.New("malformed token")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrTokenExpired     = errors.New("token expired")

	// Payment gateway errors
	ErrCallbackVerification = errors.New("callback verification failed")
	ErrGatewayResponse      = errors.New("unexpected payment gateway response")

	// Booking errors
	ErrBookingNotFound      = errors.New("booking not found")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrBookingNotConfirmed  = errors.New("booking not confirmed")
	ErrTransactionSettled   = errors.New("transaction already settled")
	ErrConfirmationCooldown = errors.New("confirmation recently sent")

	// General errors
	ErrNotFound       = errors.New("not found")
	ErrInvalidRequest = errors.New("invalid request")
	ErrInternal       = errors.New("internal error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Unauthenticated reports whether err belongs to the family of errors that
// callers must treat as "not authenticated".
func Unauthenticated(err error) bool {
	return errors.Is(err, ErrMissingCredentials) ||
		errors.Is(err, ErrMalformedToken) ||
		errors.Is(err, ErrInvalidSignature) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrCallbackVerification)
}
