package config

import "time"

const (
	confirmationCooldownVar     = "CONFIRMATION_COOLDOWN"
	defaultConfirmationCooldown = 10 * time.Minute
)

type EmailConfig interface {
	GetResendAPIKey() string
	GetEmailFrom() string
	GetEmailFromName() string
	GetConfirmationCooldown() time.Duration
}

type Email struct{}

var _ EmailConfig = Email{}

func (Email) GetResendAPIKey() string {
	return GetEnv("RESEND_API_KEY", "")
}

func (Email) GetEmailFrom() string {
	return GetEnv("EMAIL_FROM", "bookings@localhost")
}

func (Email) GetEmailFromName() string {
	return GetEnv("EMAIL_FROM_NAME", "Villa Reservations")
}

// GetConfirmationCooldown is the minimum gap between guest-requested
// confirmation emails for one booking. Unparseable values fall back to the
// default.
func (Email) GetConfirmationCooldown() time.Duration {
	d, err := time.ParseDuration(GetEnv(confirmationCooldownVar, ""))
	if err != nil || d < 0 {
		return defaultConfirmationCooldown
	}
	return d
}
