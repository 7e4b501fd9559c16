package notify

import (
	"context"
	"fmt"

	"github.com/jrsteele09/villa-booking/bookings"
	apperrors "github.com/jrsteele09/villa-booking/internal/errors"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog/log"
)

// ResendNotifier sends email through the Resend API.
type ResendNotifier struct {
	client *resend.Client
	from   string
}

func NewResendNotifier(apiKey, fromEmail, fromName string) (*ResendNotifier, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: resend API key is required", apperrors.ErrConfiguration)
	}
	if fromEmail == "" {
		return nil, fmt.Errorf("%w: from email is required", apperrors.ErrConfiguration)
	}

	from := fromEmail
	if fromName != "" {
		from = fmt.Sprintf("%s <%s>", fromName, fromEmail)
	}
	return &ResendNotifier{
		client: resend.NewClient(apiKey),
		from:   from,
	}, nil
}

func (n *ResendNotifier) SendBookingConfirmation(ctx context.Context, booking *bookings.Booking) error {
	html, err := RenderConfirmation(booking)
	if err != nil {
		return err
	}

	sent, err := n.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    n.from,
		To:      []string{booking.GuestEmail},
		Subject: ConfirmationSubject(booking),
		Html:    html,
	})
	if err != nil {
		return fmt.Errorf("failed to send booking confirmation: %w", err)
	}

	log.Debug().Str("reference", booking.Reference).Str("email_id", sent.Id).Msg("resend accepted email")
	return nil
}

// LogNotifier stands in for email delivery when no provider is configured.
type LogNotifier struct{}

func (LogNotifier) SendBookingConfirmation(_ context.Context, booking *bookings.Booking) error {
	log.Warn().Str("reference", booking.Reference).Msg("email delivery not configured, confirmation not sent")
	return nil
}
