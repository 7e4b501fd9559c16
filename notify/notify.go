// Package notify sends guest notifications. The recipient of every message is
// taken from the stored booking, never from the request that triggered it.
package notify

import (
	"context"
	"time"

	"github.com/jrsteele09/villa-booking/bookings"
	apperrors "github.com/jrsteele09/villa-booking/internal/errors"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const DefaultCooldown = 10 * time.Minute

// Notifier delivers a confirmation for booking to booking.GuestEmail.
type Notifier interface {
	SendBookingConfirmation(ctx context.Context, booking *bookings.Booking) error
}

// ConfirmationService resolves bookings and hands them to a Notifier.
type ConfirmationService struct {
	repo     bookings.Repo
	notifier Notifier
	cooldown time.Duration
	nowFunc  func() time.Time
}

type ConfirmationOption func(*ConfirmationService)

// WithCooldown sets the minimum gap between guest-requested confirmations
// for one booking.
func WithCooldown(d time.Duration) ConfirmationOption {
	return func(s *ConfirmationService) {
		s.cooldown = d
	}
}

func WithNowFunc(now func() time.Time) ConfirmationOption {
	return func(s *ConfirmationService) {
		s.nowFunc = now
	}
}

func NewConfirmationService(repo bookings.Repo, notifier Notifier, options ...ConfirmationOption) *ConfirmationService {
	s := &ConfirmationService{
		repo:     repo,
		notifier: notifier,
		cooldown: DefaultCooldown,
		nowFunc:  time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// SendForReference emails the guest of the booking with this reference.
// Unknown references yield ErrNotFound and nothing is sent. Bookings that are
// neither confirmed nor paid yield ErrBookingNotConfirmed. It ignores the
// cooldown and is meant for staff and payment settlement.
func (s *ConfirmationService) SendForReference(ctx context.Context, reference string) error {
	booking, err := s.confirmedBooking(ctx, reference)
	if err != nil {
		return errors.Wrap(err, "[SendForReference]")
	}
	if err := s.notifier.SendBookingConfirmation(ctx, booking); err != nil {
		return errors.Wrap(err, "[SendForReference] send")
	}

	sentAt := s.nowFunc().UTC()
	if err := s.repo.SetConfirmationSentAt(ctx, booking.Reference, &sentAt); err != nil {
		log.Error().Err(err).Str("reference", booking.Reference).Msg("failed to record confirmation time")
	}
	log.Info().Str("reference", booking.Reference).Msg("booking confirmation sent")
	return nil
}

// RequestByGuest is SendForReference for unauthenticated callers. At most one
// email per booking is sent per cooldown window; further requests inside it
// yield ErrConfirmationCooldown. A failed delivery releases the window.
func (s *ConfirmationService) RequestByGuest(ctx context.Context, reference string) error {
	booking, err := s.confirmedBooking(ctx, reference)
	if err != nil {
		return errors.Wrap(err, "[RequestByGuest]")
	}

	now := s.nowFunc().UTC()
	if err := s.repo.ClaimConfirmation(ctx, booking.Reference, now, now.Add(-s.cooldown)); err != nil {
		if apperrors.Is(err, apperrors.ErrBookingNotFound) {
			return errors.Wrap(apperrors.ErrNotFound, "[RequestByGuest] booking")
		}
		return errors.Wrap(err, "[RequestByGuest] claim")
	}

	if err := s.notifier.SendBookingConfirmation(ctx, booking); err != nil {
		if rerr := s.repo.SetConfirmationSentAt(ctx, booking.Reference, booking.ConfirmationSentAt); rerr != nil {
			log.Error().Err(rerr).Str("reference", booking.Reference).Msg("failed to release confirmation claim")
		}
		return errors.Wrap(err, "[RequestByGuest] send")
	}
	log.Info().Str("reference", booking.Reference).Msg("guest requested booking confirmation sent")
	return nil
}

func (s *ConfirmationService) confirmedBooking(ctx context.Context, reference string) (*bookings.Booking, error) {
	booking, err := s.repo.Get(ctx, reference)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrBookingNotFound) {
			return nil, errors.Wrap(apperrors.ErrNotFound, "booking")
		}
		return nil, errors.Wrap(err, "get booking")
	}
	if !booking.Confirmed() {
		return nil, apperrors.ErrBookingNotConfirmed
	}
	return booking, nil
}
