package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/jrsteele09/villa-booking/bookings"
	apperrors "github.com/jrsteele09/villa-booking/internal/errors"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Gateway creates hosted checkout sessions. *Client implements it.
type Gateway interface {
	Configured() bool
	CreateCheckout(ctx context.Context, req *CheckoutRequest) (*CheckoutResponse, error)
}

// Confirmer sends the guest confirmation for a booking reference.
type Confirmer interface {
	SendForReference(ctx context.Context, reference string) error
}

// Service runs the booking side of the payment flow.
type Service struct {
	repo           bookings.Repo
	gateway        Gateway
	confirmer      Confirmer
	callbackURL    string
	paymentDueMins int
	nowFunc        func() time.Time
}

type ServiceOption func(*Service)

func WithCallbackURL(url string) ServiceOption {
	return func(s *Service) {
		s.callbackURL = url
	}
}

func WithPaymentDue(minutes int) ServiceOption {
	return func(s *Service) {
		s.paymentDueMins = minutes
	}
}

func WithConfirmer(c Confirmer) ServiceOption {
	return func(s *Service) {
		s.confirmer = c
	}
}

func WithNowFunc(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowFunc = now
	}
}

func NewService(repo bookings.Repo, gateway Gateway, options ...ServiceOption) *Service {
	s := &Service{
		repo:           repo,
		gateway:        gateway,
		paymentDueMins: 60,
		nowFunc:        time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Checkout opens a PENDING transaction for the booking and asks the gateway
// for a payment page. The transaction is stored before the gateway call so a
// notification can never arrive for an unknown invoice.
func (s *Service) Checkout(ctx context.Context, reference string) (*bookings.Transaction, error) {
	if !s.gateway.Configured() {
		return nil, errors.Wrap(apperrors.ErrConfiguration, "[Checkout] payment gateway is not configured")
	}
	booking, err := s.repo.Get(ctx, reference)
	if err != nil {
		return nil, errors.Wrap(err, "[Checkout] get booking")
	}
	if booking.Status == bookings.StatusCancelled {
		return nil, errors.Wrap(apperrors.ErrInvalidRequest, "[Checkout] booking is cancelled")
	}
	if booking.PaymentStatus == bookings.PaymentPaid {
		return nil, errors.Wrap(apperrors.ErrInvalidRequest, "[Checkout] booking is already paid")
	}
	if booking.TotalAmount <= 0 {
		return nil, errors.Wrap(apperrors.ErrInvalidRequest, "[Checkout] booking has no amount to pay")
	}

	invoice, err := bookings.NewInvoiceNumber(s.nowFunc())
	if err != nil {
		return nil, errors.Wrap(err, "[Checkout] invoice number")
	}

	tx := &bookings.Transaction{
		InvoiceNumber:    invoice,
		BookingReference: booking.Reference,
		Amount:           booking.TotalAmount,
		Status:           bookings.TransactionPending,
	}
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, errors.Wrap(err, "[Checkout] create transaction")
	}

	resp, err := s.gateway.CreateCheckout(ctx, &CheckoutRequest{
		Order: CheckoutOrder{
			Amount:        booking.TotalAmount,
			InvoiceNumber: invoice,
			Currency:      "IDR",
			CallbackURL:   s.callbackURL,
		},
		Payment: CheckoutPayment{PaymentDueDate: s.paymentDueMins},
		Customer: CheckoutCustomer{
			Name:  booking.GuestName,
			Email: booking.GuestEmail,
			Phone: booking.GuestPhone,
		},
	})
	if err != nil {
		if uerr := s.repo.UpdateTransaction(ctx, invoice, bookings.TransactionFailed, ""); uerr != nil {
			log.Error().Err(uerr).Str("invoice", invoice).Msg("failed to mark transaction failed")
		}
		return nil, errors.Wrap(err, "[Checkout] gateway")
	}

	if err := s.repo.UpdateTransaction(ctx, invoice, bookings.TransactionPending, resp.PaymentURL()); err != nil {
		return nil, errors.Wrap(err, "[Checkout] store payment url")
	}
	tx.PaymentURL = resp.PaymentURL()

	log.Info().Str("reference", booking.Reference).Str("invoice", invoice).Msg("checkout created")
	return tx, nil
}

// HandleNotification applies a verified gateway notification. Only the call
// whose update moves the invoice to SUCCESS marks the booking paid and sends
// the confirmation; repeated or concurrent SUCCESS deliveries are no-ops.
func (s *Service) HandleNotification(ctx context.Context, n *Notification) error {
	tx, err := s.repo.GetTransaction(ctx, n.Order.InvoiceNumber)
	if err != nil {
		return errors.Wrap(err, "[HandleNotification] get transaction")
	}
	if tx.Status == bookings.TransactionSuccess {
		log.Info().Str("invoice", tx.InvoiceNumber).Msg("duplicate notification for settled invoice")
		return nil
	}

	status := n.Status()
	if status == bookings.TransactionSuccess && n.Order.Amount != tx.Amount {
		return errors.Wrap(apperrors.ErrInvalidRequest,
			fmt.Sprintf("[HandleNotification] amount %d does not match invoice amount %d", n.Order.Amount, tx.Amount))
	}

	if err := s.repo.UpdateTransaction(ctx, tx.InvoiceNumber, status, ""); err != nil {
		if apperrors.Is(err, apperrors.ErrTransactionSettled) {
			log.Info().Str("invoice", tx.InvoiceNumber).Msg("invoice settled by a concurrent notification")
			return nil
		}
		return errors.Wrap(err, "[HandleNotification] update transaction")
	}
	if status != bookings.TransactionSuccess {
		log.Info().Str("invoice", tx.InvoiceNumber).Str("status", string(status)).Msg("transaction updated")
		return nil
	}

	if err := s.repo.MarkPaid(ctx, tx.BookingReference); err != nil {
		return errors.Wrap(err, "[HandleNotification] mark paid")
	}
	log.Info().Str("reference", tx.BookingReference).Str("invoice", tx.InvoiceNumber).Msg("booking paid")

	if s.confirmer != nil {
		if err := s.confirmer.SendForReference(ctx, tx.BookingReference); err != nil {
			log.Error().Err(err).Str("reference", tx.BookingReference).Msg("failed to send booking confirmation")
		}
	}
	return nil
}
