package bookings

import (
	"context"
	"time"
)

// Repo is the booking store. Get methods return ErrBookingNotFound or
// ErrTransactionNotFound when nothing matches.
//
// UpdateTransaction never changes a SUCCESS row and returns
// ErrTransactionSettled instead, so exactly one caller observes the move to
// SUCCESS. ClaimConfirmation stamps confirmation_sent_at only when it is unset
// or older than notBefore, returning ErrConfirmationCooldown otherwise.
type Repo interface {
	Create(ctx context.Context, booking *Booking) error
	Get(ctx context.Context, reference string) (*Booking, error)
	List(ctx context.Context, offset, limit int) ([]*Booking, error)
	UpdateStatus(ctx context.Context, reference string, status Status) error
	MarkPaid(ctx context.Context, reference string) error
	Delete(ctx context.Context, reference string) error
	ClaimConfirmation(ctx context.Context, reference string, now, notBefore time.Time) error
	SetConfirmationSentAt(ctx context.Context, reference string, sentAt *time.Time) error

	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, invoiceNumber string) (*Transaction, error)
	UpdateTransaction(ctx context.Context, invoiceNumber string, status TransactionStatus, paymentURL string) error
}
