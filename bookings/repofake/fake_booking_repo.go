package fakebookingrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jrsteele09/villa-booking/bookings"
	apperrors "github.com/jrsteele09/villa-booking/internal/errors"
)

var _ bookings.Repo = (*FakeBookingRepo)(nil)

type FakeBookingRepo struct {
	bookings     map[string]*bookings.Booking
	transactions map[string]*bookings.Transaction
	writes       int
	lock         sync.RWMutex
}

func NewFakeBookingRepo() *FakeBookingRepo {
	return &FakeBookingRepo{
		bookings:     make(map[string]*bookings.Booking),
		transactions: make(map[string]*bookings.Transaction),
	}
}

// Writes counts every mutating call, successful or not.
func (r *FakeBookingRepo) Writes() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.writes
}

func (r *FakeBookingRepo) Create(_ context.Context, booking *bookings.Booking) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.writes++

	now := time.Now().UTC()
	booking.CreatedAt, booking.UpdatedAt = now, now
	copied := *booking
	r.bookings[booking.Reference] = &copied
	return nil
}

func (r *FakeBookingRepo) Get(_ context.Context, reference string) (*bookings.Booking, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	b, ok := r.bookings[reference]
	if !ok {
		return nil, apperrors.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *FakeBookingRepo) List(_ context.Context, offset, limit int) ([]*bookings.Booking, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	list := make([]*bookings.Booking, 0, len(r.bookings))
	for _, b := range r.bookings {
		copied := *b
		list = append(list, &copied)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Reference < list[j].Reference
	})

	if offset >= len(list) {
		return []*bookings.Booking{}, nil
	}
	end := offset + limit
	if end > len(list) {
		end = len(list)
	}
	return list[offset:end], nil
}

func (r *FakeBookingRepo) UpdateStatus(_ context.Context, reference string, status bookings.Status) error {
	if !status.Valid() {
		return apperrors.Wrapf(apperrors.ErrInvalidRequest, "booking status %q", status)
	}
	return r.update(reference, func(b *bookings.Booking) { b.Status = status })
}

func (r *FakeBookingRepo) MarkPaid(_ context.Context, reference string) error {
	return r.update(reference, func(b *bookings.Booking) {
		b.PaymentStatus = bookings.PaymentPaid
		b.Status = bookings.StatusConfirmed
	})
}

func (r *FakeBookingRepo) Delete(_ context.Context, reference string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.writes++

	if _, ok := r.bookings[reference]; !ok {
		return apperrors.ErrBookingNotFound
	}
	delete(r.bookings, reference)
	return nil
}

func (r *FakeBookingRepo) ClaimConfirmation(_ context.Context, reference string, now, notBefore time.Time) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.writes++

	b, ok := r.bookings[reference]
	if !ok {
		return apperrors.ErrBookingNotFound
	}
	if b.ConfirmationSentAt != nil && !b.ConfirmationSentAt.Before(notBefore) {
		return apperrors.ErrConfirmationCooldown
	}
	sentAt := now.UTC()
	b.ConfirmationSentAt = &sentAt
	return nil
}

func (r *FakeBookingRepo) SetConfirmationSentAt(_ context.Context, reference string, sentAt *time.Time) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.writes++

	b, ok := r.bookings[reference]
	if !ok {
		return apperrors.ErrBookingNotFound
	}
	b.ConfirmationSentAt = nil
	if sentAt != nil {
		copied := sentAt.UTC()
		b.ConfirmationSentAt = &copied
	}
	return nil
}

func (r *FakeBookingRepo) CreateTransaction(_ context.Context, tx *bookings.Transaction) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.writes++

	now := time.Now().UTC()
	tx.CreatedAt, tx.UpdatedAt = now, now
	copied := *tx
	r.transactions[tx.InvoiceNumber] = &copied
	return nil
}

func (r *FakeBookingRepo) GetTransaction(_ context.Context, invoiceNumber string) (*bookings.Transaction, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	tx, ok := r.transactions[invoiceNumber]
	if !ok {
		return nil, apperrors.ErrTransactionNotFound
	}
	copied := *tx
	return &copied, nil
}

func (r *FakeBookingRepo) UpdateTransaction(_ context.Context, invoiceNumber string, status bookings.TransactionStatus, paymentURL string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.writes++

	tx, ok := r.transactions[invoiceNumber]
	if !ok {
		return apperrors.ErrTransactionNotFound
	}
	if tx.Status == bookings.TransactionSuccess {
		return apperrors.ErrTransactionSettled
	}
	tx.Status = status
	if paymentURL != "" {
		tx.PaymentURL = paymentURL
	}
	tx.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *FakeBookingRepo) update(reference string, fn func(*bookings.Booking)) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.writes++

	b, ok := r.bookings[reference]
	if !ok {
		return apperrors.ErrBookingNotFound
	}
	fn(b)
	b.UpdatedAt = time.Now().UTC()
	return nil
}
