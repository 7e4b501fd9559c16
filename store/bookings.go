package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jrsteele09/villa-booking/bookings"
	apperrors "github.com/jrsteele09/villa-booking/internal/errors"
)

type bookingRepository struct {
	db *sqlx.DB
}

var _ bookings.Repo = (*bookingRepository)(nil)

const bookingColumns = `reference, guest_name, guest_email, guest_phone, room_name,
	check_in, check_out, guests, total_amount, status, payment_status, created_at, updated_at,
	confirmation_sent_at`

const transactionColumns = `invoice_number, booking_reference, amount, status, payment_url,
	created_at, updated_at`

func (r *bookingRepository) Create(ctx context.Context, booking *bookings.Booking) error {
	now := time.Now().UTC()
	booking.CreatedAt, booking.UpdatedAt = now, now

	query := `INSERT INTO bookings (` + bookingColumns + `) VALUES (
		:reference, :guest_name, :guest_email, :guest_phone, :room_name,
		:check_in, :check_out, :guests, :total_amount, :status, :payment_status, :created_at, :updated_at,
		:confirmation_sent_at)`

	if _, err := r.db.NamedExecContext(ctx, query, booking); err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *bookingRepository) Get(ctx context.Context, reference string) (*bookings.Booking, error) {
	var booking bookings.Booking
	query := r.db.Rebind(`SELECT ` + bookingColumns + ` FROM bookings WHERE reference = ?`)
	if err := r.db.GetContext(ctx, &booking, query, reference); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

func (r *bookingRepository) List(ctx context.Context, offset, limit int) ([]*bookings.Booking, error) {
	list := []*bookings.Booking{}
	query := r.db.Rebind(`SELECT ` + bookingColumns + ` FROM bookings ORDER BY check_in DESC, reference LIMIT ? OFFSET ?`)
	if err := r.db.SelectContext(ctx, &list, query, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return list, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, reference string, status bookings.Status) error {
	if !status.Valid() {
		return apperrors.Wrapf(apperrors.ErrInvalidRequest, "booking status %q", status)
	}
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE bookings SET status = ?, updated_at = ? WHERE reference = ?`),
		status, time.Now().UTC(), reference)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	return requireAffected(res, apperrors.ErrBookingNotFound)
}

func (r *bookingRepository) MarkPaid(ctx context.Context, reference string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE bookings SET status = ?, payment_status = ?, updated_at = ? WHERE reference = ?`),
		bookings.StatusConfirmed, bookings.PaymentPaid, time.Now().UTC(), reference)
	if err != nil {
		return fmt.Errorf("failed to mark booking paid: %w", err)
	}
	return requireAffected(res, apperrors.ErrBookingNotFound)
}

func (r *bookingRepository) Delete(ctx context.Context, reference string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin delete: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM payment_transactions WHERE booking_reference = ?`), reference); err != nil {
		return fmt.Errorf("failed to delete booking transactions: %w", err)
	}
	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM bookings WHERE reference = ?`), reference)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	if err := requireAffected(res, apperrors.ErrBookingNotFound); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *bookingRepository) ClaimConfirmation(ctx context.Context, reference string, now, notBefore time.Time) error {
	query := r.db.Rebind(`UPDATE bookings SET confirmation_sent_at = ?
		WHERE reference = ? AND (confirmation_sent_at IS NULL OR confirmation_sent_at < ?)`)
	res, err := r.db.ExecContext(ctx, query, now.UTC(), reference, notBefore.UTC())
	if err != nil {
		return fmt.Errorf("failed to claim confirmation: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("rows affected: %w", err)
	} else if n > 0 {
		return nil
	}
	if err := r.exists(ctx, `SELECT COUNT(*) FROM bookings WHERE reference = ?`, reference, apperrors.ErrBookingNotFound); err != nil {
		return err
	}
	return apperrors.ErrConfirmationCooldown
}

// SetConfirmationSentAt records or, with nil, clears the last confirmation time.
func (r *bookingRepository) SetConfirmationSentAt(ctx context.Context, reference string, sentAt *time.Time) error {
	var value any
	if sentAt != nil {
		value = sentAt.UTC()
	}
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE bookings SET confirmation_sent_at = ? WHERE reference = ?`), value, reference)
	if err != nil {
		return fmt.Errorf("failed to record confirmation time: %w", err)
	}
	return requireAffected(res, apperrors.ErrBookingNotFound)
}

func (r *bookingRepository) CreateTransaction(ctx context.Context, t *bookings.Transaction) error {
	now := time.Now().UTC()
	t.CreatedAt, t.UpdatedAt = now, now

	query := `INSERT INTO payment_transactions (` + transactionColumns + `) VALUES (
		:invoice_number, :booking_reference, :amount, :status, :payment_url,
		:created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, t); err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *bookingRepository) GetTransaction(ctx context.Context, invoiceNumber string) (*bookings.Transaction, error) {
	var t bookings.Transaction
	query := r.db.Rebind(`SELECT ` + transactionColumns + ` FROM payment_transactions WHERE invoice_number = ?`)
	if err := r.db.GetContext(ctx, &t, query, invoiceNumber); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &t, nil
}

// UpdateTransaction sets the status and, when non-empty, the payment URL.
// A SUCCESS row is final: the update matches nothing and ErrTransactionSettled
// is returned, which makes the move to SUCCESS a single winner compare and set.
func (r *bookingRepository) UpdateTransaction(ctx context.Context, invoiceNumber string, status bookings.TransactionStatus, paymentURL string) error {
	query := r.db.Rebind(`UPDATE payment_transactions
		SET status = ?, payment_url = CASE WHEN ? = '' THEN payment_url ELSE ? END, updated_at = ?
		WHERE invoice_number = ? AND status <> ?`)
	res, err := r.db.ExecContext(ctx, query, status, paymentURL, paymentURL, time.Now().UTC(), invoiceNumber, bookings.TransactionSuccess)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("rows affected: %w", err)
	} else if n > 0 {
		return nil
	}
	if err := r.exists(ctx, `SELECT COUNT(*) FROM payment_transactions WHERE invoice_number = ?`, invoiceNumber, apperrors.ErrTransactionNotFound); err != nil {
		return err
	}
	return apperrors.ErrTransactionSettled
}

// exists returns missing when the count query matches no rows.
func (r *bookingRepository) exists(ctx context.Context, query string, arg any, missing error) error {
	var n int
	if err := r.db.GetContext(ctx, &n, r.db.Rebind(query), arg); err != nil {
		return fmt.Errorf("failed to check existence: %w", err)
	}
	if n == 0 {
		return missing
	}
	return nil
}
