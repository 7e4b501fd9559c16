package bookings

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

// Booking is a guest reservation. GuestEmail is the only address guest
// notifications are ever sent to.
type Booking struct {
	Reference     string        `json:"reference" db:"reference"`
	GuestName     string        `json:"guest_name" db:"guest_name"`
	GuestEmail    string        `json:"guest_email" db:"guest_email"`
	GuestPhone    string        `json:"guest_phone,omitempty" db:"guest_phone"`
	RoomName      string        `json:"room_name,omitempty" db:"room_name"`
	CheckIn       time.Time     `json:"check_in" db:"check_in"`
	CheckOut      time.Time     `json:"check_out" db:"check_out"`
	Guests        int           `json:"guests" db:"guests"`
	TotalAmount   int64         `json:"total_amount" db:"total_amount"` // IDR, no minor unit
	Status        Status        `json:"status" db:"status"`
	PaymentStatus PaymentStatus `json:"payment_status" db:"payment_status"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`

	ConfirmationSentAt *time.Time `json:"confirmation_sent_at,omitempty" db:"confirmation_sent_at"`
}

// Confirmed reports whether the guest may be sent a confirmation.
func (b *Booking) Confirmed() bool {
	return b.Status == StatusConfirmed || b.PaymentStatus == PaymentPaid
}

// Nights between check in and check out.
func (b *Booking) Nights() int {
	return int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
}

// NewReference generates a booking reference like "BK-7F3A9C21E04B".
// References are shared with guests and accepted by public routes, so they
// carry 48 random bits.
func NewReference() (string, error) {
	return randomCode("BK-", 6)
}

// NewInvoiceNumber generates an invoice number like "INV-20260301-1A2B3C4D".
func NewInvoiceNumber(now time.Time) (string, error) {
	return randomCode(fmt.Sprintf("INV-%s-", now.UTC().Format("20060102")), 4)
}

func randomCode(prefix string, n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("randomCode rand.Read: %w", err)
	}
	return prefix + strings.ToUpper(hex.EncodeToString(b)), nil
}
