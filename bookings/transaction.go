package bookings

import "time"

// TransactionStatus mirrors the DOKU transaction status values.
type TransactionStatus string

const (
	TransactionPending TransactionStatus = "PENDING"
	TransactionSuccess TransactionStatus = "SUCCESS"
	TransactionFailed  TransactionStatus = "FAILED"
	TransactionExpired TransactionStatus = "EXPIRED"
)

// Transaction is one checkout attempt for a booking.
type Transaction struct {
	InvoiceNumber    string            `json:"invoice_number" db:"invoice_number"`
	BookingReference string            `json:"booking_reference" db:"booking_reference"`
	Amount           int64             `json:"amount" db:"amount"`
	Status           TransactionStatus `json:"status" db:"status"`
	PaymentURL       string            `json:"payment_url,omitempty" db:"payment_url"`
	CreatedAt        time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at" db:"updated_at"`
}
