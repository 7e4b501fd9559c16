package payment

import (
	"encoding/json"
	"fmt"

	"github.com/jrsteele09/villa-booking/bookings"
	apperrors "github.com/jrsteele09/villa-booking/internal/errors"
)

// Notification is the HTTP notification DOKU posts when a transaction
// changes state. Only the fields the booking flow reads are decoded.
type Notification struct {
	Order struct {
		InvoiceNumber string `json:"invoice_number"`
		Amount        int64  `json:"amount"`
	} `json:"order"`
	Transaction struct {
		Status string `json:"status"`
		Date   string `json:"date"`
	} `json:"transaction"`
}

// ParseNotification decodes a verified notification body.
func ParseNotification(body []byte) (*Notification, error) {
	n := &Notification{}
	if err := json.Unmarshal(body, n); err != nil {
		return nil, fmt.Errorf("%w: notification body: %v", apperrors.ErrInvalidRequest, err)
	}
	if n.Order.InvoiceNumber == "" {
		return nil, fmt.Errorf("%w: notification without invoice number", apperrors.ErrInvalidRequest)
	}
	if _, ok := transactionStatus(n.Transaction.Status); !ok {
		return nil, fmt.Errorf("%w: unknown transaction status %q", apperrors.ErrInvalidRequest, n.Transaction.Status)
	}
	return n, nil
}

// Status maps the gateway status onto the stored transaction status.
func (n *Notification) Status() bookings.TransactionStatus {
	s, _ := transactionStatus(n.Transaction.Status)
	return s
}

func transactionStatus(s string) (bookings.TransactionStatus, bool) {
	switch bookings.TransactionStatus(s) {
	case bookings.TransactionPending, bookings.TransactionSuccess, bookings.TransactionFailed, bookings.TransactionExpired:
		return bookings.TransactionStatus(s), true
	}
	return "", false
}
