package fakenotifier

import (
	"context"
	"sync"

	"github.com/jrsteele09/villa-booking/bookings"
)

// Sent is one recorded confirmation.
type Sent struct {
	Reference string
	To        string
}

type FakeNotifier struct {
	sent []Sent
	Err  error
	lock sync.Mutex
}

func NewFakeNotifier() *FakeNotifier {
	return &FakeNotifier{}
}

func (n *FakeNotifier) SendBookingConfirmation(_ context.Context, booking *bookings.Booking) error {
	n.lock.Lock()
	defer n.lock.Unlock()
	if n.Err != nil {
		return n.Err
	}
	n.sent = append(n.sent, Sent{Reference: booking.Reference, To: booking.GuestEmail})
	return nil
}

func (n *FakeNotifier) Sent() []Sent {
	n.lock.Lock()
	defer n.lock.Unlock()
	out := make([]Sent, len(n.sent))
	copy(out, n.sent)
	return out
}
