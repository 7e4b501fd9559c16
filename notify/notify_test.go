package notify_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jrsteele09/villa-booking/bookings"
	fakebookingrepo "github.com/jrsteele09/villa-booking/bookings/repofake"
	apperrors "github.com/jrsteele09/villa-booking/internal/errors"
	"github.com/jrsteele09/villa-booking/notify"
	fakenotifier "github.com/jrsteele09/villa-booking/notify/notifierfake"
	"github.com/stretchr/testify/require"
)

func newBooking(reference string, status bookings.Status, paid bookings.PaymentStatus) *bookings.Booking {
	checkIn := time.Date(2026, 7, 10, 14, 0, 0, 0, time.UTC)
	return &bookings.Booking{
		Reference:     reference,
		GuestName:     "Ketut <Wayan>",
		GuestEmail:    "ketut@example.com",
		RoomName:      "Garden Villa",
		CheckIn:       checkIn,
		CheckOut:      checkIn.AddDate(0, 0, 3),
		Guests:        2,
		TotalAmount:   4500000,
		Status:        status,
		PaymentStatus: paid,
	}
}

func TestSendForReference(t *testing.T) {
	ctx := context.Background()
	repo := fakebookingrepo.NewFakeBookingRepo()
	require.NoError(t, repo.Create(ctx, newBooking("BK-CONFIRMED", bookings.StatusConfirmed, bookings.PaymentUnpaid)))
	require.NoError(t, repo.Create(ctx, newBooking("BK-PAID", bookings.StatusPending, bookings.PaymentPaid)))
	require.NoError(t, repo.Create(ctx, newBooking("BK-PENDING", bookings.StatusPending, bookings.PaymentUnpaid)))

	t.Run("unknown reference sends nothing", func(t *testing.T) {
		notifier := fakenotifier.NewFakeNotifier()
		err := notify.NewConfirmationService(repo, notifier).SendForReference(ctx, "BK-UNKNOWN")
		require.ErrorIs(t, err, apperrors.ErrNotFound)
		require.Empty(t, notifier.Sent())
	})

	t.Run("pending booking is refused", func(t *testing.T) {
		notifier := fakenotifier.NewFakeNotifier()
		err := notify.NewConfirmationService(repo, notifier).SendForReference(ctx, "BK-PENDING")
		require.ErrorIs(t, err, apperrors.ErrBookingNotConfirmed)
		require.Empty(t, notifier.Sent())
	})

	for _, reference := range []string{"BK-CONFIRMED", "BK-PAID"} {
		t.Run(reference, func(t *testing.T) {
			notifier := fakenotifier.NewFakeNotifier()
			require.NoError(t, notify.NewConfirmationService(repo, notifier).SendForReference(ctx, reference))
			require.Equal(t, []fakenotifier.Sent{{Reference: reference, To: "ketut@example.com"}}, notifier.Sent())
		})
	}

	t.Run("delivery failure is returned", func(t *testing.T) {
		notifier := fakenotifier.NewFakeNotifier()
		notifier.Err = errors.New("smtp down")
		err := notify.NewConfirmationService(repo, notifier).SendForReference(ctx, "BK-CONFIRMED")
		require.Error(t, err)
	})
}

func TestRequestByGuest(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	setup := func(t *testing.T) (*fakebookingrepo.FakeBookingRepo, *fakenotifier.FakeNotifier, *notify.ConfirmationService) {
		repo := fakebookingrepo.NewFakeBookingRepo()
		require.NoError(t, repo.Create(ctx, newBooking("BK-CONFIRMED", bookings.StatusConfirmed, bookings.PaymentUnpaid)))
		require.NoError(t, repo.Create(ctx, newBooking("BK-PENDING", bookings.StatusPending, bookings.PaymentUnpaid)))
		notifier := fakenotifier.NewFakeNotifier()
		svc := notify.NewConfirmationService(repo, notifier, notify.WithCooldown(5*time.Minute), notify.WithNowFunc(clock))
		return repo, notifier, svc
	}

	t.Run("one email per window", func(t *testing.T) {
		repo, notifier, svc := setup(t)
		now = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

		require.NoError(t, svc.RequestByGuest(ctx, "BK-CONFIRMED"))
		for i := 0; i < 3; i++ {
			require.ErrorIs(t, svc.RequestByGuest(ctx, "BK-CONFIRMED"), apperrors.ErrConfirmationCooldown)
		}
		require.Len(t, notifier.Sent(), 1)

		b, err := repo.Get(ctx, "BK-CONFIRMED")
		require.NoError(t, err)
		require.NotNil(t, b.ConfirmationSentAt)
		require.True(t, now.Equal(*b.ConfirmationSentAt))

		now = now.Add(6 * time.Minute)
		require.NoError(t, svc.RequestByGuest(ctx, "BK-CONFIRMED"))
		require.Len(t, notifier.Sent(), 2)
	})

	t.Run("unknown and pending bookings do not start a window", func(t *testing.T) {
		repo, notifier, svc := setup(t)

		require.ErrorIs(t, svc.RequestByGuest(ctx, "BK-UNKNOWN"), apperrors.ErrNotFound)
		require.ErrorIs(t, svc.RequestByGuest(ctx, "BK-PENDING"), apperrors.ErrBookingNotConfirmed)
		require.Empty(t, notifier.Sent())

		b, err := repo.Get(ctx, "BK-PENDING")
		require.NoError(t, err)
		require.Nil(t, b.ConfirmationSentAt)
	})

	t.Run("failed delivery releases the window", func(t *testing.T) {
		_, notifier, svc := setup(t)
		notifier.Err = errors.New("smtp down")
		require.Error(t, svc.RequestByGuest(ctx, "BK-CONFIRMED"))

		notifier.Err = nil
		require.NoError(t, svc.RequestByGuest(ctx, "BK-CONFIRMED"))
		require.Len(t, notifier.Sent(), 1)
	})

	t.Run("forced send records the time", func(t *testing.T) {
		repo, notifier, svc := setup(t)
		require.NoError(t, svc.SendForReference(ctx, "BK-CONFIRMED"))
		require.NoError(t, svc.SendForReference(ctx, "BK-CONFIRMED"))
		require.Len(t, notifier.Sent(), 2)

		b, err := repo.Get(ctx, "BK-CONFIRMED")
		require.NoError(t, err)
		require.NotNil(t, b.ConfirmationSentAt)
		require.ErrorIs(t, svc.RequestByGuest(ctx, "BK-CONFIRMED"), apperrors.ErrConfirmationCooldown)
	})
}

func TestRenderConfirmation(t *testing.T) {
	b := newBooking("BK-CONFIRMED", bookings.StatusConfirmed, bookings.PaymentPaid)

	html, err := notify.RenderConfirmation(b)
	require.NoError(t, err)
	require.Contains(t, html, "BK-CONFIRMED")
	require.Contains(t, html, "Ketut &lt;Wayan&gt;")
	require.NotContains(t, html, "<Wayan>")
	require.Contains(t, html, "IDR 4.500.000")
	require.Contains(t, html, "Fri, 10 Jul 2026")
	require.Contains(t, html, "<td>3</td>")
	require.Contains(t, html, "Paid")
	require.True(t, strings.HasSuffix(notify.ConfirmationSubject(b), "BK-CONFIRMED"))
}

func TestNewResendNotifier_RequiresConfig(t *testing.T) {
	_, err := notify.NewResendNotifier("", "bookings@example.com", "")
	require.ErrorIs(t, err, apperrors.ErrConfiguration)

	_, err = notify.NewResendNotifier("re_test", "", "")
	require.ErrorIs(t, err, apperrors.ErrConfiguration)

	n, err := notify.NewResendNotifier("re_test", "bookings@example.com", "Villa")
	require.NoError(t, err)
	require.NotNil(t, n)
}
