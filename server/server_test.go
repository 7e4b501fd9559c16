package server_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/villa-booking/auth"
	"github.com/jrsteele09/villa-booking/bookings"
	fakebookingrepo "github.com/jrsteele09/villa-booking/bookings/repofake"
	"github.com/jrsteele09/villa-booking/internal/config"
	"github.com/jrsteele09/villa-booking/notify"
	fakenotifier "github.com/jrsteele09/villa-booking/notify/notifierfake"
	"github.com/jrsteele09/villa-booking/payment"
	"github.com/jrsteele09/villa-booking/server"
	"github.com/jrsteele09/villa-booking/token"
	fakeuserrepo "github.com/jrsteele09/villa-booking/users/repofake"
	"github.com/stretchr/testify/require"
)

const (
	authSecret     = "test-auth-secret"
	dokuClientID   = "BRN-TEST-0001"
	dokuSecretKey  = "SK-test-doku-secret"
	adminUsername  = "admin"
	adminPassword  = "Sup3rSecret"
	confirmedEmail = "ketut@example.com"
)

type testEnv struct {
	t        *testing.T
	handler  http.Handler
	users    *fakeuserrepo.FakeUserRepo
	bookings *fakebookingrepo.FakeBookingRepo
	notifier *fakenotifier.FakeNotifier
	gateway  *fakeGateway

	clockLock sync.Mutex
	now       time.Time
}

// fakeGateway is a DOKU Checkout stand-in that checks request signatures.
type fakeGateway struct {
	*httptest.Server
	lock sync.Mutex
	hits int
}

func newFakeGateway(t *testing.T) *fakeGateway {
	g := &fakeGateway{}
	verifier := payment.NewCallbackVerifier(dokuSecretKey)
	g.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		g.lock.Lock()
		g.hits++
		g.lock.Unlock()

		body, _ := io.ReadAll(r.Body)
		if err := verifier.Verify(r.Header, body, r.URL.Path); err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var req payment.CheckoutRequest
		_ = json.Unmarshal(body, &req)
		_, _ = w.Write([]byte(`{"message":["SUCCESS"],"response":{"payment":{"url":"https://checkout.example/` + req.Order.InvoiceNumber + `"}}}`))
	}))
	t.Cleanup(g.Close)
	return g
}

func (g *fakeGateway) Hits() int {
	g.lock.Lock()
	defer g.lock.Unlock()
	return g.hits
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		t:        t,
		users:    fakeuserrepo.NewFakeUserRepo(),
		bookings: fakebookingrepo.NewFakeBookingRepo(),
		notifier: fakenotifier.NewFakeNotifier(),
		gateway:  newFakeGateway(t),
		now:      time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}

	tokens, err := token.NewService(authSecret, token.WithNowFunc(env.clock))
	require.NoError(t, err)
	login, err := auth.NewLoginService(env.users, tokens)
	require.NoError(t, err)

	signer, err := payment.NewSigner(dokuClientID, dokuSecretKey)
	require.NoError(t, err)
	confirmations := notify.NewConfirmationService(env.bookings, env.notifier, notify.WithNowFunc(env.clock))
	payments := payment.NewService(env.bookings, payment.NewClient(env.gateway.URL, signer),
		payment.WithConfirmer(confirmations))

	_, err = server.EnsureAdmin(context.Background(), env.users, adminUsername, adminPassword)
	require.NoError(t, err)

	srv, err := server.New(config.New(), server.Services{
		Users:         env.users,
		Bookings:      env.bookings,
		Login:         login,
		Gate:          auth.NewGate(tokens),
		Payments:      payments,
		Callbacks:     payment.NewCallbackVerifier(dokuSecretKey),
		Confirmations: confirmations,
	})
	require.NoError(t, err)
	env.handler = srv
	return env
}

func (e *testEnv) clock() time.Time {
	e.clockLock.Lock()
	defer e.clockLock.Unlock()
	return e.now
}

func (e *testEnv) advance(d time.Duration) {
	e.clockLock.Lock()
	defer e.clockLock.Unlock()
	e.now = e.now.Add(d)
}

func (e *testEnv) do(method, path, body string, header http.Header) *httptest.ResponseRecorder {
	e.t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	for k, v := range header {
		req.Header[k] = v
	}
	if body != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func bearer(tok string) http.Header {
	return http.Header{"Authorization": []string{"Bearer " + tok}}
}

func (e *testEnv) login() string {
	e.t.Helper()
	rec := e.do(http.MethodPost, server.RouteAuthLogin, `{"username":"admin","password":"Sup3rSecret"}`, nil)
	require.Equal(e.t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token     string `json:"token"`
		TokenType string `json:"token_type"`
		ExpiresIn int    `json:"expires_in"`
	}
	require.NoError(e.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(e.t, "Bearer", resp.TokenType)
	require.Equal(e.t, 86400, resp.ExpiresIn)
	require.NotEmpty(e.t, resp.Token)
	return resp.Token
}

func (e *testEnv) seedBooking(reference string, status bookings.Status) *bookings.Booking {
	e.t.Helper()
	b := &bookings.Booking{
		Reference:     reference,
		GuestName:     "Ketut",
		GuestEmail:    confirmedEmail,
		CheckIn:       time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC),
		CheckOut:      time.Date(2026, 7, 13, 0, 0, 0, 0, time.UTC),
		Guests:        2,
		TotalAmount:   4500000,
		Status:        status,
		PaymentStatus: bookings.PaymentUnpaid,
	}
	require.NoError(e.t, e.bookings.Create(context.Background(), b))
	return b
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestLoginThenProtectedRoutes(t *testing.T) {
	env := newTestEnv(t)
	tok := env.login()

	rec := env.do(http.MethodGet, server.RouteAuthMe, "", bearer(tok))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"username":"admin"`)
	require.NotContains(t, rec.Body.String(), "password")

	createBody := `{"guest_name":"Made","guest_email":"made@example.com","check_in":"2026-07-10","check_out":"2026-07-12","guests":2,"total_amount":3000000}`

	rec = env.do(http.MethodPost, server.RouteBookings, createBody, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "unauthorized", decodeError(t, rec))

	rec = env.do(http.MethodPost, server.RouteBookings, createBody, bearer(tok))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created bookings.Booking
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.True(t, strings.HasPrefix(created.Reference, "BK-"))
	require.Equal(t, bookings.StatusPending, created.Status)

	rec = env.do(http.MethodGet, "/api/bookings/"+created.Reference, "", bearer(tok))
	require.Equal(t, http.StatusOK, rec.Code)

	// Still valid one second before expiry, rejected at it.
	env.advance(24*time.Hour - time.Second)
	rec = env.do(http.MethodGet, server.RouteAuthMe, "", bearer(tok))
	require.Equal(t, http.StatusOK, rec.Code)

	env.advance(time.Second)
	writes := env.bookings.Writes()
	rec = env.do(http.MethodPost, server.RouteBookings, createBody, bearer(tok))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, writes, env.bookings.Writes())

	rec = env.do(http.MethodGet, server.RouteAuthMe, "", bearer(tok))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body string
		code int
	}{
		{name: "wrong password", body: `{"username":"admin","password":"nope"}`, code: http.StatusUnauthorized},
		{name: "unknown user", body: `{"username":"ghost","password":"Sup3rSecret"}`, code: http.StatusUnauthorized},
		{name: "missing password", body: `{"username":"admin"}`, code: http.StatusBadRequest},
		{name: "not json", body: `username=admin`, code: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(http.MethodPost, server.RouteAuthLogin, tt.body, nil)
			require.Equal(t, tt.code, rec.Code)
			require.NotContains(t, rec.Body.String(), "token\"")
		})
	}

	// Unknown user and wrong password are indistinguishable.
	a := env.do(http.MethodPost, server.RouteAuthLogin, tests[0].body, nil)
	b := env.do(http.MethodPost, server.RouteAuthLogin, tests[1].body, nil)
	require.Equal(t, a.Body.String(), b.Body.String())
}

func TestGate_DeniesWithoutMutation(t *testing.T) {
	env := newTestEnv(t)
	booking := env.seedBooking("BK-CONFIRMD", bookings.StatusConfirmed)
	tok := env.login()

	routes := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodPost, server.RouteBookings, `{"guest_name":"x","guest_email":"x@example.com","check_in":"2026-07-10","check_out":"2026-07-11","guests":1}`},
		{http.MethodPut, "/api/bookings/" + booking.Reference + "/status", `{"status":"cancelled"}`},
		{http.MethodDelete, "/api/bookings/" + booking.Reference, ""},
		{http.MethodPost, "/api/bookings/" + booking.Reference + "/resend-confirmation", ""},
		{http.MethodPost, server.RoutePaymentsCheckout, `{"booking_reference":"` + booking.Reference + `"}`},
	}

	headers := map[string]http.Header{
		"no header":      nil,
		"basic scheme":   {"Authorization": []string{"Basic YWRtaW46U3VwM3JTZWNyZXQ="}},
		"lowercase":      {"Authorization": []string{"bearer " + tok}},
		"empty token":    {"Authorization": []string{"Bearer "}},
		"bad signature":  bearer(tok[:len(tok)-2] + "xx"),
		"garbage token":  bearer("not.a.token"),
		"two parts only": bearer("abc.def"),
	}

	writes := env.bookings.Writes()
	for _, route := range routes {
		for name, h := range headers {
			t.Run(route.method+" "+route.path+" "+name, func(t *testing.T) {
				rec := env.do(route.method, route.path, route.body, h)
				require.Equal(t, http.StatusUnauthorized, rec.Code)
				require.Equal(t, "unauthorized", decodeError(t, rec))
			})
		}
	}

	require.Equal(t, writes, env.bookings.Writes())
	require.Empty(t, env.notifier.Sent())
	require.Zero(t, env.gateway.Hits())

	rec := env.do(http.MethodGet, "/api/bookings/"+booking.Reference, "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = env.do(http.MethodGet, server.RouteBookings, "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBookingLifecycle(t *testing.T) {
	env := newTestEnv(t)
	tok := env.login()
	booking := env.seedBooking("BK-LIFECYCL", bookings.StatusPending)

	rec := env.do(http.MethodPut, "/api/bookings/"+booking.Reference+"/status", `{"status":"paid"}`, bearer(tok))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPost, "/api/bookings/"+booking.Reference+"/resend-confirmation", "", bearer(tok))
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(http.MethodPut, "/api/bookings/"+booking.Reference+"/status", `{"status":"confirmed"}`, bearer(tok))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"confirmed"`)

	rec = env.do(http.MethodPost, "/api/bookings/"+booking.Reference+"/resend-confirmation", "", bearer(tok))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []fakenotifier.Sent{{Reference: booking.Reference, To: confirmedEmail}}, env.notifier.Sent())

	rec = env.do(http.MethodGet, server.RouteBookings+"?limit=10", "", bearer(tok))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), booking.Reference)

	rec = env.do(http.MethodGet, server.RouteBookings+"?offset=-1", "", bearer(tok))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodDelete, "/api/bookings/"+booking.Reference, "", bearer(tok))
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(http.MethodGet, "/api/bookings/"+booking.Reference, "", bearer(tok))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateBooking_Validation(t *testing.T) {
	env := newTestEnv(t)
	tok := env.login()

	tests := []struct {
		name string
		body string
	}{
		{name: "missing email", body: `{"guest_name":"x","check_in":"2026-07-10","check_out":"2026-07-11","guests":1}`},
		{name: "bad date", body: `{"guest_name":"x","guest_email":"x@example.com","check_in":"10/07/2026","check_out":"2026-07-11","guests":1}`},
		{name: "check out before check in", body: `{"guest_name":"x","guest_email":"x@example.com","check_in":"2026-07-10","check_out":"2026-07-10","guests":1}`},
		{name: "unknown field", body: `{"guest_name":"x","guest_email":"x@example.com","check_in":"2026-07-10","check_out":"2026-07-11","guests":1,"status":"confirmed"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writes := env.bookings.Writes()
			rec := env.do(http.MethodPost, server.RouteBookings, tt.body, bearer(tok))
			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Equal(t, writes, env.bookings.Writes())
		})
	}
}

func TestGuestConfirmation(t *testing.T) {
	env := newTestEnv(t)
	env.seedBooking("BK-CONFIRMD", bookings.StatusConfirmed)
	env.seedBooking("BK-PENDINGX", bookings.StatusPending)

	t.Run("unknown reference", func(t *testing.T) {
		rec := env.do(http.MethodPost, server.RouteNotificationsConfirmation, `{"reference":"BK-UNKNOWN1"}`, nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Empty(t, env.notifier.Sent())
	})

	t.Run("client supplied recipient is refused", func(t *testing.T) {
		rec := env.do(http.MethodPost, server.RouteNotificationsConfirmation, `{"reference":"BK-CONFIRMD","email":"attacker@example.com"}`, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Empty(t, env.notifier.Sent())
	})

	t.Run("pending booking", func(t *testing.T) {
		rec := env.do(http.MethodPost, server.RouteNotificationsConfirmation, `{"reference":"BK-PENDINGX"}`, nil)
		require.Equal(t, http.StatusConflict, rec.Code)
		require.Empty(t, env.notifier.Sent())
	})

	t.Run("confirmed booking goes to the stored address", func(t *testing.T) {
		rec := env.do(http.MethodPost, server.RouteNotificationsConfirmation, `{"reference":"BK-CONFIRMD"}`, nil)
		require.Equal(t, http.StatusAccepted, rec.Code)
		require.Equal(t, []fakenotifier.Sent{{Reference: "BK-CONFIRMD", To: confirmedEmail}}, env.notifier.Sent())
	})

	t.Run("repeat inside the cooldown is refused", func(t *testing.T) {
		env.advance(time.Minute)
		rec := env.do(http.MethodPost, server.RouteNotificationsConfirmation, `{"reference":"BK-CONFIRMD"}`, nil)
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		require.Equal(t, "too_many_requests", decodeError(t, rec))
		require.NotEmpty(t, rec.Header().Get("Retry-After"))
		require.Len(t, env.notifier.Sent(), 1)
	})

	t.Run("allowed again after the cooldown", func(t *testing.T) {
		env.advance(notify.DefaultCooldown)
		rec := env.do(http.MethodPost, server.RouteNotificationsConfirmation, `{"reference":"BK-CONFIRMD"}`, nil)
		require.Equal(t, http.StatusAccepted, rec.Code)
		require.Len(t, env.notifier.Sent(), 2)
	})

	t.Run("staff resend ignores the cooldown", func(t *testing.T) {
		tok := env.login()
		rec := env.do(http.MethodPost, "/api/bookings/BK-CONFIRMD/resend-confirmation", "", bearer(tok))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, env.notifier.Sent(), 3)

		// The staff send restarts the guest window.
		rec = env.do(http.MethodPost, server.RouteNotificationsConfirmation, `{"reference":"BK-CONFIRMD"}`, nil)
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		require.Len(t, env.notifier.Sent(), 3)
	})
}

func TestCheckoutAndPaymentNotification(t *testing.T) {
	env := newTestEnv(t)
	tok := env.login()
	booking := env.seedBooking("BK-PAYMENT1", bookings.StatusPending)

	rec := env.do(http.MethodPost, server.RoutePaymentsCheckout, `{"booking_reference":"BK-PAYMENT1"}`, bearer(tok))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var checkout struct {
		InvoiceNumber string `json:"invoice_number"`
		PaymentURL    string `json:"payment_url"`
		Amount        int64  `json:"amount"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &checkout))
	require.Equal(t, "https://checkout.example/"+checkout.InvoiceNumber, checkout.PaymentURL)
	require.Equal(t, booking.TotalAmount, checkout.Amount)
	require.Equal(t, 1, env.gateway.Hits())

	body := []byte(`{"order":{"invoice_number":"` + checkout.InvoiceNumber + `","amount":4500000},"transaction":{"status":"SUCCESS","date":"2026-03-01T10:05:00Z"}}`)
	gatewaySigner, err := payment.NewSigner(dokuClientID, dokuSecretKey)
	require.NoError(t, err)

	t.Run("signed for another path", func(t *testing.T) {
		signed := gatewaySigner.SignBytes(body, "/somewhere/else")
		writes := env.bookings.Writes()
		rec := env.do(http.MethodPost, server.RoutePaymentsNotify, string(body), signed.Header)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, writes, env.bookings.Writes())
	})

	t.Run("body altered after signing", func(t *testing.T) {
		signed := gatewaySigner.SignBytes(body, server.RoutePaymentsNotify)
		altered := strings.Replace(string(body), "4500000", "1", 1)
		writes := env.bookings.Writes()
		rec := env.do(http.MethodPost, server.RoutePaymentsNotify, altered, signed.Header)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, writes, env.bookings.Writes())
	})

	t.Run("unsigned", func(t *testing.T) {
		rec := env.do(http.MethodPost, server.RoutePaymentsNotify, string(body), nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "unauthorized", decodeError(t, rec))
	})

	t.Run("verified success", func(t *testing.T) {
		signed := gatewaySigner.SignBytes(body, server.RoutePaymentsNotify)
		rec := env.do(http.MethodPost, server.RoutePaymentsNotify, string(body), signed.Header)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		stored, err := env.bookings.Get(context.Background(), booking.Reference)
		require.NoError(t, err)
		require.Equal(t, bookings.PaymentPaid, stored.PaymentStatus)
		require.Equal(t, bookings.StatusConfirmed, stored.Status)
		require.Equal(t, []fakenotifier.Sent{{Reference: booking.Reference, To: confirmedEmail}}, env.notifier.Sent())
	})

	t.Run("checkout of a paid booking", func(t *testing.T) {
		rec := env.do(http.MethodPost, server.RoutePaymentsCheckout, `{"booking_reference":"BK-PAYMENT1"}`, bearer(tok))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, 1, env.gateway.Hits())
	})
}

func TestCorsPreflight(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodOptions, server.RouteBookings, "", http.Header{
		"Origin":                        []string{"http://localhost:5173"},
		"Access-Control-Request-Method": []string{"POST"},
	})
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")

	rec = env.do(http.MethodOptions, server.RouteBookings, "", http.Header{
		"Origin": []string{"https://evil.example"},
	})
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestBodyLimit(t *testing.T) {
	env := newTestEnv(t)

	big := `{"username":"admin","password":"` + strings.Repeat("a", 2<<20) + `"}`
	rec := env.do(http.MethodPost, server.RouteAuthLogin, big, nil)
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestHealthAndNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, server.RouteHealth, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = env.do(http.MethodGet, "/nope", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
