package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/jrsteele09/villa-booking/internal/errors"
	"github.com/rs/zerolog/log"
)

const (
	SandboxBaseURL    = "https://api-sandbox.doku.com"
	ProductionBaseURL = "https://api.doku.com"

	CheckoutPath = "/checkout/v1/payment"
)

type CheckoutOrder struct {
	Amount        int64  `json:"amount"`
	InvoiceNumber string `json:"invoice_number"`
	Currency      string `json:"currency"`
	CallbackURL   string `json:"callback_url,omitempty"`
}

type CheckoutPayment struct {
	PaymentDueDate int `json:"payment_due_date"`
}

type CheckoutCustomer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// CheckoutRequest is the body of a DOKU Checkout payment request.
type CheckoutRequest struct {
	Order    CheckoutOrder    `json:"order"`
	Payment  CheckoutPayment  `json:"payment"`
	Customer CheckoutCustomer `json:"customer"`
}

type CheckoutResponse struct {
	Message  []string `json:"message"`
	Response struct {
		Order struct {
			Amount        string `json:"amount"`
			InvoiceNumber string `json:"invoice_number"`
		} `json:"order"`
		Payment struct {
			URL         string `json:"url"`
			TokenID     string `json:"token_id"`
			ExpiredDate string `json:"expired_date"`
		} `json:"payment"`
	} `json:"response"`
}

// PaymentURL is where the guest is redirected to pay.
func (r *CheckoutResponse) PaymentURL() string {
	return r.Response.Payment.URL
}

// Client talks to the DOKU Checkout API.
type Client struct {
	baseURL    string
	signer     *Signer
	httpClient *http.Client
}

type ClientOption func(*Client)

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func NewClient(baseURL string, signer *Signer, options ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		signer:     signer,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// CreateCheckout requests a hosted payment page for req. A client built
// without a signer fails with ErrConfiguration before any network call.
// Configured reports whether the client can sign gateway requests.
func (c *Client) Configured() bool {
	return c.signer != nil
}

func (c *Client) CreateCheckout(ctx context.Context, req *CheckoutRequest) (*CheckoutResponse, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("%w: payment signing is not configured", apperrors.ErrConfiguration)
	}
	signed, err := c.signer.Sign(req, CheckoutPath)
	if err != nil {
		return nil, fmt.Errorf("CreateCheckout: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+CheckoutPath, bytes.NewReader(signed.Body))
	if err != nil {
		return nil, fmt.Errorf("CreateCheckout new request: %w", err)
	}
	httpReq.Header = signed.Header

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("CreateCheckout send: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("CreateCheckout read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn().
			Int("status", resp.StatusCode).
			Str("invoice", req.Order.InvoiceNumber).
			Str("request_id", signed.Components.RequestID).
			Msg("payment gateway rejected checkout")
		return nil, fmt.Errorf("%w: status %d", apperrors.ErrGatewayResponse, resp.StatusCode)
	}

	out := &CheckoutResponse{}
	if err := json.Unmarshal(body, out); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", apperrors.ErrGatewayResponse, err)
	}
	if out.PaymentURL() == "" {
		return nil, fmt.Errorf("%w: no payment url", apperrors.ErrGatewayResponse)
	}
	return out, nil
}
