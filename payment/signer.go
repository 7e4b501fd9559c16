package payment

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/villa-booking/internal/errors"
)

// Signer attaches DOKU request signatures to outbound calls.
type Signer struct {
	clientID  string
	secret    string
	nowFunc   func() time.Time
	requestID func() string
}

type SignerOption func(*Signer)

// WithSignerClock replaces the clock used for Request-Timestamp.
func WithSignerClock(now func() time.Time) SignerOption {
	return func(s *Signer) {
		s.nowFunc = now
	}
}

// WithRequestIDFunc replaces the Request-Id generator.
func WithRequestIDFunc(fn func() string) SignerOption {
	return func(s *Signer) {
		s.requestID = fn
	}
}

// NewSigner fails with ErrConfiguration when either credential is empty, so
// nothing is ever signed with an empty key.
func NewSigner(clientID, secret string, options ...SignerOption) (*Signer, error) {
	if clientID == "" {
		return nil, fmt.Errorf("%w: payment client id is required", apperrors.ErrConfiguration)
	}
	if secret == "" {
		return nil, fmt.Errorf("%w: payment secret key is required", apperrors.ErrConfiguration)
	}

	s := &Signer{
		clientID:  clientID,
		secret:    secret,
		nowFunc:   time.Now,
		requestID: uuid.NewString,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// SignedRequest carries the body bytes that were digested. Send Body as is;
// re-encoding it would break the digest.
type SignedRequest struct {
	Body       []byte
	Header     http.Header
	Components Components
}

// Sign serializes body once and signs those bytes for target.
func (s *Signer) Sign(body any, target string) (*SignedRequest, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("Signer.Sign marshal: %w", err)
	}
	return s.SignBytes(raw, target), nil
}

// SignBytes signs an already serialized body.
func (s *Signer) SignBytes(body []byte, target string) *SignedRequest {
	c := Components{
		ClientID:         s.clientID,
		RequestID:        s.requestID(),
		RequestTimestamp: FormatTimestamp(s.nowFunc()),
		RequestTarget:    target,
		Digest:           Digest(body),
	}

	h := http.Header{}
	h.Set(HeaderClientID, c.ClientID)
	h.Set(HeaderRequestID, c.RequestID)
	h.Set(HeaderRequestTimestamp, c.RequestTimestamp)
	h.Set(HeaderDigest, c.Digest)
	h.Set(HeaderSignature, ComputeSignature(s.secret, c))
	h.Set("Content-Type", "application/json")

	return &SignedRequest{Body: body, Header: h, Components: c}
}
