package payment

import (
	"crypto/hmac"
	"fmt"
	"net/http"

	apperrors "github.com/jrsteele09/villa-booking/internal/errors"
	"github.com/rs/zerolog/log"
)

// CallbackVerifier authenticates DOKU HTTP notifications.
type CallbackVerifier struct {
	secret          string
	allowUnverified bool
}

type VerifierOption func(*CallbackVerifier)

// WithAllowUnverified lets notifications through when no secret key is
// configured. Only for sandbox and local development; with a secret present
// signatures are always checked.
func WithAllowUnverified(allow bool) VerifierOption {
	return func(v *CallbackVerifier) {
		v.allowUnverified = allow
	}
}

func NewCallbackVerifier(secret string, options ...VerifierOption) *CallbackVerifier {
	v := &CallbackVerifier{secret: secret}
	for _, opt := range options {
		opt(v)
	}
	return v
}

// Verify checks h and the exact received body against the signature the
// gateway computed for requestPath. Every failure wraps
// ErrCallbackVerification; the reason is for logs, not for the response.
func (v *CallbackVerifier) Verify(h http.Header, body []byte, requestPath string) error {
	if v.secret == "" {
		if v.allowUnverified {
			log.Warn().Str("path", requestPath).Msg("payment notification accepted without signature check: no secret key configured")
			return nil
		}
		return fmt.Errorf("%w: no secret key configured", apperrors.ErrCallbackVerification)
	}

	c := Components{
		ClientID:         h.Get(HeaderClientID),
		RequestID:        h.Get(HeaderRequestID),
		RequestTimestamp: h.Get(HeaderRequestTimestamp),
		RequestTarget:    requestPath,
		Digest:           Digest(body),
	}
	got := h.Get(HeaderSignature)
	if c.ClientID == "" || c.RequestID == "" || c.RequestTimestamp == "" || got == "" {
		return fmt.Errorf("%w: missing signature headers", apperrors.ErrCallbackVerification)
	}

	want := ComputeSignature(v.secret, c)
	if !hmac.Equal([]byte(want), []byte(got)) {
		return fmt.Errorf("%w: signature mismatch", apperrors.ErrCallbackVerification)
	}
	return nil
}
