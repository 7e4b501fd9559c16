package token

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	apperrors "github.com/jrsteele09/villa-booking/internal/errors"
	"github.com/pkg/errors"
)

// DefaultTTL is how long an issued session token stays valid.
const DefaultTTL = 24 * time.Hour

// Service issues and verifies stateless session tokens. It holds no state
// besides the immutable secret, so a single instance is shared by all requests.
type Service struct {
	signer  *HMACSigner
	ttl     time.Duration
	nowFunc func() time.Time
	parser  *jwt.Parser
}

type ServiceOption func(*Service)

// WithNowFunc replaces the clock (primarily for testing).
func WithNowFunc(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowFunc = now
	}
}

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		s.ttl = ttl
	}
}

// NewService creates a token service keyed by secret. An empty secret is a
// configuration error: the service never issues unsigned tokens.
func NewService(secret string, options ...ServiceOption) (*Service, error) {
	if secret == "" {
		return nil, errors.Wrap(apperrors.ErrConfiguration, "[token.NewService] secret is required")
	}

	s := &Service{
		signer:  NewHMACSigner(secret),
		ttl:     DefaultTTL,
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	if s.ttl <= 0 {
		s.ttl = DefaultTTL
	}

	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{s.signer.GetSigningMethod().Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(func() time.Time { return s.nowFunc() }),
	)
	return s, nil
}

// Issue creates a token for the given subject, valid for the configured TTL
// from now.
func (s *Service) Issue(subjectID int64, subjectName string) (string, error) {
	if subjectID <= 0 {
		return "", errors.Wrap(apperrors.ErrInvalidRequest, "[Issue] subject id must be positive")
	}
	if strings.TrimSpace(subjectName) == "" {
		return "", errors.Wrap(apperrors.ErrInvalidRequest, "[Issue] subject name is required")
	}

	now := s.nowFunc().Unix()
	payload := Payload{
		SubjectID:   subjectID,
		SubjectName: subjectName,
		IssuedAt:    now,
		ExpiresAt:   now + int64(s.ttl/time.Second),
	}

	signed, err := s.signer.Sign(payload)
	if err != nil {
		return "", errors.Wrap(err, "[Issue] sign")
	}
	return signed, nil
}

// Verify returns the payload of raw only when its structure, signature and
// expiry all check out. Every failure is reported as one of
// ErrMalformedToken, ErrInvalidSignature or ErrTokenExpired; the payload is
// nil in that case.
func (s *Service) Verify(raw string) (*Payload, error) {
	if _, err := Split(raw); err != nil {
		return nil, err
	}

	payload := &Payload{}
	if _, err := s.parser.ParseWithClaims(raw, payload, s.signer.GetVerificationKey); err != nil {
		return nil, classify(err)
	}
	return payload, nil
}

// ExpiresIn reports the token lifetime in seconds, for login responses.
func (s *Service) ExpiresIn() int {
	return int(s.ttl.Seconds())
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", apperrors.ErrTokenExpired, err)
	default:
		return fmt.Errorf("%w: %v", apperrors.ErrMalformedToken, err)
	}
}
