package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/jrsteele09/villa-booking/internal/errors"
	"github.com/jrsteele09/villa-booking/token"
)

const bearerPrefix = "Bearer "

// TokenVerifier is satisfied by *token.Service.
type TokenVerifier interface {
	Verify(raw string) (*token.Payload, error)
}

// Identity is the authenticated principal behind a request.
type Identity struct {
	SubjectID   int64     `json:"subject_id"`
	SubjectName string    `json:"subject_name"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Gate decides whether a request carries a valid session token.
type Gate struct {
	verifier TokenVerifier
}

func NewGate(verifier TokenVerifier) *Gate {
	return &Gate{verifier: verifier}
}

// Authorize extracts the bearer token from h and verifies it. The returned
// error wraps ErrMissingCredentials, ErrMalformedToken, ErrInvalidSignature
// or ErrTokenExpired; callers should treat all of them as 401.
func (g *Gate) Authorize(h http.Header) (*Identity, error) {
	raw, err := ExtractBearer(h)
	if err != nil {
		return nil, err
	}

	payload, err := g.verifier.Verify(raw)
	if err != nil {
		return nil, err
	}

	return &Identity{
		SubjectID:   payload.SubjectID,
		SubjectName: payload.SubjectName,
		ExpiresAt:   time.Unix(payload.ExpiresAt, 0).UTC(),
	}, nil
}

// ExtractBearer returns the token from a header of the exact form
// "Bearer <token>". A missing header, any other scheme, an empty token or
// more than one Authorization header is ErrMissingCredentials.
func ExtractBearer(h http.Header) (string, error) {
	values := h.Values("Authorization")
	if len(values) != 1 {
		return "", apperrors.ErrMissingCredentials
	}

	raw, ok := strings.CutPrefix(values[0], bearerPrefix)
	if !ok || raw == "" || strings.ContainsAny(raw, " \t") {
		return "", apperrors.ErrMissingCredentials
	}
	return raw, nil
}

// RequiresAuth reports whether requests with this method mutate state and so
// must pass the gate.
func RequiresAuth(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	}
	return true
}

type identityKey struct{}

// WithIdentity stores id on ctx for downstream handlers and audit logging.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity stored by WithIdentity.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(*Identity)
	return id, ok && id != nil
}
