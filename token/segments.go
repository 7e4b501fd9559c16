package token

import (
	"fmt"
	"strings"

	apperrors "github.com/jrsteele09/villa-booking/internal/errors"
)

// Segments is a token split into its three base64url parts.
type Segments struct {
	Header    string
	Payload   string
	Signature string
}

// Split checks the compact shape of a token: exactly three non-empty segments,
// each valid base64url.
func Split(raw string) (Segments, error) {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return Segments{}, fmt.Errorf("%w: expected 3 segments, got %d", apperrors.ErrMalformedToken, len(parts))
	}
	for i, part := range parts {
		if part == "" {
			return Segments{}, fmt.Errorf("%w: segment %d is empty", apperrors.ErrMalformedToken, i)
		}
		if _, err := Decode(part); err != nil {
			return Segments{}, fmt.Errorf("%w: segment %d: %v", apperrors.ErrMalformedToken, i, err)
		}
	}
	return Segments{Header: parts[0], Payload: parts[1], Signature: parts[2]}, nil
}

// SigningInput is the text the signature is computed over.
func (s Segments) SigningInput() string {
	return s.Header + "." + s.Payload
}

func (s Segments) String() string {
	return s.SigningInput() + "." + s.Signature
}
