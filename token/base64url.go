package token

import (
	"encoding/base64"
	"strings"
)

// rawURL is the URL-safe alphabet without padding. Strict mode rejects
// encodings whose unused trailing bits are non-zero, so every byte string has
// exactly one accepted textual form.
var rawURL = base64.RawURLEncoding.Strict()

// Encode returns the URL-safe, unpadded base64 form of b.
func Encode(b []byte) string {
	return rawURL.EncodeToString(b)
}

// Decode reverses Encode. Trailing '=' padding is tolerated.
func Decode(s string) ([]byte, error) {
	return rawURL.DecodeString(strings.TrimRight(s, "="))
}
