package token

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Payload is the claim set carried by a session token.
type Payload struct {
	SubjectID   int64  `json:"subject_id"`
	SubjectName string `json:"subject_name"`
	IssuedAt    int64  `json:"issued_at"`  // Unix seconds
	ExpiresAt   int64  `json:"expires_at"` // Unix seconds
}

var _ jwt.Claims = Payload{}

func (p Payload) GetExpirationTime() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(time.Unix(p.ExpiresAt, 0)), nil
}

func (p Payload) GetIssuedAt() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(time.Unix(p.IssuedAt, 0)), nil
}

func (p Payload) GetNotBefore() (*jwt.NumericDate, error) {
	return nil, nil
}

func (p Payload) GetIssuer() (string, error) {
	return "", nil
}

func (p Payload) GetSubject() (string, error) {
	return strconv.FormatInt(p.SubjectID, 10), nil
}

func (p Payload) GetAudience() (jwt.ClaimStrings, error) {
	return nil, nil
}
