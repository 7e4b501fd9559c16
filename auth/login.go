package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"

	apperrors "github.com/jrsteele09/villa-booking/internal/errors"
	"github.com/jrsteele09/villa-booking/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// TokenIssuer is satisfied by *token.Service.
type TokenIssuer interface {
	Issue(subjectID int64, subjectName string) (string, error)
	ExpiresIn() int
}

// LoginResult is returned on a successful credential check.
type LoginResult struct {
	Token     string      `json:"token"`
	TokenType string      `json:"token_type"`
	ExpiresIn int         `json:"expires_in"`
	User      *users.User `json:"user"`
}

// LoginService checks admin credentials and issues session tokens.
type LoginService struct {
	users     users.UserRepo
	issuer    TokenIssuer
	dummyHash string // compared against when the username is unknown
}

func NewLoginService(userRepo users.UserRepo, issuer TokenIssuer) (*LoginService, error) {
	if userRepo == nil {
		return nil, errors.New("[NewLoginService] users repo is required")
	}
	if issuer == nil {
		return nil, errors.New("[NewLoginService] token issuer is required")
	}

	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return nil, errors.Wrap(err, "[NewLoginService] rand.Read")
	}
	dummy, err := users.HashPassword(hex.EncodeToString(b))
	if err != nil {
		return nil, errors.Wrap(err, "[NewLoginService] HashPassword")
	}

	return &LoginService{users: userRepo, issuer: issuer, dummyHash: dummy}, nil
}

// Login returns ErrInvalidCredentials for both an unknown username and a wrong
// password, and spends the same bcrypt work on each.
func (ls *LoginService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	user, err := ls.users.GetByUsername(ctx, username)
	if err != nil {
		if !apperrors.Is(err, apperrors.ErrUserNotFound) {
			return nil, errors.Wrap(err, "[Login] GetByUsername")
		}
		users.CheckPasswordHash(password, ls.dummyHash)
		return nil, apperrors.ErrInvalidCredentials
	}

	if !users.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	signed, err := ls.issuer.Issue(user.ID, user.Name())
	if err != nil {
		return nil, errors.Wrap(err, "[Login] Issue")
	}

	if err := ls.users.TouchLastLogin(ctx, user.ID); err != nil {
		log.Warn().Err(err).Int64("user_id", user.ID).Msg("failed to record last login")
	}

	return &LoginResult{
		Token:     signed,
		TokenType: "Bearer",
		ExpiresIn: ls.issuer.ExpiresIn(),
		User:      user,
	}, nil
}
