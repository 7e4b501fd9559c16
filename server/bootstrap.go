package server

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	apperrors "github.com/jrsteele09/villa-booking/internal/errors"
	"github.com/jrsteele09/villa-booking/users"
	"github.com/rs/zerolog/log"
)

const DefaultAdminUsername = "admin"

// EnsureAdmin creates the admin account when it does not exist yet. With an
// empty password a random one is generated and returned so the caller can
// show it once; an existing account is never modified.
func EnsureAdmin(ctx context.Context, repo users.UserRepo, username, password string) (generatedPassword string, err error) {
	if username == "" {
		username = DefaultAdminUsername
	}

	existing, err := repo.GetByUsername(ctx, username)
	if err == nil {
		log.Info().Str("username", existing.Username).Msg("bootstrap: admin user already exists")
		return "", nil
	}
	if !apperrors.Is(err, apperrors.ErrUserNotFound) {
		return "", fmt.Errorf("failed to check for existing admin: %w", err)
	}

	if password == "" {
		// Generate a secure random password
		passwordBytes := make([]byte, 16)
		if _, err := rand.Read(passwordBytes); err != nil {
			return "", fmt.Errorf("failed to generate password: %w", err)
		}
		generatedPassword = base64.URLEncoding.EncodeToString(passwordBytes)
		password = generatedPassword
	} else if err := users.ValidatePasswordStrength(password); err != nil {
		return "", fmt.Errorf("%w: admin password: %v", apperrors.ErrConfiguration, err)
	}

	passwordHash, err := users.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &users.User{
		Username:     username,
		DisplayName:  "Administrator",
		PasswordHash: passwordHash,
	}
	if err := repo.Upsert(ctx, admin); err != nil {
		return "", fmt.Errorf("failed to create admin user: %w", err)
	}

	log.Info().Str("username", admin.Username).Int64("user_id", admin.ID).Msg("bootstrap: admin user created")
	return generatedPassword, nil
}
