package config

import (
	"fmt"
	"strings"

	apperrors "github.com/jrsteele09/villa-booking/internal/errors"
)

const (
	EnvDev        = "DEV"
	EnvProduction = "PRODUCTION"
)

type Config interface {
	EnvConfig
	CorsConfig
	SecurityConfig
	PaymentConfig
	EmailConfig
	DatabaseConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	IsProduction() bool
	GetAdminUsername() string
	GetAdminPassword() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	Security
	Payment
	Email
	Database
}

func New() Config {
	return mainConfig{}
}

// Validate checks that every secret the server cannot run without is present.
// The returned error wraps ErrConfiguration and names the missing variables,
// never their values.
func Validate(c Config) error {
	var missing []string
	if c.GetAuthSecret() == "" {
		missing = append(missing, authSecretVar)
	}
	if c.GetDokuClientID() == "" {
		missing = append(missing, dokuClientIDVar)
	}
	// Without a key, checkout is unavailable and callbacks are rejected
	// unless unverified callbacks were explicitly allowed outside production.
	if c.GetDokuSecretKey() == "" && !c.AllowUnverifiedCallbacks() {
		missing = append(missing, dokuSecretKeyVar)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", apperrors.ErrConfiguration, strings.Join(missing, ", "))
	}
	return nil
}
