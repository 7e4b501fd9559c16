package config

import "time"

const authSecretVar = "AUTH_SECRET"

type SecurityConfig interface {
	GetAuthSecret() string
	GetSessionTokenTTL() time.Duration
	GetMaxBodyBytes() int64
}

type Security struct{}

var _ SecurityConfig = Security{}

// GetAuthSecret returns the HMAC key for session tokens. There is no default.
func (Security) GetAuthSecret() string {
	return GetEnv(authSecretVar, "")
}

func (Security) GetSessionTokenTTL() time.Duration {
	return 24 * time.Hour
}

func (Security) GetMaxBodyBytes() int64 {
	return 1 << 20
}
