package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	portEnvVar       = "PORT"
	appNameVar       = "APP_NAME"
	envVar           = "ENV"
	adminUsernameVar = "ADMIN_USERNAME"
	adminPasswordVar = "ADMIN_PASSWORD"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Villa Booking")
}

func (EnvVars) GetEnv() string {
	env := strings.ToUpper(os.Getenv(envVar))
	if env == "" {
		return EnvDev
	}
	return env
}

func (e EnvVars) IsProduction() bool {
	return e.GetEnv() == EnvProduction
}

func (EnvVars) GetAdminUsername() string {
	return GetEnv(adminUsernameVar, "admin")
}

// GetAdminPassword returns the bootstrap admin password. Empty means one is
// generated on first start.
func (EnvVars) GetAdminPassword() string {
	return GetEnv(adminPasswordVar, "")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

func getBoolEnv(envVar string) bool {
	switch strings.ToLower(os.Getenv(envVar)) {
	case "1", "true", "yes":
		return true
	}
	return false
}
