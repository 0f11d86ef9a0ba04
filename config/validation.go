package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that the configuration is usable in the current
// environment. Development and Test are permissive so the server and the
// test suites can run against local defaults; CI and Production require
// the credentials to be set explicitly.
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()

	var errors []string

	if env == CI || env == Production {
		if cfg.DBPassword == "" {
			errors = append(errors, "DB_PASSWORD is required")
		}
		if cfg.JWTSecret == "" {
			errors = append(errors, "JWT_SECRET is required")
		}
	}

	if cfg.ServerPort == "" {
		errors = append(errors, "SERVER_PORT must not be empty")
	}
	if cfg.DBHost == "" || cfg.DBPort == "" || cfg.DBName == "" {
		errors = append(errors, "DB_HOST, DB_PORT and DB_NAME must not be empty")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}
