package config

import (
	"fmt"
	"os"
	"strconv"
)

// DefaultJWTIssuer is the issuer claim used when JWT_ISSUER is unset
const DefaultJWTIssuer = "brand-compliance"

// JWTConfig holds configuration for service token signing and validation.
type JWTConfig struct {
	Secret          string
	Issuer          string
	ExpirationHours int
}

// NewJWTConfig creates a JWT configuration from environment variables.
// It reads JWT_SECRET (required), JWT_ISSUER (default: brand-compliance)
// and JWT_EXPIRATION_HOURS (default: 24).
func NewJWTConfig() (*JWTConfig, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}

	expirationStr := os.Getenv("JWT_EXPIRATION_HOURS")
	if expirationStr == "" {
		expirationStr = "24"
	}
	expirationHours, err := strconv.Atoi(expirationStr)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_HOURS: %v", err)
	}

	issuer := os.Getenv("JWT_ISSUER")
	if issuer == "" {
		issuer = DefaultJWTIssuer
	}

	config := &JWTConfig{
		Secret:          secret,
		Issuer:          issuer,
		ExpirationHours: expirationHours,
	}
	if err := config.normalize(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadJWTConfig is NewJWTConfig for optional auth: with required unset and
// no JWT_SECRET it returns nil and no error.
func LoadJWTConfig(required bool) (*JWTConfig, error) {
	if !required && os.Getenv("JWT_SECRET") == "" {
		return nil, nil
	}
	return NewJWTConfig()
}

func (c *JWTConfig) normalize() error {
	if c.Secret == "" {
		return fmt.Errorf("JWT_SECRET cannot be empty")
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	return nil
}
