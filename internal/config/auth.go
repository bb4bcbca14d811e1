package config

import "os"

type AuthConfig struct {
	// JWTSecret enables HS256 bearer authentication on mutating routes when set.
	JWTSecret string
	JWTIssuer string
}

func LoadAuthConfig() *AuthConfig {
	return &AuthConfig{
		JWTSecret: os.Getenv("AUTH_JWT_SECRET"),
		JWTIssuer: os.Getenv("AUTH_JWT_ISSUER"),
	}
}

func (c *AuthConfig) Enabled() bool {
	return c != nil && c.JWTSecret != ""
}
