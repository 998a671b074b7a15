package config

import (
	"fmt"
	"time"
)

// ServerConfig controls the HTTP surface. A non-empty Token is required as
// a bearer token on /api routes.
type ServerConfig struct {
	Address           string `json:"address"`
	SessionTTLSeconds int    `json:"session_ttl_seconds"`
	Token             string `json:"token"`
}

// SetDefaults fills zero values.
func (c *ServerConfig) SetDefaults() {
	if c.Address == "" {
		c.Address = ":8080"
	}
	if c.SessionTTLSeconds == 0 {
		c.SessionTTLSeconds = 1800
	}
}

// Validate checks the settings.
func (c ServerConfig) Validate() error {
	if c.SessionTTLSeconds < 1 {
		return fmt.Errorf("server.session_ttl_seconds must be >= 1")
	}
	return nil
}

// SessionTTL returns the idle lifetime of a planning session.
func (c ServerConfig) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLSeconds) * time.Second
}
