package enroll

import (
	"fmt"
	"time"
)

// Actuator kinds.
const (
	KindDryRun = "dry_run"
	KindMQTT   = "mqtt"
)

// Config controls how a schedule is applied.
type Config struct {
	Actuator          string `json:"actuator"`
	DelayMS           int    `json:"delay_ms"`
	AckTimeoutSeconds int    `json:"ack_timeout_seconds"`
}

// SetDefaults fills zero values.
func (c *Config) SetDefaults() {
	if c.Actuator == "" {
		c.Actuator = KindDryRun
	}
	if c.DelayMS == 0 {
		c.DelayMS = 500
	}
	if c.AckTimeoutSeconds == 0 {
		c.AckTimeoutSeconds = 5
	}
}

// Validate checks the settings.
func (c Config) Validate() error {
	if c.Actuator != KindDryRun && c.Actuator != KindMQTT {
		return fmt.Errorf("unknown enroll actuator %q", c.Actuator)
	}
	if c.DelayMS < 0 {
		return fmt.Errorf("enroll.delay_ms must be >= 0")
	}
	if c.AckTimeoutSeconds < 1 {
		return fmt.Errorf("enroll.ack_timeout_seconds must be >= 1")
	}
	return nil
}

// Delay returns the pause between two enroll actions.
func (c Config) Delay() time.Duration { return time.Duration(c.DelayMS) * time.Millisecond }

// AckTimeout returns how long to wait for one acknowledgment.
func (c Config) AckTimeout() time.Duration {
	return time.Duration(c.AckTimeoutSeconds) * time.Second
}
