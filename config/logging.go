package config

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kilianp07/smartreg/core/runlog"
)

// LoggingConfig defines the log level and the run log storage and rotation.
type LoggingConfig struct {
	// Level is the zerolog level name, "info" when empty.
	Level string `json:"level"`
	// Backend selects the run log store: "none", "jsonl", "jsonl_rotating" or "sqlite".
	Backend string `json:"backend"`
	// Path is the file location of the run log.
	Path string `json:"path"`
	// MaxSizeMB triggers rotation when the file exceeds this size in megabytes.
	MaxSizeMB int `json:"max_size_mb"`
	// MaxBackups limits the number of rotated files to keep.
	MaxBackups int `json:"max_backups"`
	// MaxAgeDays removes rotated files older than this number of days.
	MaxAgeDays int `json:"max_age_days"`
}

// SetDefaults applies sane defaults.
func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	rl := c.RunLog()
	rl.SetDefaults()
	c.Backend, c.Path = rl.Backend, rl.Path
	c.MaxSizeMB, c.MaxBackups, c.MaxAgeDays = rl.MaxSizeMB, rl.MaxBackups, rl.MaxAgeDays
}

// Validate checks the level and backend.
func (c LoggingConfig) Validate() error {
	if _, err := zerolog.ParseLevel(c.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if err := c.RunLog().Validate(); err != nil {
		return err
	}
	if c.Backend != runlog.BackendNone && c.Path == "" {
		return fmt.Errorf("logging.path is required")
	}
	return nil
}

// RunLog returns the run log store settings.
func (c LoggingConfig) RunLog() runlog.Config {
	return runlog.Config{
		Backend:    c.Backend,
		Path:       c.Path,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
	}
}
