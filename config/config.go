// Package config loads the planner configuration from a YAML or JSON file
// with K_ prefixed environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/smartreg/core/catalog"
	"github.com/kilianp07/smartreg/core/enroll"
	"github.com/kilianp07/smartreg/core/metrics"
	"github.com/kilianp07/smartreg/core/planner"
	"github.com/kilianp07/smartreg/infra/mqtt"
)

// Config is the complete planner configuration.
type Config struct {
	Catalog catalog.Config `json:"catalog"`
	Planner planner.Config `json:"planner"`
	Filters FiltersConfig  `json:"filters"`
	Enroll  enroll.Config  `json:"enroll"`
	MQTT    mqtt.Config    `json:"mqtt"`
	Metrics metrics.Config `json:"metrics"`
	Logging LoggingConfig  `json:"logging"`
	Sentry  SentryConfig   `json:"sentry"`
	Server  ServerConfig   `json:"server"`
}

// Load reads path and applies environment overrides. An empty path loads
// only the environment. Defaults are applied before validation.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	// K_SERVER__ADDRESS overrides server.address.
	if err := k.Load(env.Provider("K_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults applies the defaults of every section.
func (c *Config) SetDefaults() {
	c.Catalog.SetDefaults()
	if c.Catalog.Source == catalog.KindFile && c.Catalog.Path == "" {
		c.Catalog.Path = "catalog.json"
	}
	c.Planner.SetDefaults()
	c.Filters.SetDefaults()
	c.Enroll.SetDefaults()
	c.MQTT.SetDefaults()
	c.Logging.SetDefaults()
	c.Sentry.SetDefaults()
	c.Server.SetDefaults()
}

// Validate checks every section. MQTT settings are only checked when the
// mqtt actuator is selected.
func (c Config) Validate() error {
	if err := c.Catalog.Validate(); err != nil {
		return err
	}
	if err := c.Planner.Validate(); err != nil {
		return fmt.Errorf("planner: %w", err)
	}
	if err := c.Filters.Validate(); err != nil {
		return err
	}
	if err := c.Enroll.Validate(); err != nil {
		return err
	}
	if c.Enroll.Actuator == enroll.KindMQTT {
		if err := c.MQTT.Validate(); err != nil {
			return err
		}
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if err := c.Sentry.Validate(); err != nil {
		return err
	}
	return c.Server.Validate()
}
