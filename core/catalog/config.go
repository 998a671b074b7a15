package catalog

import "fmt"

// Source kinds.
const (
	KindFile = "file"
	KindHTTP = "http"
)

// Config selects and configures the catalog source.
type Config struct {
	Source         string `json:"source"`
	Path           string `json:"path"`
	URL            string `json:"url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// SetDefaults fills zero values.
func (c *Config) SetDefaults() {
	if c.Source == "" {
		c.Source = KindFile
	}
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = 10
	}
}

// Validate checks the source is usable.
func (c Config) Validate() error {
	switch c.Source {
	case KindFile:
		if c.Path == "" {
			return fmt.Errorf("catalog.path required for file source")
		}
	case KindHTTP:
		if c.URL == "" {
			return fmt.Errorf("catalog.url required for http source")
		}
	default:
		return fmt.Errorf("unknown catalog source %q", c.Source)
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("catalog.timeout_seconds must be >= 0")
	}
	return nil
}
