package planner

import "fmt"

// Default search limits.
const (
	DefaultMaxCombinations      = 50000
	DefaultMaxSectionsPerCourse = 8
	DefaultMinSectionsPerCourse = 2
	DefaultMaxValid             = 100
	DefaultTopN                 = 10
)

// Config bounds the combinatorial search.
type Config struct {
	// MaxCombinations caps both the truncation target and the number of
	// schedules enumerated.
	MaxCombinations int `json:"max_combinations"`
	// MaxSectionsPerCourse is the first per-course ceiling tried when the
	// naive product is over the cap.
	MaxSectionsPerCourse int `json:"max_sections_per_course"`
	// MinSectionsPerCourse is the floor at which truncation stops.
	MinSectionsPerCourse int `json:"min_sections_per_course"`
	// MaxValid stops conflict filtering once this many schedules survive.
	MaxValid int `json:"max_valid"`
	// TopN is the size of the ranked result list.
	TopN int `json:"top_n"`
}

// SetDefaults fills zero values.
func (c *Config) SetDefaults() {
	if c.MaxCombinations == 0 {
		c.MaxCombinations = DefaultMaxCombinations
	}
	if c.MaxSectionsPerCourse == 0 {
		c.MaxSectionsPerCourse = DefaultMaxSectionsPerCourse
	}
	if c.MinSectionsPerCourse == 0 {
		c.MinSectionsPerCourse = DefaultMinSectionsPerCourse
	}
	if c.MaxValid == 0 {
		c.MaxValid = DefaultMaxValid
	}
	if c.TopN == 0 {
		c.TopN = DefaultTopN
	}
}

// Validate checks the limits are usable.
func (c Config) Validate() error {
	if c.MaxCombinations < 1 {
		return fmt.Errorf("max_combinations must be >= 1")
	}
	if c.MinSectionsPerCourse < 1 {
		return fmt.Errorf("min_sections_per_course must be >= 1")
	}
	if c.MaxSectionsPerCourse < c.MinSectionsPerCourse {
		return fmt.Errorf("max_sections_per_course (%d) must be >= min_sections_per_course (%d)",
			c.MaxSectionsPerCourse, c.MinSectionsPerCourse)
	}
	if c.MaxValid < 1 {
		return fmt.Errorf("max_valid must be >= 1")
	}
	if c.TopN < 1 {
		return fmt.Errorf("top_n must be >= 1")
	}
	return nil
}
