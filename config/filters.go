package config

import (
	"fmt"

	"github.com/kilianp07/smartreg/core/model"
)

// FiltersConfig holds the preferences applied when a request leaves a
// field empty.
type FiltersConfig struct {
	Days      []string `json:"days"`
	StartTime string   `json:"start_time"`
	EndTime   string   `json:"end_time"`
	MaxDays   int      `json:"max_days"`
	MaxGap    int      `json:"max_gap"`
}

// SetDefaults applies a Monday to Friday, 08:00 to 18:00 window.
func (c *FiltersConfig) SetDefaults() {
	if len(c.Days) == 0 {
		for _, d := range model.Weekdays {
			c.Days = append(c.Days, string(d))
		}
	}
	if c.StartTime == "" {
		c.StartTime = "08:00"
	}
	if c.EndTime == "" {
		c.EndTime = "18:00"
	}
	if c.MaxDays == 0 {
		c.MaxDays = 5
	}
	if c.MaxGap == 0 {
		c.MaxGap = 2
	}
}

// Validate checks the defaults can be converted.
func (c FiltersConfig) Validate() error {
	_, err := c.ToFilters()
	return err
}

// ToFilters converts the textual defaults into model filters.
func (c FiltersConfig) ToFilters() (model.Filters, error) {
	days := make([]model.Day, 0, len(c.Days))
	for _, d := range c.Days {
		day := model.Day(d)
		if !day.Known() {
			return model.Filters{}, fmt.Errorf("filters.days: unknown day %q", d)
		}
		days = append(days, day)
	}
	if len(days) == 0 {
		return model.Filters{}, fmt.Errorf("filters.days must not be empty")
	}
	start, err := model.EncodeClock(c.StartTime)
	if err != nil {
		return model.Filters{}, fmt.Errorf("filters.start_time: %w", err)
	}
	end, err := model.EncodeClock(c.EndTime)
	if err != nil {
		return model.Filters{}, fmt.Errorf("filters.end_time: %w", err)
	}
	if start > end {
		return model.Filters{}, fmt.Errorf("filters.start_time %s is after end_time %s", c.StartTime, c.EndTime)
	}
	if c.MaxDays < 0 || c.MaxGap < 0 {
		return model.Filters{}, fmt.Errorf("filters.max_days and max_gap must not be negative")
	}
	return model.Filters{
		Days:      model.NewDaySet(days...),
		StartTime: start,
		EndTime:   end,
		MaxDays:   c.MaxDays,
		MaxGap:    c.MaxGap,
	}, nil
}
