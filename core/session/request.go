package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/kilianp07/smartreg/core/model"
	"github.com/kilianp07/smartreg/core/planner"
	apperrors "github.com/kilianp07/smartreg/pkg/errors"
)

// Request carries the user's selection and filters as entered.
type Request struct {
	SelectedCourses []string `json:"selectedCourses"`
	Days            []string `json:"days"`
	StartTime       string   `json:"startTime"`
	EndTime         string   `json:"endTime"`
	MaxDays         *int     `json:"maxDays,omitempty"`
	MaxGap          *int     `json:"maxGap,omitempty"`
}

// Response is what a Submit or Confirm call reports back.
type Response struct {
	SessionID       string               `json:"sessionId"`
	State           State                `json:"state"`
	Status          planner.Status       `json:"status"`
	Message         string               `json:"message"`
	RankedResults   []model.RankedResult `json:"rankedResults"`
	ExcludedCourses []model.Course       `json:"excludedCourses"`
	Examined        int                  `json:"examined"`
	Valid           int                  `json:"valid"`
	Truncation      planner.Truncation   `json:"truncation"`
	Duration        time.Duration        `json:"-"`
}

// Selection returns the selected course codes trimmed and deduplicated in
// entry order.
func (r Request) Selection() []string {
	seen := make(map[string]bool, len(r.SelectedCourses))
	out := make([]string, 0, len(r.SelectedCourses))
	for _, c := range r.SelectedCourses {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// Filters converts the textual filters, using def for empty fields. A nil
// MaxDays or MaxGap takes the default; an explicit 0 is kept.
func (r Request) Filters(def model.Filters) (model.Filters, error) {
	f := def
	if len(r.Days) > 0 {
		f.Days = model.DaySet{}
		for _, d := range r.Days {
			if d = strings.TrimSpace(d); d != "" {
				f.Days[model.Day(d)] = struct{}{}
			}
		}
	}
	if len(f.Days) == 0 {
		return model.Filters{}, invalid("at least one day must be selected")
	}
	var err error
	if r.StartTime != "" {
		if f.StartTime, err = model.EncodeClock(r.StartTime); err != nil {
			return model.Filters{}, invalid(fmt.Sprintf("start time: %v", err))
		}
	}
	if r.EndTime != "" {
		if f.EndTime, err = model.EncodeClock(r.EndTime); err != nil {
			return model.Filters{}, invalid(fmt.Sprintf("end time: %v", err))
		}
	}
	if f.StartTime > f.EndTime {
		return model.Filters{}, invalid(fmt.Sprintf("start time %s is after end time %s",
			model.FormatClock(f.StartTime), model.FormatClock(f.EndTime)))
	}
	if (r.MaxDays != nil && *r.MaxDays < 0) || (r.MaxGap != nil && *r.MaxGap < 0) {
		return model.Filters{}, invalid("maxDays and maxGap must not be negative")
	}
	if r.MaxDays != nil {
		f.MaxDays = *r.MaxDays
	}
	if r.MaxGap != nil {
		f.MaxGap = *r.MaxGap
	}
	return f, nil
}

func invalid(msg string) error {
	return apperrors.Clone(apperrors.ErrValidation, msg)
}
