package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedTime is returned when a clock or range string cannot be encoded.
var ErrMalformedTime = errors.New("malformed time")

// rangeSeparator splits the two ends of a "HH:MM - HH:MM" range.
const rangeSeparator = " - "

// EncodeClock turns "HH:MM" into the integer HHMM (09:00 -> 900, 14:30 -> 1430).
// Minutes are always below 60 so numeric order of the encoded value matches
// chronological order for valid 24-hour times.
func EncodeClock(s string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(hh) == 0 || len(hh) > 2 || len(mm) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}
	return h*100 + m, nil
}

// FormatClock is the inverse of EncodeClock.
func FormatClock(v int) string {
	return fmt.Sprintf("%02d:%02d", v/100, v%100)
}

// TimeRange is a half-open interval of encoded clock values.
// Start < End is expected but not enforced.
type TimeRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// ParseTimeRange parses "HH:MM - HH:MM".
func ParseTimeRange(s string) (TimeRange, error) {
	a, b, ok := strings.Cut(s, rangeSeparator)
	if !ok {
		return TimeRange{}, fmt.Errorf("%w: missing %q in %q", ErrMalformedTime, rangeSeparator, s)
	}
	start, err := EncodeClock(a)
	if err != nil {
		return TimeRange{}, err
	}
	end, err := EncodeClock(b)
	if err != nil {
		return TimeRange{}, err
	}
	return TimeRange{Start: start, End: end}, nil
}

// Overlaps reports whether the two half-open ranges intersect.
func (r TimeRange) Overlaps(o TimeRange) bool {
	return r.Start < o.End && o.Start < r.End
}

// Within reports whether r lies inside [lo, hi].
func (r TimeRange) Within(lo, hi int) bool {
	return r.Start >= lo && r.End <= hi
}

func (r TimeRange) String() string {
	return FormatClock(r.Start) + rangeSeparator + FormatClock(r.End)
}
