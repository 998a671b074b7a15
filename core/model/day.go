package model

import "slices"

// Day is a weekday label as published by the portal ("Mon", "Tue", ...).
type Day string

const (
	Monday    Day = "Mon"
	Tuesday   Day = "Tue"
	Wednesday Day = "Wed"
	Thursday  Day = "Thu"
	Friday    Day = "Fri"
	Saturday  Day = "Sat"
	Sunday    Day = "Sun"
)

// Week lists every known day in calendar order.
var Week = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Weekdays is the default day selection.
var Weekdays = []Day{Monday, Tuesday, Wednesday, Thursday, Friday}

// Known reports whether d is one of the Week entries.
func (d Day) Known() bool {
	for _, w := range Week {
		if w == d {
			return true
		}
	}
	return false
}

// DaySet is an unordered set of days.
type DaySet map[Day]struct{}

// NewDaySet builds a set from the given days.
func NewDaySet(days ...Day) DaySet {
	s := make(DaySet, len(days))
	for _, d := range days {
		s[d] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s DaySet) Has(d Day) bool {
	_, ok := s[d]
	return ok
}

// Ordered returns the members in Week order, followed by unknown labels in
// lexical order.
func (s DaySet) Ordered() []Day {
	out := make([]Day, 0, len(s))
	for _, d := range Week {
		if s.Has(d) {
			out = append(out, d)
		}
	}
	if len(out) == len(s) {
		return out
	}
	var extra []Day
	for d := range s {
		if !d.Known() {
			extra = append(extra, d)
		}
	}
	slices.Sort(extra)
	return append(out, extra...)
}
